// Package report writes the preview run report consumed by build tooling.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/flashless-dev/flashless/internal/manifest"
)

// Document is the on-disk report shape.
type Document struct {
	Manifest   ManifestInfo   `json:"manifest"`
	Server     ServerInfo     `json:"server"`
	Validation ValidationInfo `json:"validation"`
	Routes     []string       `json:"routes"`
	API        APIInfo        `json:"api"`
}

// ManifestInfo identifies the manifest the server ran with.
type ManifestInfo struct {
	Path    string `json:"path"`
	SHA256  string `json:"sha256"`
	Version string `json:"version"`
}

// ServerInfo records the effective server binding.
type ServerInfo struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Mode      string `json:"mode"`
	BasePath  string `json:"basePath"`
	AssetRoot string `json:"assetRoot"`
}

// ValidationInfo mirrors the parity result.
type ValidationInfo struct {
	MissingRequiredFiles []string `json:"missingRequiredFiles"`
	MissingFixtures      []string `json:"missingFixtures"`
	UnresolvedRoutes     []string `json:"unresolvedRoutes"`
	HasErrors            bool     `json:"hasErrors"`
}

// APIInfo summarizes the mock API surface.
type APIInfo struct {
	Mode         string `json:"mode"`
	FixturesDir  string `json:"fixturesDir"`
	MappingCount int    `json:"mappingCount"`
}

// Write renders the report under <buildDir>/flashless/report.json and
// returns the written path.
func Write(buildDir string, m *manifest.Manifest, v manifest.ValidationResult, host string, port int, mode string) (string, error) {
	reportDir := filepath.Join(buildDir, "flashless")
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	reportPath := filepath.Join(reportDir, "report.json")

	digest, err := sha256File(m.SourcePath)
	if err != nil {
		return "", err
	}

	doc := Document{
		Manifest: ManifestInfo{
			Path:    m.SourcePath,
			SHA256:  digest,
			Version: m.Version,
		},
		Server: ServerInfo{
			Host:      host,
			Port:      port,
			Mode:      mode,
			BasePath:  m.UI.BasePath,
			AssetRoot: m.UI.AssetRoot,
		},
		Validation: ValidationInfo{
			MissingRequiredFiles: emptyNotNil(v.MissingRequiredFiles),
			MissingFixtures:      emptyNotNil(v.MissingFixtureFiles),
			UnresolvedRoutes:     emptyNotNil(v.UnresolvedRoutes),
			HasErrors:            v.HasErrors(),
		},
		Routes: emptyNotNil(m.UI.Routes),
		API: APIInfo{
			Mode:         m.API.Mode,
			FixturesDir:  m.API.FixturesDir,
			MappingCount: len(m.API.Mappings),
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(reportPath, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return reportPath, nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to hash manifest: %w", err)
	}
	defer func() { _ = f.Close() }()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash manifest: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// emptyNotNil keeps JSON arrays as [] instead of null.
func emptyNotNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
