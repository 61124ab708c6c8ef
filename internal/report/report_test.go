package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/flashless-dev/flashless/internal/manifest"
)

func TestWrite(t *testing.T) {
	projectDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(projectDir, "web", "dist"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(projectDir, "web", "dist", "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	manifestJSON := []byte(`{
		"version": "1",
		"ui": {"assetRoot": "web/dist", "routes": ["/", "/settings"]},
		"api": {"map": [{"method": "GET", "path": "/api/health", "fixture": "health.json"}]}
	}`)
	manifestPath := filepath.Join(projectDir, "flashless.manifest.json")
	if err := os.WriteFile(manifestPath, manifestJSON, 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := manifest.Load(manifestPath, projectDir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	v, err := manifest.ValidateParity(m)
	if err != nil {
		t.Fatalf("ValidateParity() error = %v", err)
	}

	buildDir := t.TempDir()
	reportPath, err := Write(buildDir, m, v, "127.0.0.1", 8787, "mock")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if want := filepath.Join(buildDir, "flashless", "report.json"); reportPath != want {
		t.Errorf("Write() = %q, want %q", reportPath, want)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}

	digest := sha256.Sum256(manifestJSON)
	if doc.Manifest.SHA256 != hex.EncodeToString(digest[:]) {
		t.Errorf("Manifest.SHA256 = %q, want digest of the manifest file", doc.Manifest.SHA256)
	}
	if doc.Manifest.Path != manifestPath || doc.Manifest.Version != "1" {
		t.Errorf("Manifest = %+v", doc.Manifest)
	}
	if doc.Server.Host != "127.0.0.1" || doc.Server.Port != 8787 || doc.Server.Mode != "mock" {
		t.Errorf("Server = %+v", doc.Server)
	}
	if doc.Server.BasePath != "/" {
		t.Errorf("Server.BasePath = %q, want /", doc.Server.BasePath)
	}
	if len(doc.Routes) != 2 {
		t.Errorf("Routes = %v, want 2 entries", doc.Routes)
	}
	if doc.API.MappingCount != 1 {
		t.Errorf("API.MappingCount = %d, want 1", doc.API.MappingCount)
	}
	// The declared fixture does not exist, so parity must carry it.
	if !doc.Validation.HasErrors || len(doc.Validation.MissingFixtures) != 1 {
		t.Errorf("Validation = %+v, want missing fixture recorded", doc.Validation)
	}
	if doc.Validation.MissingRequiredFiles == nil || doc.Validation.UnresolvedRoutes == nil {
		t.Error("empty validation arrays must be [] in JSON, not null")
	}
}
