package manifest

import (
	"os"
	"slices"
	"strings"

	"github.com/flashless-dev/flashless/internal/pathsafe"
)

// ValidationResult reports the gaps between what the manifest declares and
// what exists on disk. It is recomputed on every load and never persisted.
// Each set is deduplicated and sorted.
type ValidationResult struct {
	MissingRequiredFiles []string
	MissingFixtureFiles  []string
	UnresolvedRoutes     []string
}

// HasErrors reports whether any parity check failed.
func (v ValidationResult) HasErrors() bool {
	return len(v.MissingRequiredFiles) > 0 || len(v.MissingFixtureFiles) > 0 || len(v.UnresolvedRoutes) > 0
}

// ValidateParity cross-checks the manifest's declared expectations against
// the filesystem. Misses are collected, not fatal; escalating them is the
// caller's choice (strict mode). A path-escape in a declared file is a hard
// error, not a miss.
func ValidateParity(m *Manifest) (ValidationResult, error) {
	var result ValidationResult

	for _, rel := range m.Validation.RequiredFiles {
		exists, err := fileExists(m.UI.AssetRoot, rel)
		if err != nil {
			return result, err
		}
		if !exists {
			result.MissingRequiredFiles = append(result.MissingRequiredFiles, rel)
		}
	}

	for _, mapping := range m.API.Mappings {
		exists, err := fileExists(m.API.FixturesDir, mapping.Fixture)
		if err != nil {
			return result, err
		}
		if !exists {
			result.MissingFixtureFiles = append(result.MissingFixtureFiles, mapping.Fixture)
		}
	}

	for _, route := range m.UI.Routes {
		// Wildcard patterns are satisfied by definition.
		if strings.HasSuffix(route, "/*") {
			continue
		}
		resolved, err := routeResolves(m, route)
		if err != nil {
			return result, err
		}
		if !resolved {
			result.UnresolvedRoutes = append(result.UnresolvedRoutes, route)
		}
	}

	sortUnique(&result.MissingRequiredFiles)
	sortUnique(&result.MissingFixtureFiles)
	sortUnique(&result.UnresolvedRoutes)
	return result, nil
}

func routeResolves(m *Manifest, route string) (bool, error) {
	if candidate := routeAssetCandidate(route); candidate != "" {
		exists, err := fileExists(m.UI.AssetRoot, candidate)
		if err != nil || exists {
			return exists, err
		}
	}
	if m.UI.SPAFallback {
		return fileExists(m.UI.AssetRoot, m.UI.EntryFile)
	}
	return false, nil
}

// routeAssetCandidate returns the asset path a route names directly, which
// is only the case when its final segment looks like a filename.
func routeAssetCandidate(route string) string {
	value := strings.TrimLeft(route, "/")
	if value == "" {
		return ""
	}
	last := value
	if i := strings.LastIndex(value, "/"); i >= 0 {
		last = value[i+1:]
	}
	if strings.Contains(last, ".") {
		return value
	}
	return ""
}

func fileExists(root, rel string) (bool, error) {
	joined, err := pathsafe.Join(root, rel)
	if err != nil {
		return false, err
	}
	_, statErr := os.Stat(joined)
	return statErr == nil, nil
}

func sortUnique(values *[]string) {
	slices.Sort(*values)
	*values = slices.Compact(*values)
}
