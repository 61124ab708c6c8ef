package manifest

import (
	"fmt"
	"os"
	"path/filepath"
)

// Discover returns the manifest path for a project. An explicit override is
// returned as-is (resolved against projectDir when relative) without
// checking existence; Load reports a missing file with a better message.
// Without an override, the well-known locations are probed in order.
func Discover(projectDir, override string) (string, error) {
	if override != "" {
		if filepath.IsAbs(override) {
			return override, nil
		}
		return filepath.Join(projectDir, override), nil
	}

	candidates := []string{
		filepath.Join(projectDir, "flashless.manifest.json"),
		filepath.Join(projectDir, "web", "flashless.manifest.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf(
		"Missing flashless manifest. Create one at 'flashless.manifest.json' or 'web/flashless.manifest.json', or pass --manifest")
}
