// Package pathsafe joins request- or manifest-derived relative paths onto a
// filesystem root while guaranteeing the result cannot escape that root.
package pathsafe

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// EscapeError reports a relative path that would resolve outside its root.
// Callers treat it as a configuration error in validation paths and as a
// plain 404 in request handling; the message is never sent verbatim to an
// HTTP client.
type EscapeError struct {
	Root     string
	Relative string
}

func (e *EscapeError) Error() string {
	return fmt.Sprintf("path escapes root directory: %s", e.Relative)
}

// Join resolves rel against root and returns the absolute result.
//
// root must already be an absolute, symlink-resolved directory path. rel is
// normalized (backslashes tolerated, "."/".." segments collapsed, leading
// slashes stripped) before joining. Any rel that climbs above root, either
// through ".." segments or through a symlink inside root, fails with an
// *EscapeError rather than being clamped.
func Join(root, rel string) (string, error) {
	cleaned := path.Clean(strings.TrimLeft(strings.ReplaceAll(strings.TrimSpace(rel), "\\", "/"), "/"))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", &EscapeError{Root: root, Relative: rel}
	}
	if cleaned == "." {
		cleaned = ""
	}
	candidate := filepath.Join(root, filepath.FromSlash(cleaned))

	// A symlink inside root may still point outside it. Resolve when the
	// candidate exists and re-check containment on the resolved path.
	resolved := candidate
	if r, err := filepath.EvalSymlinks(candidate); err == nil {
		resolved = r
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to resolve %s: %w", candidate, err)
	}
	if resolved != root && !strings.HasPrefix(resolved, root+string(filepath.Separator)) {
		return "", &EscapeError{Root: root, Relative: rel}
	}
	return resolved, nil
}
