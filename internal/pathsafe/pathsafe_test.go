package pathsafe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func resolvedTempDir(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}
	return root
}

func TestJoin(t *testing.T) {
	root := resolvedTempDir(t)

	tests := []struct {
		name string
		rel  string
		want string
	}{
		{name: "plain relative", rel: "a/b.txt", want: filepath.Join(root, "a", "b.txt")},
		{name: "leading slash stripped", rel: "/a.txt", want: filepath.Join(root, "a.txt")},
		{name: "dot segments collapsed", rel: "a/../b.txt", want: filepath.Join(root, "b.txt")},
		{name: "backslashes tolerated", rel: "a\\b.txt", want: filepath.Join(root, "a", "b.txt")},
		{name: "empty means root", rel: "", want: root},
		{name: "dot means root", rel: ".", want: root},
		{name: "whitespace trimmed", rel: "  a.txt  ", want: filepath.Join(root, "a.txt")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Join(root, tt.rel)
			if err != nil {
				t.Fatalf("Join(%q) error = %v", tt.rel, err)
			}
			if got != tt.want {
				t.Errorf("Join(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}
}

func TestJoinRejectsEscapes(t *testing.T) {
	root := resolvedTempDir(t)

	tests := []struct {
		name string
		rel  string
	}{
		{name: "parent", rel: ".."},
		{name: "parent file", rel: "../x"},
		{name: "hidden climb", rel: "a/../../b"},
		{name: "deep climb", rel: "a/b/../../../c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Join(root, tt.rel)
			var escapeErr *EscapeError
			if !errors.As(err, &escapeErr) {
				t.Fatalf("Join(%q) error = %v, want *EscapeError", tt.rel, err)
			}
			if escapeErr.Relative != tt.rel {
				t.Errorf("EscapeError.Relative = %q, want %q", escapeErr.Relative, tt.rel)
			}
		})
	}
}

func TestJoinRejectsSymlinkEscape(t *testing.T) {
	root := resolvedTempDir(t)
	outside := resolvedTempDir(t)
	if err := os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := Join(root, "link/secret.txt")
	var escapeErr *EscapeError
	if !errors.As(err, &escapeErr) {
		t.Fatalf("Join through symlink error = %v, want *EscapeError", err)
	}
}

func TestJoinAllowsSymlinkInsideRoot(t *testing.T) {
	root := resolvedTempDir(t)
	if err := os.MkdirAll(filepath.Join(root, "real"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "real", "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := Join(root, "alias/f.txt")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if want := filepath.Join(root, "real", "f.txt"); got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
}
