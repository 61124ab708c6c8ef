package preview

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flashless-dev/flashless/internal/reload"
)

func TestNormalizeRequestPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"/a/b", "/a/b"},
		{"/a/b/", "/a/b"},
		{"/a//b", "/a/b"},
		{"/a/./b", "/a/b"},
		{"/a/../b", "/b"},
		{"/../../etc/passwd", "/etc/passwd"},
		{"", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeRequestPath(tt.in); got != tt.want {
				t.Errorf("normalizeRequestPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRelativeToBase(t *testing.T) {
	tests := []struct {
		requestPath string
		basePath    string
		want        string
	}{
		{"/x", "/", "/x"},
		{"/", "/", "/"},
		{"/admin", "/admin", "/"},
		{"/admin/x", "/admin", "/x"},
		{"/admin/a/b", "/admin", "/a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.requestPath, func(t *testing.T) {
			if got := relativeToBase(tt.requestPath, tt.basePath); got != tt.want {
				t.Errorf("relativeToBase(%q, %q) = %q, want %q", tt.requestPath, tt.basePath, got, tt.want)
			}
		})
	}
}

func TestJoinBasePath(t *testing.T) {
	tests := []struct {
		basePath string
		route    string
		want     string
	}{
		{"/", ReloadEndpoint, ReloadEndpoint},
		{"/admin", ReloadEndpoint, "/admin" + ReloadEndpoint},
		{"/admin", "x", "/admin/x"},
	}
	for _, tt := range tests {
		if got := joinBasePath(tt.basePath, tt.route); got != tt.want {
			t.Errorf("joinBasePath(%q, %q) = %q, want %q", tt.basePath, tt.route, got, tt.want)
		}
	}
}

// A raw traversal target must never reach outside the asset root, even when
// the request line bypasses client-side URL cleanup.
func TestTraversalRequestCannotEscapeAssetRoot(t *testing.T) {
	m, dir := newTestProject(t, defaultManifest)
	secret := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(secret, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	rt := newRouter(m, reload.NewState(), false)
	for _, target := range []string{"/../secret.txt", "/assets/../../secret.txt", "/..%2fsecret.txt"} {
		req := httptest.NewRequest("GET", target, nil)
		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, req)
		if body := rec.Body.String(); strings.Contains(body, "secret") {
			t.Errorf("GET %s leaked file content outside the asset root", target)
		}
	}
}

func TestGuessContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"app.wasm", "application/wasm"},
		{"site.webmanifest", "application/manifest+json"},
		{"bundle.js.map", "application/json"},
		{"blob.bin", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := guessContentType(tt.name); !strings.HasPrefix(got, tt.want) {
				t.Errorf("guessContentType(%q) = %q, want prefix %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestNewRouterIndexesMappings(t *testing.T) {
	m, _ := newTestProject(t, defaultManifest)
	rt := newRouter(m, reload.NewState(), false)
	if _, ok := rt.api[apiKey{"GET", "/api/health"}]; !ok {
		t.Error("GET /api/health mapping not indexed")
	}
	if _, ok := rt.api[apiKey{"POST", "/api/health"}]; ok {
		t.Error("method is part of the mapping key; POST must not match")
	}
}
