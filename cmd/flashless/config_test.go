package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectDefaults(t *testing.T) {
	t.Run("missing file is fine", func(t *testing.T) {
		defaults, err := loadProjectDefaults(t.TempDir())
		if err != nil {
			t.Fatalf("loadProjectDefaults() error = %v", err)
		}
		if defaults != (projectDefaults{}) {
			t.Errorf("defaults = %+v, want zero value", defaults)
		}
	})

	t.Run("fields parsed", func(t *testing.T) {
		dir := t.TempDir()
		content := "host: 0.0.0.0\nport: 9000\nrequestLog: all\nlogLevel: debug\nliveReload: false\n"
		if err := os.WriteFile(filepath.Join(dir, ".flashless.yaml"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		defaults, err := loadProjectDefaults(dir)
		if err != nil {
			t.Fatalf("loadProjectDefaults() error = %v", err)
		}
		if defaults.Host != "0.0.0.0" || defaults.Port != 9000 {
			t.Errorf("binding defaults = %+v", defaults)
		}
		if defaults.RequestLog != "all" || defaults.LogLevel != "debug" {
			t.Errorf("log defaults = %+v", defaults)
		}
		if defaults.LiveReload == nil || *defaults.LiveReload {
			t.Errorf("LiveReload = %v, want explicit false", defaults.LiveReload)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".flashless.yaml"), []byte("host: [\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := loadProjectDefaults(dir); err == nil {
			t.Error("loadProjectDefaults() succeeded on invalid YAML")
		}
	})
}

func TestPreviewURL(t *testing.T) {
	tests := []struct {
		host string
		port int
		base string
		want string
	}{
		{"127.0.0.1", 8787, "/", "http://127.0.0.1:8787/"},
		{"0.0.0.0", 8787, "/", "http://127.0.0.1:8787/"},
		{"::", 9000, "/admin", "http://127.0.0.1:9000/admin"},
		{"192.168.1.5", 80, "/admin", "http://192.168.1.5:80/admin"},
	}
	for _, tt := range tests {
		if got := previewURL(tt.host, tt.port, tt.base); got != tt.want {
			t.Errorf("previewURL(%q, %d, %q) = %q, want %q", tt.host, tt.port, tt.base, got, tt.want)
		}
	}
}
