package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTemplateLoads(t *testing.T) {
	dir := newProject(t)
	p := filepath.Join(dir, "flashless.manifest.json")
	if err := os.WriteFile(p, Template(), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(p, dir, nil)
	if err != nil {
		t.Fatalf("Load(Template()) error = %v", err)
	}
	if m.UI.EntryFile != "index.html" {
		t.Errorf("UI.EntryFile = %q, want index.html", m.UI.EntryFile)
	}
	if len(m.API.Mappings) != 1 || m.API.Mappings[0].Path != "/api/health" {
		t.Errorf("API.Mappings = %+v, want one /api/health mapping", m.API.Mappings)
	}
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	if err != nil {
		t.Fatalf("Schema() error = %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Schema() output is not valid JSON: %v", err)
	}
	for _, field := range []string{"version", "assetRoot", "spaFallback", "fixturesDir", "disallowExtraRoutes"} {
		if !strings.Contains(string(data), `"`+field+`"`) {
			t.Errorf("Schema() output missing field %q", field)
		}
	}
}
