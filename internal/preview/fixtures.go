package preview

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/flashless-dev/flashless/internal/manifest"
)

// serveFixture answers a mocked API request with the mapping's fixture file.
// A fixture that is declared but absent on disk is a manifest/runtime
// inconsistency and the one case that yields a 500.
func (rt *router) serveFixture(w http.ResponseWriter, mapping manifest.APIMapping) {
	fixturePath := rt.fixturePath(mapping.Fixture)
	if fixturePath == "" {
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Missing fixture: " + mapping.Fixture,
		})
		return
	}
	info, err := os.Stat(fixturePath)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Missing fixture: " + mapping.Fixture,
		})
		return
	}

	contentType := mapping.Headers["Content-Type"]
	if contentType == "" {
		contentType = guessContentType(fixturePath)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	for name, value := range mapping.Headers {
		lowered := strings.ToLower(name)
		if lowered == "content-type" || lowered == "content-length" {
			continue
		}
		// Assigned directly instead of Set to keep the declared header
		// casing on the wire.
		w.Header()[name] = []string{value}
	}
	w.WriteHeader(mapping.Status)
	streamFile(w, fixturePath)
}
