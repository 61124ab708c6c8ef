package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// respondNotFound writes the uniform 404 body. No resolution detail beyond
// the request path is ever exposed to the client.
func respondNotFound(w http.ResponseWriter, requestPath string) {
	respondJSON(w, http.StatusNotFound, map[string]any{
		"error": "Not found",
		"path":  requestPath,
	})
}

func respondJSON(w http.ResponseWriter, status int, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to encode error response", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
