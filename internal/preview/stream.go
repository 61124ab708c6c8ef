package preview

import (
	"fmt"
	"io"
	"net/http"
)

// serveReloadStream holds the connection open as a server-sent-events
// stream. The current version is emitted immediately; afterwards each bump
// emits a new "data:" event and quiet periods emit keepalive comments. The
// loop only ends when the peer goes away.
func (rt *router) serveReloadStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	version := rt.state.Get()
	if _, err := fmt.Fprintf(w, "data: %d\n\n", version); err != nil {
		return
	}
	flusher.Flush()

	for {
		next, changed := rt.state.WaitForChange(r.Context(), version, keepaliveInterval)
		if r.Context().Err() != nil {
			return
		}
		if !changed {
			if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
			continue
		}
		version = next
		if _, err := fmt.Fprintf(w, "data: %d\n\n", version); err != nil {
			return
		}
		flusher.Flush()
	}
}
