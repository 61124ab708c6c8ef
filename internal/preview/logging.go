package preview

import (
	"log/slog"
	"net/http"
	"time"
)

// LogPolicy selects which completed requests are logged.
type LogPolicy string

// Request log policies.
const (
	// LogNone never logs.
	LogNone LogPolicy = "none"
	// LogErrors logs requests whose status is >= 400, and requests whose
	// status never became known (treated as error-worthy).
	LogErrors LogPolicy = "errors"
	// LogAll logs every request.
	LogAll LogPolicy = "all"
)

// ParseLogPolicy validates a policy name from configuration.
func ParseLogPolicy(value string) (LogPolicy, bool) {
	switch LogPolicy(value) {
	case LogNone, LogErrors, LogAll:
		return LogPolicy(value), true
	}
	return "", false
}

// shouldLogRequest decides per completed request. status 0 means the
// handler never reported one, which counts as an error under LogErrors.
func shouldLogRequest(policy LogPolicy, status int) bool {
	switch policy {
	case LogNone:
		return false
	case LogErrors:
		return status == 0 || status >= 400
	default:
		return true
	}
}

// statusRecorder captures the status code the transport reports so the log
// policy can be evaluated after the handler returns. It forwards Flush so
// the reload stream keeps working behind it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	return sr.ResponseWriter.Write(b)
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func logRequests(policy LogPolicy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(sr, r)
		if !shouldLogRequest(policy, sr.status) {
			return
		}
		level := slog.LevelInfo
		if sr.status == 0 || sr.status >= 400 {
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.status,
			"dur", time.Since(start),
			"remote", r.RemoteAddr)
	})
}
