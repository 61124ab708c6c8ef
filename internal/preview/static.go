package preview

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"
	"strings"
)

func init() {
	// Register web-build MIME types the standard table may lack.
	for _, pair := range [][2]string{
		{".map", "application/json"},
		{".md", "text/markdown"},
		{".wasm", "application/wasm"},
		{".webmanifest", "application/manifest+json"},
	} {
		if err := mime.AddExtensionType(pair[0], pair[1]); err != nil {
			panic(err)
		}
	}
}

func typeByExtension(ext string) string {
	return mime.TypeByExtension(ext)
}

// serveFile streams a static asset with caching headers. HTML gets the
// live-reload script appended when live reload is on, which requires
// buffering the file to recompute Content-Length. requestPath is only used
// for the 404 body if the file vanished after route resolution.
func (rt *router) serveFile(w http.ResponseWriter, filePath, requestPath string) {
	contentType := guessContentType(filePath)
	if rt.liveReload && strings.HasPrefix(contentType, "text/html") {
		rt.serveHTMLWithReload(w, filePath, requestPath)
		return
	}

	info, err := os.Stat(filePath)
	if err != nil {
		respondNotFound(w, requestPath)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	rt.setCacheHeaders(w, info.ModTime().UnixNano(), info.Size())
	w.WriteHeader(http.StatusOK)
	streamFile(w, filePath)
}

func (rt *router) serveHTMLWithReload(w http.ResponseWriter, filePath, requestPath string) {
	payload, err := os.ReadFile(filePath)
	if err != nil {
		respondNotFound(w, requestPath)
		return
	}
	body := append(payload, []byte(liveReloadScript(rt.reloadPath))...)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", rt.m.UI.CachePolicy.MaxAgeSeconds))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (rt *router) setCacheHeaders(w http.ResponseWriter, modTimeNS, size int64) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", rt.m.UI.CachePolicy.MaxAgeSeconds))
	if rt.m.UI.CachePolicy.ETag {
		// Weak validator from mtime and size; cheap and good enough for a
		// local dev server, no content hashing.
		w.Header().Set("ETag", fmt.Sprintf(`W/"%x-%x"`, modTimeNS, size))
	}
}

// streamFile copies the file body in fixed-size chunks so multi-megabyte
// assets are never buffered whole. Write failures mean the peer went away
// and are treated as normal termination.
func streamFile(w http.ResponseWriter, filePath string) {
	f, err := os.Open(filePath)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()
	buf := make([]byte, streamChunkSize)
	// The writer is wrapped so CopyBuffer cannot take the ReaderFrom fast
	// path and bypass the chunk buffer.
	_, _ = io.CopyBuffer(struct{ io.Writer }{w}, f, buf)
}

// liveReloadScript returns the inline script appended to HTML responses. It
// opens the reload event stream, takes the first version as its baseline,
// and reloads the page when a strictly greater version arrives.
func liveReloadScript(reloadPath string) string {
	return "\n<script>(function(){" +
		"var source=new EventSource('" + reloadPath + "');" +
		"var version=null;" +
		"source.onmessage=function(event){" +
		"var next=Number(event.data||'0');" +
		"if(version===null){version=next;return;}" +
		"if(next>version){window.location.reload();}" +
		"version=next;" +
		"};" +
		"})();</script>"
}
