package preview

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/flashless-dev/flashless/internal/manifest"
	"github.com/flashless-dev/flashless/internal/pathsafe"
	"github.com/flashless-dev/flashless/internal/reload"
)

type apiKey struct {
	method string
	path   string
}

// router dispatches every request through a fixed precedence chain:
// live-reload stream, API fixture mapping, static asset, SPA fallback, 404.
// It is built once per server instance from the manifest and holds only
// read-only lookup structures, so connection handlers share it freely.
type router struct {
	m          *manifest.Manifest
	state      *reload.State
	liveReload bool
	api        map[apiKey]manifest.APIMapping
	reloadPath string
}

func newRouter(m *manifest.Manifest, state *reload.State, liveReload bool) *router {
	api := make(map[apiKey]manifest.APIMapping, len(m.API.Mappings))
	for _, mapping := range m.API.Mappings {
		api[apiKey{mapping.Method, mapping.Path}] = mapping
	}
	return &router{
		m:          m,
		state:      state,
		liveReload: liveReload,
		api:        api,
		reloadPath: joinBasePath(m.UI.BasePath, ReloadEndpoint),
	}
}

func (rt *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestPath := normalizeRequestPath(r.URL.Path)

	if rt.liveReload && r.Method == http.MethodGet && requestPath == rt.reloadPath {
		rt.serveReloadStream(w, r)
		return
	}

	if mapping, ok := rt.api[apiKey{strings.ToUpper(r.Method), requestPath}]; ok {
		rt.serveFixture(w, mapping)
		return
	}

	basePath := rt.m.UI.BasePath
	if basePath != "/" && requestPath != basePath && !strings.HasPrefix(requestPath, basePath+"/") {
		respondNotFound(w, requestPath)
		return
	}

	relRoute := relativeToBase(requestPath, basePath)
	if candidate := rt.resolveStaticCandidate(relRoute); candidate != "" {
		rt.serveFile(w, candidate, requestPath)
		return
	}

	declared := false
	for _, pattern := range rt.m.UI.Routes {
		if manifest.RouteMatches(pattern, relRoute) {
			declared = true
			break
		}
	}
	if declared || (rt.m.UI.SPAFallback && !rt.m.Validation.DisallowExtraRoutes) {
		if entry := rt.existingFile(rt.m.UI.AssetRoot, rt.m.UI.EntryFile); entry != "" {
			rt.serveFile(w, entry, requestPath)
			return
		}
	}

	respondNotFound(w, requestPath)
}

// resolveStaticCandidate maps a base-relative route to an existing regular
// file under the asset root, or "" when the route names no file. Routes
// without a file extension also try the route with ".html" appended.
func (rt *router) resolveStaticCandidate(relRoute string) string {
	if relRoute == "" || relRoute == "/" {
		return rt.existingFile(rt.m.UI.AssetRoot, rt.m.UI.EntryFile)
	}
	normalized := strings.TrimLeft(relRoute, "/")
	if candidate := rt.existingFile(rt.m.UI.AssetRoot, normalized); candidate != "" {
		return candidate
	}
	if path.Ext(normalized) == "" {
		return rt.existingFile(rt.m.UI.AssetRoot, normalized+".html")
	}
	return ""
}

// existingFile joins rel onto root and returns the resolved path when it is
// an existing regular file. Escape attempts resolve to "" here; at request
// time they surface as a 404, never as an error detail.
func (rt *router) existingFile(root, rel string) string {
	joined, err := pathsafe.Join(root, rel)
	if err != nil {
		return ""
	}
	info, err := os.Stat(joined)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return joined
}

// fixturePath resolves a mapping's fixture file, distinguishing "missing"
// from "escapes the fixtures directory" only in that both yield no path.
func (rt *router) fixturePath(fixture string) string {
	joined, err := pathsafe.Join(rt.m.API.FixturesDir, fixture)
	if err != nil {
		return ""
	}
	info, err := os.Stat(joined)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return joined
}

// normalizeRequestPath collapses dot segments and guarantees a leading "/".
// net/http has already percent-decoded r.URL.Path.
func normalizeRequestPath(p string) string {
	cleaned := path.Clean(p)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	return cleaned
}

func joinBasePath(basePath, route string) string {
	base := strings.TrimRight(basePath, "/")
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return base + route
}

// relativeToBase rewrites a request path into the route space under the UI
// base path. The base path itself maps to "/".
func relativeToBase(requestPath, basePath string) string {
	if basePath == "/" {
		return requestPath
	}
	if requestPath == basePath {
		return "/"
	}
	return "/" + strings.TrimLeft(requestPath[len(basePath)+1:], "/")
}

// guessContentType sniffs by file extension only; bodies are never read for
// type detection.
func guessContentType(name string) string {
	if t := typeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
