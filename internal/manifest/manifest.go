// Package manifest loads and validates the flashless preview manifest: the
// declarative JSON document describing where a frontend's built assets live,
// which routes it serves, and how its API calls are mocked.
//
// A Manifest is loaded once per preview-server lifetime and is immutable
// afterwards. All filesystem paths it carries are absolute and
// symlink-resolved by the time Load returns.
package manifest

// API modes. Only mock is served; proxy is accepted by the schema so the
// manifest stays forward compatible, but callers must reject it.
const (
	ModeMock  = "mock"
	ModeProxy = "proxy"
)

// Manifest is the fully parsed and normalized preview configuration.
type Manifest struct {
	// SourcePath is the manifest file the settings were loaded from.
	SourcePath string
	// Version is the schema version, always the literal "1".
	Version    string
	UI         UISettings
	API        APISettings
	Validation ValidationSettings
}

// UISettings describes the static frontend to preview.
type UISettings struct {
	// BasePath is the URL prefix the UI is mounted under. Always starts
	// with "/" and never ends with one unless it is exactly "/".
	BasePath string
	// AssetRoot is the absolute directory holding the built assets.
	AssetRoot string
	// EntryFile is the SPA entry point, relative to AssetRoot.
	EntryFile string
	// Routes are the declared route patterns, normalized at load time so
	// runtime matching is a pure string comparison. A pattern either names
	// an exact path or ends in "/*" for a prefix match.
	Routes      []string
	SPAFallback bool
	CachePolicy CachePolicy
}

// CachePolicy controls the caching headers on static asset responses.
type CachePolicy struct {
	MaxAgeSeconds int
	ETag          bool
	// Gzip is parsed for schema completeness; the preview server does not
	// compress responses.
	Gzip bool
}

// APISettings describes how API requests are answered.
type APISettings struct {
	Mode string
	// FixturesDir is the absolute directory fixture files are read from.
	FixturesDir string
	Mappings    []APIMapping
}

// APIMapping binds one (method, path) pair to a fixture file.
type APIMapping struct {
	// Method is the uppercased HTTP verb.
	Method string
	// Path is the normalized request path. Exact match only, no wildcards.
	Path string
	// Fixture is the response body file, relative to FixturesDir.
	Fixture string
	Status  int
	// Headers are emitted verbatim on the fixture response, with the
	// declared name casing preserved.
	Headers map[string]string
}

// ValidationSettings declares what the parity validator must find on disk.
type ValidationSettings struct {
	// RequiredFiles are paths relative to AssetRoot that must exist.
	RequiredFiles []string
	// DisallowExtraRoutes restricts SPA fallback to declared routes.
	DisallowExtraRoutes bool
}
