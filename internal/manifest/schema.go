package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Wire-format document types. These mirror the on-disk JSON shape (not the
// normalized Manifest) and exist for schema emission and template writing.

type document struct {
	Version    string              `json:"version" jsonschema:"required,enum=1,description=Manifest schema version; must be the string \"1\""`
	UI         uiDocument          `json:"ui" jsonschema:"required"`
	API        *apiDocument        `json:"api,omitempty"`
	Validation *validationDocument `json:"validation,omitempty"`
}

type uiDocument struct {
	BasePath    string               `json:"basePath,omitempty" jsonschema:"description=URL prefix the UI is mounted under,default=/"`
	AssetRoot   string               `json:"assetRoot" jsonschema:"required,description=Directory with built frontend assets; relative to the project directory"`
	EntryFile   string               `json:"entryFile,omitempty" jsonschema:"default=index.html"`
	Routes      []string             `json:"routes,omitempty" jsonschema:"description=Declared route patterns; exact paths or '/*' prefixes"`
	SPAFallback bool                 `json:"spaFallback,omitempty" jsonschema:"default=true"`
	CachePolicy *cachePolicyDocument `json:"cachePolicy,omitempty"`
}

type cachePolicyDocument struct {
	MaxAgeSeconds int  `json:"maxAgeSeconds,omitempty" jsonschema:"minimum=0"`
	ETag          bool `json:"etag,omitempty" jsonschema:"default=true"`
	Gzip          bool `json:"gzip,omitempty"`
}

type apiDocument struct {
	Mode        string            `json:"mode,omitempty" jsonschema:"enum=mock,enum=proxy,default=mock"`
	FixturesDir string            `json:"fixturesDir,omitempty" jsonschema:"default=ui-fixtures"`
	Map         []mappingDocument `json:"map,omitempty"`
}

type mappingDocument struct {
	Method  string            `json:"method" jsonschema:"required,description=HTTP verb"`
	Path    string            `json:"path" jsonschema:"required,description=Exact request path; no wildcards"`
	Fixture string            `json:"fixture" jsonschema:"required,description=Response body file relative to fixturesDir"`
	Status  int               `json:"status,omitempty" jsonschema:"minimum=100,default=200"`
	Headers map[string]string `json:"headers,omitempty"`
}

type validationDocument struct {
	RequiredFiles       []string `json:"requiredFiles,omitempty"`
	DisallowExtraRoutes bool     `json:"disallowExtraRoutes,omitempty"`
}

// Schema returns the JSON Schema document describing the manifest format.
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	schema := r.Reflect(&document{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest schema: %w", err)
	}
	return data, nil
}

// Template returns a starter manifest document suitable for init-manifest.
func Template() []byte {
	doc := document{
		Version: "1",
		UI: uiDocument{
			BasePath:    "/",
			AssetRoot:   "web/dist",
			EntryFile:   "index.html",
			Routes:      []string{"/"},
			SPAFallback: true,
			CachePolicy: &cachePolicyDocument{MaxAgeSeconds: 0, ETag: true, Gzip: false},
		},
		API: &apiDocument{
			Mode:        ModeMock,
			FixturesDir: "ui-fixtures",
			Map: []mappingDocument{{
				Method:  "GET",
				Path:    "/api/health",
				Fixture: "health.json",
				Status:  200,
				Headers: map[string]string{"Content-Type": "application/json"},
			}},
		},
		Validation: &validationDocument{
			RequiredFiles:       []string{"index.html"},
			DisallowExtraRoutes: false,
		},
	}
	data, _ := json.MarshalIndent(doc, "", "  ")
	return append(data, '\n')
}
