package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOptions adjusts manifest loading. The zero value is the default
// behavior: no fixtures override, absolute manifest paths rejected.
type LoadOptions struct {
	// FixturesDir overrides the manifest's own fixturesDir when non-empty,
	// resolved relative to the project directory unless absolute. Used by
	// callers that discover fixtures next to an auto-generated manifest.
	FixturesDir string
	// AllowAbsolutePaths permits assetRoot/fixturesDir values in the
	// manifest that are already absolute. Off by default so a manifest
	// cannot silently hardcode one developer's local filesystem layout.
	AllowAbsolutePaths bool
}

// Load reads, validates, and normalizes the manifest at manifestPath.
// Relative paths inside the manifest resolve against projectDir. Every
// schema violation fails with an error naming the offending field.
func Load(manifestPath, projectDir string, opts *LoadOptions) (*Manifest, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("Manifest file not found: %s", manifestPath)
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", manifestPath, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rawAny any
	if err := dec.Decode(&rawAny); err != nil {
		return nil, fmt.Errorf("Manifest is not valid JSON: %s: %w", manifestPath, err)
	}
	raw, ok := rawAny.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("Manifest root must be a JSON object")
	}

	if version, ok := raw["version"].(string); !ok || version != "1" {
		return nil, fmt.Errorf("Manifest 'version' must be the string '1'")
	}

	projectDir, err = filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	uiRaw, err := objField(raw, "ui", true)
	if err != nil {
		return nil, err
	}
	apiRaw, err := objField(raw, "api", false)
	if err != nil {
		return nil, err
	}
	validationRaw, err := objField(raw, "validation", false)
	if err != nil {
		return nil, err
	}

	ui, err := parseUI(uiRaw, projectDir, opts.AllowAbsolutePaths)
	if err != nil {
		return nil, err
	}
	api, err := parseAPI(apiRaw, projectDir, opts)
	if err != nil {
		return nil, err
	}
	validation, err := parseValidation(validationRaw, ui.EntryFile)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		SourcePath: manifestPath,
		Version:    "1",
		UI:         ui,
		API:        api,
		Validation: validation,
	}
	if err := validatePaths(m); err != nil {
		return nil, err
	}
	return m, nil
}

func parseUI(uiRaw map[string]any, projectDir string, allowAbs bool) (UISettings, error) {
	var ui UISettings
	basePathRaw, err := optionalString(uiRaw, "ui.basePath", "basePath", "/")
	if err != nil {
		return ui, err
	}
	if ui.BasePath, err = NormalizeBasePath(basePathRaw); err != nil {
		return ui, err
	}

	assetRootRaw, err := requiredString(uiRaw, "ui.assetRoot", "assetRoot")
	if err != nil {
		return ui, err
	}
	if ui.AssetRoot, err = resolveProjectPath(projectDir, assetRootRaw, "ui.assetRoot", allowAbs); err != nil {
		return ui, err
	}

	if ui.EntryFile, err = optionalString(uiRaw, "ui.entryFile", "entryFile", "index.html"); err != nil {
		return ui, err
	}

	routesRaw, ok := uiRaw["routes"]
	if !ok {
		routesRaw = []any{"/"}
	}
	if ui.Routes, err = parseRouteList(routesRaw); err != nil {
		return ui, err
	}

	spaRaw, ok := uiRaw["spaFallback"]
	if !ok {
		spaRaw = true
	}
	if ui.SPAFallback, err = boolValue(spaRaw, "ui.spaFallback"); err != nil {
		return ui, err
	}

	if ui.CachePolicy, err = parseCachePolicy(uiRaw["cachePolicy"]); err != nil {
		return ui, err
	}
	return ui, nil
}

func parseCachePolicy(raw any) (CachePolicy, error) {
	policy := CachePolicy{MaxAgeSeconds: 0, ETag: true, Gzip: false}
	if raw == nil {
		return policy, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return policy, fmt.Errorf("Manifest field 'ui.cachePolicy' must be an object")
	}
	var err error
	if v, ok := obj["maxAgeSeconds"]; ok {
		if policy.MaxAgeSeconds, err = intValue(v, "ui.cachePolicy.maxAgeSeconds", 0); err != nil {
			return policy, err
		}
	}
	if v, ok := obj["etag"]; ok {
		if policy.ETag, err = boolValue(v, "ui.cachePolicy.etag"); err != nil {
			return policy, err
		}
	}
	if v, ok := obj["gzip"]; ok {
		if policy.Gzip, err = boolValue(v, "ui.cachePolicy.gzip"); err != nil {
			return policy, err
		}
	}
	return policy, nil
}

func parseAPI(apiRaw map[string]any, projectDir string, opts *LoadOptions) (APISettings, error) {
	api := APISettings{Mode: ModeMock}
	var err error
	api.FixturesDir, err = resolvePath(filepath.Join(projectDir, "ui-fixtures"))
	if err != nil {
		return api, err
	}

	var mappingsRaw []any
	if apiRaw != nil {
		mode, err := optionalString(apiRaw, "api.mode", "mode", ModeMock)
		if err != nil {
			return api, err
		}
		api.Mode = strings.ToLower(mode)
		if api.Mode != ModeMock && api.Mode != ModeProxy {
			return api, fmt.Errorf("Manifest field 'api.mode' must be either 'mock' or 'proxy'")
		}
		fixturesRaw, err := optionalString(apiRaw, "api.fixturesDir", "fixturesDir", "ui-fixtures")
		if err != nil {
			return api, err
		}
		if api.FixturesDir, err = resolveProjectPath(projectDir, fixturesRaw, "api.fixturesDir", opts.AllowAbsolutePaths); err != nil {
			return api, err
		}
		if v, ok := apiRaw["map"]; ok {
			if mappingsRaw, err = listValue(v, "api.map"); err != nil {
				return api, err
			}
		}
	}

	// A caller-supplied fixtures directory wins over the manifest's own.
	if opts.FixturesDir != "" {
		dir := opts.FixturesDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(projectDir, dir)
		}
		if api.FixturesDir, err = resolvePath(dir); err != nil {
			return api, err
		}
	}

	for i, entry := range mappingsRaw {
		mappingRaw, ok := entry.(map[string]any)
		if !ok {
			return api, fmt.Errorf("Manifest field 'api.map[%d]' must be an object", i)
		}
		mapping, err := parseMapping(mappingRaw, i)
		if err != nil {
			return api, err
		}
		api.Mappings = append(api.Mappings, mapping)
	}
	return api, nil
}

func parseMapping(raw map[string]any, index int) (APIMapping, error) {
	var m APIMapping
	field := func(name string) string { return fmt.Sprintf("api.map[%d].%s", index, name) }

	method, err := requiredString(raw, field("method"), "method")
	if err != nil {
		return m, err
	}
	m.Method = strings.ToUpper(method)

	pathRaw, err := requiredString(raw, field("path"), "path")
	if err != nil {
		return m, err
	}
	m.Path = NormalizeRoute(pathRaw)

	if m.Fixture, err = requiredString(raw, field("fixture"), "fixture"); err != nil {
		return m, err
	}

	m.Status = 200
	if v, ok := raw["status"]; ok {
		if m.Status, err = intValue(v, field("status"), 100); err != nil {
			return m, err
		}
	}

	m.Headers = map[string]string{}
	if v, ok := raw["headers"]; ok {
		obj, ok := v.(map[string]any)
		if !ok {
			return m, fmt.Errorf("Manifest field '%s' must be an object", field("headers"))
		}
		for name, value := range obj {
			s, err := headerValue(value, field("headers"))
			if err != nil {
				return m, err
			}
			m.Headers[name] = s
		}
	}
	return m, nil
}

func parseValidation(raw map[string]any, entryFile string) (ValidationSettings, error) {
	v := ValidationSettings{RequiredFiles: []string{entryFile}}
	if raw == nil {
		return v, nil
	}
	var err error
	if list, ok := raw["requiredFiles"]; ok {
		if v.RequiredFiles, err = parsePathList(list, "validation.requiredFiles"); err != nil {
			return v, err
		}
	}
	if b, ok := raw["disallowExtraRoutes"]; ok {
		if v.DisallowExtraRoutes, err = boolValue(b, "validation.disallowExtraRoutes"); err != nil {
			return v, err
		}
	}
	return v, nil
}

// validatePaths checks the paths a running server depends on. The fixtures
// directory and individual fixtures are deliberately not checked here; those
// are parity warnings, not load failures.
func validatePaths(m *Manifest) error {
	info, err := os.Stat(m.UI.AssetRoot)
	if err != nil || !info.IsDir() {
		return fmt.Errorf(
			"Asset root does not exist or is not a directory: %s. Run your frontend build or update ui.assetRoot in the manifest",
			m.UI.AssetRoot)
	}
	return nil
}

func resolveProjectPath(projectDir, value, field string, allowAbs bool) (string, error) {
	if filepath.IsAbs(value) {
		if !allowAbs {
			return "", fmt.Errorf(
				"Manifest field '%s' is an absolute path (%s); pass --allow-absolute-paths to allow it",
				field, value)
		}
		return resolvePath(value)
	}
	return resolvePath(filepath.Join(projectDir, value))
}

// resolvePath returns an absolute, symlink-resolved path. Paths that do not
// exist yet keep their absolute form.
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", p, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
