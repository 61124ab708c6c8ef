package manifest

import (
	"fmt"
	"strings"
)

// NormalizeBasePath forces a leading "/" and collapses trailing slashes.
// The root path "/" passes through unchanged.
func NormalizeBasePath(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("Manifest field 'ui.basePath' must be a non-empty string")
	}
	if trimmed == "/" {
		return "/", nil
	}
	return "/" + strings.Trim(trimmed, "/"), nil
}

// NormalizeRoute forces a leading "/" and strips a single trailing "/"
// unless the route is exactly "/" or a "/*" wildcard pattern.
func NormalizeRoute(route string) string {
	trimmed := strings.TrimSpace(route)
	if trimmed == "/" {
		return "/"
	}
	cleaned := "/" + strings.TrimLeft(trimmed, "/")
	if cleaned != "/" && strings.HasSuffix(cleaned, "/") && !strings.HasSuffix(cleaned, "/*") {
		cleaned = cleaned[:len(cleaned)-1]
	}
	return cleaned
}

// RouteMatches reports whether a normalized route matches a normalized
// pattern: exact string equality, or a prefix match for patterns ending in
// "/*" (the "*" is stripped, so "/wifi/*" matches anything under "/wifi/").
func RouteMatches(pattern, route string) bool {
	if pattern == route {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		return strings.HasPrefix(route, pattern[:len(pattern)-1])
	}
	return false
}
