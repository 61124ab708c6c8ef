package manifest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field accessors over the raw decoded JSON document. Each produces an error
// naming the full field path; that granularity is part of the loader's
// contract.

func objField(raw map[string]any, field string, required bool) (map[string]any, error) {
	value, ok := raw[field]
	if !ok || value == nil {
		if required {
			return nil, fmt.Errorf("Manifest field '%s' is required", field)
		}
		return nil, nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("Manifest field '%s' must be an object", field)
	}
	return obj, nil
}

func requiredString(raw map[string]any, field, key string) (string, error) {
	value, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("Manifest field '%s' must be a non-empty string", field)
	}
	return stringValue(value, field)
}

func optionalString(raw map[string]any, field, key, def string) (string, error) {
	value, ok := raw[key]
	if !ok {
		return def, nil
	}
	return stringValue(value, field)
}

func stringValue(value any, field string) (string, error) {
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("Manifest field '%s' must be a non-empty string", field)
	}
	return strings.TrimSpace(s), nil
}

func boolValue(value any, field string) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("Manifest field '%s' must be a boolean", field)
	}
	return b, nil
}

func intValue(value any, field string, minimum int) (int, error) {
	num, ok := value.(json.Number)
	if !ok {
		return 0, fmt.Errorf("Manifest field '%s' must be an integer", field)
	}
	n, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("Manifest field '%s' must be an integer", field)
	}
	if n < int64(minimum) {
		return 0, fmt.Errorf("Manifest field '%s' must be >= %d", field, minimum)
	}
	return int(n), nil
}

func listValue(value any, field string) ([]any, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("Manifest field '%s' must be an array", field)
	}
	return list, nil
}

func parsePathList(value any, field string) ([]string, error) {
	items, err := listValue(value, field)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("Manifest field '%s[%d]' must be a non-empty string", field, i)
		}
		result = append(result, s)
	}
	return result, nil
}

func parseRouteList(value any) ([]string, error) {
	items, err := listValue(value, "ui.routes")
	if err != nil {
		return nil, err
	}
	routes := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("Manifest field 'ui.routes[%d]' must be a non-empty string", i)
		}
		routes = append(routes, NormalizeRoute(s))
	}
	return routes, nil
}

// headerValue stringifies a declared header value. Strings pass through;
// numbers and booleans are rendered the way JSON wrote them.
func headerValue(value any, field string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("Manifest field '%s' values must be strings", field)
	}
}
