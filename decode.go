package stripe

import (
	"fmt"
	"time"
)

// Decoding is best-effort and forward-compatible: unknown keys are
// ignored, absent optional fields stay at their zero value, and only a
// missing identity or an unparseable nested object fails the decode.
// The helpers below read one field from a parsed attribute map; the
// ok result distinguishes "absent or wrong type" from a real value.

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

func boolField(m map[string]any, key string) (bool, bool) {
	v, ok := m[key].(bool)
	return v, ok
}

// intField reads an integer field. JSON numbers parse as float64;
// some transports preserve int64, so both are accepted.
func intField(m map[string]any, key string) (int64, bool) {
	switch v := m[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

func floatField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func mapField(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key].(map[string]any)
	return v, ok
}

func sliceField(m map[string]any, key string) ([]any, bool) {
	v, ok := m[key].([]any)
	return v, ok
}

// timeField reads a Unix-seconds timestamp.
func timeField(m map[string]any, key string) (time.Time, bool) {
	secs, ok := intField(m, key)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(secs, 0).UTC(), true
}

// stringMapField reads a string-to-string mapping such as metadata.
// Non-string values are omitted rather than failing the decode.
func stringMapField(m map[string]any, key string) (map[string]string, bool) {
	raw, ok := mapField(m, key)
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out, true
}

// stringSliceField reads an ordered sequence of strings, preserving
// order and omitting non-string elements.
func stringSliceField(m map[string]any, key string) ([]string, bool) {
	raw, ok := sliceField(m, key)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// listData unwraps the API's list envelope:
//
//	{"object": "list", "data": [...], "has_more": bool}
//
// Returns the ordered element maps and the has_more flag. A list field
// that is present but not an envelope is a decode failure.
func listData(m map[string]any) ([]map[string]any, bool, error) {
	raw, ok := sliceField(m, "data")
	if !ok {
		return nil, false, fmt.Errorf("list envelope has no data array")
	}
	elems := make([]map[string]any, 0, len(raw))
	for i, v := range raw {
		elem, ok := v.(map[string]any)
		if !ok {
			return nil, false, fmt.Errorf("list element %d is not an object", i)
		}
		elems = append(elems, elem)
	}
	hasMore, _ := boolField(m, "has_more")
	return elems, hasMore, nil
}

// requireID reads the identity field shared by all persisted entities.
// Entities without any distinguishing id are never returned partially.
func requireID(m map[string]any, entity string) (string, error) {
	id, ok := stringField(m, "id")
	if !ok || id == "" {
		return "", fmt.Errorf("%s has no id", entity)
	}
	return id, nil
}
