package comix

import "strconv"

// The upstream returns inconsistently shaped JSON: the same concept can
// arrive under several field names, and values flip between strings,
// numbers, objects, and arrays across endpoints. Records are therefore
// decoded generically and probed through a fixed, ordered list of typed
// accessors per field instead of static DTO structs.

// Record is one decoded upstream JSON object
type Record map[string]any

// AsRecord converts a decoded JSON value to a Record
func AsRecord(v any) (Record, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return Record(m), true
}

// Str returns the first key that holds a non-empty string
func (r Record) Str(keys ...string) string {
	for _, k := range keys {
		if s, ok := r[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Num returns the first key that holds a number
func (r Record) Num(keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := r[k].(float64); ok {
			return f, true
		}
	}
	return 0, false
}

// Int returns the first key that holds a number, truncated
func (r Record) Int(keys ...string) (int, bool) {
	f, ok := r.Num(keys...)
	return int(f), ok
}

// Obj returns the first key that holds a nested object
func (r Record) Obj(keys ...string) (Record, bool) {
	for _, k := range keys {
		if m, ok := r[k].(map[string]any); ok {
			return Record(m), true
		}
	}
	return nil, false
}

// Arr returns the first key that holds an array
func (r Record) Arr(keys ...string) ([]any, bool) {
	for _, k := range keys {
		if a, ok := r[k].([]any); ok {
			return a, true
		}
	}
	return nil, false
}

// ID returns the first key that resolves to an identifier, accepting both
// string and numeric forms. Numeric ids render without an exponent or
// trailing zeros.
func (r Record) ID(keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// scalarID renders a bare JSON value as an identifier string
func scalarID(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
