package docstore

import (
	"strconv"
	"time"
)

// Loose-schema accessors. Stored documents were written by several client
// versions, so the same logical field shows up under alternate keys ("name" vs
// "title", "image" vs "imageUrl"). Each accessor takes the known keys in
// preference order and fails soft to a zero value.

// Str returns the first non-empty string found under keys. Numeric values are
// rendered as their decimal form since older writers stored prices as numbers.
func Str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		case int32:
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}

// Num returns the first numeric value found under keys, accepting numeric
// strings as well. Missing or unparsable values yield 0.
func Num(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case int32:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// Int is Num truncated to an integer.
func Int(m map[string]any, keys ...string) int {
	return int(Num(m, keys...))
}

// Bool returns the first boolean found under keys, defaulting to false.
func Bool(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if v, ok := m[k].(bool); ok {
			return v
		}
	}
	return false
}

// Map returns the first nested map found under keys.
func Map(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if v, ok := m[k].(map[string]any); ok {
			return v
		}
	}
	return nil
}

// Slice returns the first array value found under keys.
func Slice(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if v, ok := m[k].([]any); ok {
			return v
		}
	}
	return nil
}

// StrMap flattens a nested map to string values (used for size-assignment maps,
// which are stored as {productId: "M", ...}).
func StrMap(m map[string]any, keys ...string) map[string]string {
	nested := Map(m, keys...)
	if nested == nil {
		return nil
	}
	out := make(map[string]string, len(nested))
	for k := range nested {
		if s := Str(nested, k); s != "" {
			out[k] = s
		}
	}
	return out
}

// Time reads a timestamp stored either as time.Time (native driver type), an
// RFC3339 string, or epoch milliseconds. Unreadable values yield the zero time.
func Time(m map[string]any, keys ...string) time.Time {
	for _, k := range keys {
		switch v := m[k].(type) {
		case time.Time:
			return v
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t
			}
		case float64:
			if v > 0 {
				return time.UnixMilli(int64(v)).UTC()
			}
		case int64:
			if v > 0 {
				return time.UnixMilli(v).UTC()
			}
		}
	}
	return time.Time{}
}
