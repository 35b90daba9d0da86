package jsonutil

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ID normalizes a decoded JSON value into an identifier string.
// Non-blank strings are trimmed and finite numbers are formatted without exponent.
// Anything else yields "".
func ID(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return ""
		}
		return formatNumber(val)
	case json.Number:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}

// Text returns the trimmed string value of v, or "" when v is not a non-blank string.
func Text(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Object returns v as a JSON object.
func Object(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}

// Truthy mirrors loose JSON truthiness: null, false, 0, NaN and "" are falsy.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}

// FirstID returns the first non-empty identifier found under keys.
func FirstID(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if id := ID(obj[key]); id != "" {
			return id
		}
	}
	return ""
}

// FirstText returns the first non-blank string found under keys.
func FirstText(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := Text(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
