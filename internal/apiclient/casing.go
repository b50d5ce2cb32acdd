package apiclient

import (
	"unicode"
	"unicode/utf8"
)

// KeysToCamel lower-cases the first rune of every object key, recursively
// through objects and arrays. Scalars are returned unchanged. When an object
// holds both "Id" and "id", the already camel-cased key wins.
func KeysToCamel(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for key, value := range t {
			camel := camelKey(key)
			if _, taken := out[camel]; taken && camel != key {
				continue
			}
			out[camel] = KeysToCamel(value)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, value := range t {
			out[i] = KeysToCamel(value)
		}
		return out
	default:
		return v
	}
}

func camelKey(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}

	lower := unicode.ToLower(r)
	if lower == r {
		return key
	}
	return string(lower) + key[size:]
}
