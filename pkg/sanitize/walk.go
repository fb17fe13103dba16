// Package sanitize contains pure tree walkers over decoded JSON-like values
// (map[string]any, []any and scalars). Every function returns a rebuilt value
// and never mutates its input, so request trees can be shared safely.
package sanitize

import (
	"sort"
	"strconv"
)

// StringFunc transforms a string leaf found at path.
type StringFunc func(path, s string) string

// KeyFilter reports whether an object key must be dropped.
type KeyFilter func(key string) bool

// MapStrings rebuilds v, replacing every string leaf with fn(path, leaf).
func MapStrings(v any, fn StringFunc) any {
	return mapStrings("", v, fn)
}

func mapStrings(path string, v any, fn StringFunc) any {
	switch t := v.(type) {
	case string:
		return fn(path, t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = mapStrings(join(path, k), child, fn)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = mapStrings(join(path, strconv.Itoa(i)), child, fn)
		}
		return out
	default:
		return v
	}
}

// DropKeys rebuilds v without any object key for which drop returns true, at any depth.
func DropKeys(v any, drop KeyFilter) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			if drop(k) {
				continue
			}
			out[k] = DropKeys(child, drop)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = DropKeys(child, drop)
		}
		return out
	default:
		return v
	}
}

// FindString walks v depth-first with object keys in sorted order and returns the
// dotted path of the first string leaf for which match is true.
func FindString(v any, match func(string) bool) (string, bool) {
	return findString("", v, match)
}

func findString(path string, v any, match func(string) bool) (string, bool) {
	switch t := v.(type) {
	case string:
		if match(t) {
			return path, true
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if p, ok := findString(join(path, k), t[k], match); ok {
				return p, true
			}
		}
	case []any:
		for i, child := range t {
			if p, ok := findString(join(path, strconv.Itoa(i)), child, match); ok {
				return p, true
			}
		}
	}
	return "", false
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
