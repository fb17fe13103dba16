package sanitize

import "strings"

// OperatorKey reports whether key looks like a query-operator injection:
// it starts with '$' or contains a path separator.
func OperatorKey(key string) bool {
	return strings.HasPrefix(key, "$") || strings.ContainsAny(key, "./\\")
}

// StripOperatorKeys removes operator-looking keys from v at any depth.
func StripOperatorKeys(v any) any {
	return DropKeys(v, OperatorKey)
}
