package model

import "strings"

// CanonicalHandle returns the handle in canonical form with a leading "@".
func CanonicalHandle(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if !strings.HasPrefix(s, "@") {
		return "@" + s
	}
	return s
}

// BareHandle strips the leading "@" for display in input fields and API paths.
func BareHandle(s string) string { return strings.TrimPrefix(strings.TrimSpace(s), "@") }
