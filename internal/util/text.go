package util

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeWhitespace trims and collapses whitespace to single spaces.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// IsBlank reports whether s is empty or whitespace-only.
func IsBlank(s string) bool { return strings.TrimSpace(s) == "" }

// ContainsFold reports whether text contains needle, case-insensitively.
func ContainsFold(text, needle string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(needle))
}
