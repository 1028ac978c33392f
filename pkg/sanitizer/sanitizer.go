// Package sanitizer normalizes free-text booking fields before validation
// and storage. All functions are idempotent and never error; invalid input
// collapses to the empty string.
package sanitizer

import (
	"regexp"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	referenceRegex  = regexp.MustCompile(`[^A-Z0-9/-]`)
)

// NormalizeText collapses internal whitespace and trims the ends.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// NormalizeReference uppercases an external booking code and strips
// everything outside A-Z, 0-9, '/' and '-'.
func NormalizeReference(s string) string {
	return referenceRegex.ReplaceAllString(strings.ToUpper(NormalizeText(s)), "")
}
