package util

import (
	"regexp"
	"strings"
)

var (
	rePunct  = regexp.MustCompile(`[^A-Z0-9\s]`)
	reSpaces = regexp.MustCompile(`\s+`)
)

// NormalizeCategory collapses a categorical code for exact comparison:
// uppercase with all whitespace removed, so "DN 6", "dn6" and "DN6" are
// the same code.
func NormalizeCategory(input string) string {
	s := strings.ToUpper(strings.TrimSpace(input))
	return reSpaces.ReplaceAllString(s, "")
}

// NormalizeStandard prepares a standard/norm string for token comparison:
// uppercase, punctuation stripped, spaces collapsed.
func NormalizeStandard(input string) string {
	s := strings.ToUpper(input)
	s = rePunct.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func Tokenize(input string) []string {
	norm := NormalizeStandard(input)
	if norm == "" {
		return nil
	}
	parts := strings.Split(norm, " ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
