// Package text provides the normalization, similarity, and synonym-expansion
// primitives shared by the schema normalizer and the rule matcher.
package text

import "strings"

// Normalize lowercases s, replaces every non-alphanumeric rune with a space,
// and collapses runs of whitespace into single spaces.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true // suppress leading space
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			space = false
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Tokens splits the normalized form of s on spaces. Empty input yields nil.
func Tokens(s string) []string {
	n := Normalize(s)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}

// Fold strips all separators from s and uppercases it, so that label
// variants like "PET/CT", "PET CT", and "pet-ct" compare equal.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
