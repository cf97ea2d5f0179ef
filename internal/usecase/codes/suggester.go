// Package codes maps free-text conditions to candidate ICD-10 codes through
// a static keyword table.
package codes

import (
	"sort"
	"strings"

	"github.com/oradigit/orderhelper/internal/text"
)

// Code is one suggested diagnosis code.
type Code struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// CodeRule fires when every one of its tokens is a substring of the
// lowercased input text.
type CodeRule struct {
	MatchAllTokens []string
	Code           string
	Label          string
}

// DefaultTable covers the common indications the order helper sees. Order
// matters only for result ranking; all matching rules contribute.
var DefaultTable = []CodeRule{
	{[]string{"appendicitis"}, "K35.80", "Unspecified acute appendicitis"},
	{[]string{"diverticulitis"}, "K57.92", "Diverticulitis of intestine, unspecified"},
	{[]string{"pulmonary embolism"}, "I26.99", "Other pulmonary embolism without acute cor pulmonale"},
	{[]string{"renal colic"}, "N23", "Unspecified renal colic"},
	{[]string{"kidney stone"}, "N20.0", "Calculus of kidney"},
	{[]string{"nephrolithiasis"}, "N20.0", "Calculus of kidney"},
	{[]string{"abdominal pain"}, "R10.9", "Unspecified abdominal pain"},
	{[]string{"right lower quadrant"}, "R10.31", "Right lower quadrant pain"},
	{[]string{"flank pain"}, "N23", "Unspecified renal colic"},
	{[]string{"chest pain"}, "R07.9", "Chest pain, unspecified"},
	{[]string{"shortness of breath"}, "R06.02", "Shortness of breath"},
	{[]string{"headache"}, "R51.9", "Headache, unspecified"},
	{[]string{"stroke"}, "I63.9", "Cerebral infarction, unspecified"},
	{[]string{"head", "trauma"}, "S09.90XA", "Unspecified injury of head, initial encounter"},
	{[]string{"seizure"}, "R56.9", "Unspecified convulsions"},
	{[]string{"lung cancer"}, "C34.90", "Malignant neoplasm of unspecified part of bronchus or lung"},
	{[]string{"breast cancer"}, "C50.919", "Malignant neoplasm of unspecified site of unspecified female breast"},
	{[]string{"colorectal"}, "C18.9", "Malignant neoplasm of colon, unspecified"},
	{[]string{"lymphoma"}, "C85.90", "Non-Hodgkin lymphoma, unspecified"},
	{[]string{"melanoma"}, "C43.9", "Malignant melanoma of skin, unspecified"},
	{[]string{"fever", "unknown"}, "R50.9", "Fever, unspecified"},
	{[]string{"osteomyelitis"}, "M86.9", "Osteomyelitis, unspecified"},
	{[]string{"deep vein thrombosis"}, "I82.409", "Acute embolism and thrombosis of unspecified deep veins of unspecified lower extremity"},
}

// Suggest scans the table against the alias-expanded input and accumulates
// every matching rule's code, deduplicated by code in insertion order, up to
// max results. It always returns a slice, possibly empty.
func Suggest(conditionText string, table []CodeRule, max int) []Code {
	out := []Code{}
	if max <= 0 {
		return out
	}

	haystack := expandedHaystack(conditionText)
	seen := make(map[string]struct{}, max)
	for _, r := range table {
		if !matchesAll(haystack, r.MatchAllTokens) {
			continue
		}
		if _, dup := seen[r.Code]; dup {
			continue
		}
		seen[r.Code] = struct{}{}
		out = append(out, Code{Code: r.Code, Label: r.Label})
		if len(out) == max {
			break
		}
	}
	return out
}

// expandedHaystack joins the normalized text with its sorted alias-expanded
// terms, so abbreviations match their spelled-out rules deterministically.
func expandedHaystack(conditionText string) string {
	members := make([]string, 0, 8)
	for m := range text.Expand([]string{conditionText}) {
		members = append(members, m)
	}
	sort.Strings(members)
	return text.Normalize(conditionText) + " " + strings.Join(members, " ")
}

func matchesAll(haystack string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}
