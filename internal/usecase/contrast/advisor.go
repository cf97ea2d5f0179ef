// Package contrast suggests an IV contrast protocol for CT studies from the
// stated condition and region text.
package contrast

import (
	"sort"
	"strings"

	"github.com/oradigit/orderhelper/internal/text"
)

// Suggestion is the advisor's verdict.
type Suggestion string

const (
	// None means no opinion; the caller leaves contrast unset and renders
	// the template without a contrast qualifier.
	None Suggestion = ""
	// WithIV recommends IV contrast.
	WithIV Suggestion = "with_iv"
	// WithoutIV recommends a non-contrast protocol.
	WithoutIV Suggestion = "without_iv"
)

// advisorRule fires when every token is a substring of the combined
// lowercased condition+region text.
type advisorRule struct {
	tokens  []string
	verdict Suggestion
}

// advisorRules is scanned in order, first hit wins. Stone protocols and
// intracranial emergencies scan without contrast; inflammatory, infectious,
// and vascular indications scan with it. More specific phrases come first.
var advisorRules = []advisorRule{
	{[]string{"renal colic"}, WithoutIV},
	{[]string{"kidney stone"}, WithoutIV},
	{[]string{"nephrolithiasis"}, WithoutIV},
	{[]string{"urolithiasis"}, WithoutIV},
	{[]string{"flank pain"}, WithoutIV},
	{[]string{"stone"}, WithoutIV},
	{[]string{"hematoma"}, WithoutIV},
	{[]string{"head", "trauma"}, WithoutIV},
	{[]string{"intracranial"}, WithoutIV},
	{[]string{"bleed"}, WithoutIV},
	{[]string{"hemorrhage"}, WithoutIV},
	{[]string{"stroke"}, WithoutIV},
	{[]string{"pulmonary embolism"}, WithIV},
	{[]string{"dissection"}, WithIV},
	{[]string{"aneurysm"}, WithIV},
	{[]string{"appendicitis"}, WithIV},
	{[]string{"diverticulitis"}, WithIV},
	{[]string{"abscess"}, WithIV},
	{[]string{"pancreatitis"}, WithIV},
	{[]string{"right lower quadrant"}, WithIV},
	{[]string{"rlq"}, WithIV},
	{[]string{"abdominal pain"}, WithIV},
	{[]string{"abdomen", "pain"}, WithIV},
	{[]string{"mass"}, WithIV},
	{[]string{"cancer"}, WithIV},
	{[]string{"staging"}, WithIV},
}

// Suggest scans the rule table against the lowercased concatenation of
// condition and region text. Alias expansion of the condition runs first so
// abbreviations like "PE" hit their spelled-out rules. A guardrail forces
// WithIV for angiographic regions and applies after the table scan, so it
// overrides a table miss.
func Suggest(conditionText, regionText string) Suggestion {
	expanded := make([]string, 0, 8)
	for member := range text.Expand([]string{conditionText}) {
		expanded = append(expanded, member)
	}
	sort.Strings(expanded)
	haystack := text.Normalize(conditionText+" "+regionText) + " " + strings.Join(expanded, " ")

	verdict := None
	for _, r := range advisorRules {
		if matchesAll(haystack, r.tokens) {
			verdict = r.verdict
			break
		}
	}

	if strings.Contains(strings.ToLower(regionText), "cta") {
		return WithIV
	}
	return verdict
}

// ForStudy restricts the advisor to CT studies.
func ForStudy(modality, conditionText, regionText string) Suggestion {
	if text.Fold(modality) != "CT" {
		return None
	}
	return Suggest(conditionText, regionText)
}

func matchesAll(haystack string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}

// QualifierText renders the parenthetical appended to study headers and
// substituted for the {contrast_text} placeholder.
func QualifierText(s Suggestion) string {
	switch s {
	case WithIV:
		return "(with IV contrast)"
	case WithoutIV:
		return "(without IV contrast)"
	default:
		return ""
	}
}
