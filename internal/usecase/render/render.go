// Package render turns a matched rule record and query into the indication
// text, study header, and order bundle shown to the user.
package render

import (
	"fmt"
	"strings"

	dommatch "github.com/oradigit/orderhelper/internal/domain/match"
	"github.com/oradigit/orderhelper/internal/domain/query"
	"github.com/oradigit/orderhelper/internal/domain/rule"
)

const contrastPlaceholder = "{contrast_text}"

// Indication renders the reason line for a matched record. Among the
// record's templates, the first one containing {contrast_text} is preferred
// only when contrastText is non-empty; otherwise the first template in
// source order is used, with the placeholder substituting to "" so no empty
// qualifier ever appears. Missing query fields substitute as empty strings;
// unknown placeholders stay verbatim so authors can spot the typo in the
// output.
func Indication(r rule.Record, q query.Query, contrastText string) string {
	tpl := pickTemplate(r.Reasons, contrastText)

	contrast := ""
	if contrastText != "" {
		contrast = " " + contrastText
	}

	return strings.NewReplacer(
		"{region}", q.Region,
		"{context}", strings.Join(q.Contexts, ", "),
		"{condition}", strings.TrimSpace(q.ConditionText),
		contrastPlaceholder, contrast,
	).Replace(tpl)
}

func pickTemplate(templates []string, contrastText string) string {
	if len(templates) == 0 {
		return ""
	}
	if contrastText != "" {
		for _, t := range templates {
			if strings.Contains(t, contrastPlaceholder) {
				return t
			}
		}
	}
	return templates[0]
}

// Header returns the study header with the contrast qualifier appended.
// A record without an authored header gets "<modality> <region>".
func Header(r rule.Record, contrastText string) string {
	h := strings.TrimSpace(r.Header)
	if h == "" {
		h = strings.TrimSpace(r.Modality + " " + r.Region)
	}
	if contrastText != "" {
		h += " " + contrastText
	}
	return h
}

// ConditionFrom derives the condition phrase for rendering: the query's
// free text first, then the first matched term, then a neutral stand-in.
func ConditionFrom(q query.Query, matchedTerms []string) string {
	if c := strings.TrimSpace(q.ConditionText); c != "" {
		return c
	}
	if len(matchedTerms) > 0 {
		return matchedTerms[0]
	}
	return "the stated condition"
}

// Bundle renders the full order summary as plain text: header, indication,
// then each list section the record carries.
func Bundle(res dommatch.Result, q query.Query, contrastText string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Study: %s\n", Header(res.Record, contrastText))
	fmt.Fprintf(&b, "Indication: %s\n", indicationFor(res, q, contrastText))

	writeSection(&b, "Preparation", res.Record.PrepNotes)
	writeSection(&b, "Supporting documentation", res.Record.SupportingDocs)
	writeSection(&b, "Flags", res.Record.Flags)
	return b.String()
}

func indicationFor(res dommatch.Result, q query.Query, contrastText string) string {
	// The matched terms backstop the condition when the query had no text.
	if strings.TrimSpace(q.ConditionText) == "" {
		q.ConditionText = ConditionFrom(q, res.MatchedTerms)
	}
	return Indication(res.Record, q, contrastText)
}

func writeSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "  - %s\n", it)
	}
}
