// Package rules turns raw rule-source documents into canonical catalog input
// and provides the source adapters that fetch them.
package rules

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/oradigit/orderhelper/internal/domain"
	"github.com/oradigit/orderhelper/internal/domain/catalog"
	"github.com/oradigit/orderhelper/internal/domain/rule"
	"github.com/oradigit/orderhelper/internal/text"
)

// Normalized is the outcome of normalizing one raw source document: zero or
// more records plus any modality-level option lists the source carried
// without per-record detail.
type Normalized struct {
	Records   []rule.Record
	Summaries map[string]catalog.Summary
}

// shape enumerates the accepted source-document layouts. Anything else is
// shapeUnknown and normalizes to an empty result rather than an error, so
// one malformed source never blocks the rest of the build.
type shape int

const (
	shapeUnknown shape = iota
	shapeRecordList
	shapeDocument
	shapeModalityMap
	shapeModalityDoc
)

// Decode parses a raw source payload into a document for Normalize.
func Decode(data []byte) (any, error) {
	// Tolerate a UTF-8 BOM; some authored files carry one.
	data = []byte(strings.TrimPrefix(string(data), "\ufeff"))
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Normalize converts one decoded source document of any accepted shape into
// canonical records and summaries. modalityHint labels documents that carry
// no modality of their own (per-modality store documents). Unrecognized
// shapes yield an empty result, never an error.
func Normalize(doc any, modalityHint string) Normalized {
	switch detectShape(doc, modalityHint) {
	case shapeRecordList:
		list := doc.([]any)
		return Normalized{Records: parseRecords(list, modalityHint)}

	case shapeDocument:
		m := doc.(map[string]any)
		out := Normalized{}
		if recs, ok := m["records"].([]any); ok {
			out.Records = parseRecords(recs, modalityHint)
		}
		if mods, ok := m["modalities"].(map[string]any); ok {
			sub := Normalize(mods, "")
			out.Records = append(out.Records, sub.Records...)
			out.Summaries = sub.Summaries
		}
		return out

	case shapeModalityMap:
		m := doc.(map[string]any)
		labels := make([]string, 0, len(m))
		for label := range m {
			labels = append(labels, label)
		}
		// Record order must not depend on map iteration order.
		sort.Strings(labels)

		out := Normalized{Summaries: make(map[string]catalog.Summary, len(m))}
		for _, label := range labels {
			body, ok := m[label].(map[string]any)
			if !ok {
				continue
			}
			sub := Normalize(body, label)
			out.Records = append(out.Records, sub.Records...)
			for l, s := range sub.Summaries {
				out.Summaries[l] = s
			}
		}
		return out

	case shapeModalityDoc:
		m := doc.(map[string]any)
		out := Normalized{
			Summaries: map[string]catalog.Summary{
				modalityLabel(m, modalityHint): {
					Regions:    strList(m["regions"]),
					Contexts:   strList(m["contexts"]),
					Conditions: strList(firstOf(m, "conditions", "keywords")),
				},
			},
		}
		if recs, ok := m["records"].([]any); ok {
			out.Records = parseRecords(recs, modalityHint)
		}
		return out

	default:
		return Normalized{}
	}
}

// CheckShape returns ErrSchemaMismatch when the document matches no accepted
// shape. The builder records it as a warning; normalization itself never fails.
func CheckShape(doc any, modalityHint string) error {
	if detectShape(doc, modalityHint) == shapeUnknown {
		return domain.ErrSchemaMismatch
	}
	return nil
}

func detectShape(doc any, modalityHint string) shape {
	switch d := doc.(type) {
	case []any:
		return shapeRecordList
	case map[string]any:
		_, hasRecords := d["records"].([]any)
		_, hasModalities := d["modalities"].(map[string]any)
		if hasRecords || hasModalities {
			return shapeDocument
		}
		if hasSummaryKeys(d) {
			if modalityHint != "" {
				return shapeModalityDoc
			}
			return shapeUnknown
		}
		// Object keyed by modality name whose values hold option lists.
		if len(d) > 0 && allValuesAreSpecs(d) {
			return shapeModalityMap
		}
		return shapeUnknown
	default:
		return shapeUnknown
	}
}

func hasSummaryKeys(m map[string]any) bool {
	for _, k := range []string{"regions", "contexts", "conditions", "keywords"} {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

func allValuesAreSpecs(m map[string]any) bool {
	for _, v := range m {
		sub, ok := v.(map[string]any)
		if !ok || !hasSummaryKeys(sub) {
			return false
		}
	}
	return true
}

func modalityLabel(m map[string]any, hint string) string {
	if name := strVal(m["name"]); name != "" {
		return name
	}
	return hint
}

func parseRecords(list []any, modalityHint string) []rule.Record {
	records := make([]rule.Record, 0, len(list))
	for _, item := range list {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		r := parseRecord(raw, modalityHint)
		if r.Usable() {
			records = append(records, r)
		}
	}
	return records
}

func parseRecord(raw map[string]any, modalityHint string) rule.Record {
	modality := strVal(raw["modality"])
	if modality == "" {
		modality = modalityHint
	}

	r := rule.Record{
		ID:             strVal(raw["id"]),
		Modality:       modality,
		Region:         inferRegion(raw),
		Contexts:       strList(raw["contexts"]),
		Keywords:       strList(firstOf(raw, "keywords", "conditions")),
		Header:         strVal(firstOf(raw, "header", "study_name")),
		Reasons:        strList(raw["reasons"]),
		PrepNotes:      strList(raw["prep_notes"]),
		SupportingDocs: strList(raw["supporting_docs"]),
		Flags:          strList(raw["flags"]),
		Tags:           strList(raw["tags"]),
		CPTCodes:       strList(raw["cpt"]),
		ICD10Codes:     strList(raw["icd10"]),
	}

	if len(r.Contexts) == 0 {
		r.Contexts = inferContexts(r.Modality, r.Tags, r.Keywords)
	}
	return r
}

// inferRegion resolves the anatomic region through the documented fallback
// chain: region, regions[0], header_coverage, the tail of study_name split
// on an em-dash. The final "General" default is applied by Canonical.
func inferRegion(raw map[string]any) string {
	if region := strVal(raw["region"]); region != "" {
		return region
	}
	if regions := strList(raw["regions"]); len(regions) > 0 {
		return regions[0]
	}
	if cov := strVal(firstOf(raw, "headerCoverage", "header_coverage")); cov != "" {
		return cov
	}
	if study := strVal(raw["study_name"]); strings.Contains(study, "—") {
		parts := strings.Split(study, "—")
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return ""
}

// contextVocab is the closed set of context-like words used to mine contexts
// out of tags and keywords when a record declares none.
var contextVocab = map[string]struct{}{
	"staging": {}, "restaging": {}, "surveillance": {}, "treatment": {},
	"acute": {}, "follow": {}, "infection": {}, "diagnostic": {}, "screening": {},
}

// defaultContexts supplies per-modality context lists for records that have
// nothing context-like at all, keyed by folded modality label.
var defaultContexts = map[string][]string{
	"PETCT": {"Staging", "Restaging", "Treatment response", "Surveillance"},
	"PET":   {"Staging", "Restaging", "Treatment response", "Surveillance"},
	"CT":    {"Acute", "Follow-up", "Staging"},
	"MRI":   {"Acute", "Follow-up", "Staging"},
}

func inferContexts(modality string, tags, keywords []string) []string {
	var out []string
	for _, candidate := range append(append([]string{}, tags...), keywords...) {
		for _, tok := range text.Tokens(candidate) {
			if _, ok := contextVocab[tok]; ok {
				out = append(out, candidate)
				break
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	if defaults, ok := defaultContexts[text.Fold(modality)]; ok {
		return defaults
	}
	return []string{"Diagnostic"}
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// strVal coerces a scalar to a trimmed string; anything else yields "".
func strVal(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// strList defensively coerces an array-typed field: nil yields nil, a scalar
// yields a single-element list, and non-string elements are skipped.
// Duplicate removal happens later in rule.Canonical.
func strList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := strVal(item); s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}
