// Package rule defines the canonical rule record, the atomic unit of the
// order-helper catalog.
package rule

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/oradigit/orderhelper/internal/text"
)

// TagOncologyGeneral marks a modality's general-purpose oncology record,
// used as the fallback when no record scores above the confidence floor.
const TagOncologyGeneral = "oncology-general"

// Record is one authored study template: the conditions under which a study
// applies and the text emitted when it wins. Records are immutable once the
// catalog is built; a catalog rebuild replaces them wholesale.
type Record struct {
	ID             string   `json:"id"`
	Modality       string   `json:"modality"`
	Region         string   `json:"region"`
	Contexts       []string `json:"contexts,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	Header         string   `json:"header"`
	Reasons        []string `json:"reasons"`
	PrepNotes      []string `json:"prep_notes,omitempty"`
	SupportingDocs []string `json:"supporting_docs,omitempty"`
	Flags          []string `json:"flags,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	CPTCodes       []string `json:"cpt,omitempty"`
	ICD10Codes     []string `json:"icd10,omitempty"`
}

// Usable reports whether the record can participate in matching.
// A record without a modality can never pass the modality gate.
func (r Record) Usable() bool {
	return strings.TrimSpace(r.Modality) != ""
}

// HasTag reports whether the record carries the given tag (case-insensitive).
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Canonical returns a copy with the catalog invariants applied: a
// deterministic id when the source omitted one, a generic reason template
// when none was authored, a "General" region when none could be inferred,
// and all set-valued fields trimmed, deduplicated, and sorted.
func (r Record) Canonical() Record {
	r.Modality = strings.TrimSpace(r.Modality)
	r.Region = strings.TrimSpace(r.Region)
	r.Header = strings.TrimSpace(r.Header)

	r.Reasons = cleanList(r.Reasons)
	r.Contexts = CleanSet(r.Contexts)
	r.Keywords = CleanSet(r.Keywords)
	r.PrepNotes = cleanList(r.PrepNotes)
	r.SupportingDocs = cleanList(r.SupportingDocs)
	r.Flags = cleanList(r.Flags)
	r.Tags = CleanSet(r.Tags)
	r.CPTCodes = CleanSet(r.CPTCodes)
	r.ICD10Codes = CleanSet(r.ICD10Codes)

	if r.Region == "" {
		r.Region = "General"
	}
	if len(r.Reasons) == 0 {
		r.Reasons = []string{fmt.Sprintf("%s for {context} of {condition}.", r.Modality)}
	}
	if r.ID == "" {
		r.ID = deriveID(r.Modality, r.Header, r.Region)
	}
	return r
}

// CleanSet trims, drops empties, deduplicates case-insensitively, and sorts.
// Sorting keeps catalog builds byte-identical across runs.
func CleanSet(values []string) []string {
	out := cleanList(values)
	if out == nil {
		return nil
	}
	sort.Strings(out)
	return out
}

// cleanList trims, drops empties, and deduplicates preserving order.
// Ordered fields (reason templates, prep steps) must not be resorted.
func cleanList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// deriveID builds a stable id from the record's identity fields, so the same
// source contents always produce the same catalog.
func deriveID(modality, header, region string) string {
	sum := sha1.Sum([]byte(text.Fold(modality) + "|" + text.Normalize(header) + "|" + text.Normalize(region)))
	return "r_" + hex.EncodeToString(sum[:])[:12]
}
