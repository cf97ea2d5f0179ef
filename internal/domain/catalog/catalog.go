// Package catalog defines the merged, immutable rule catalog and its derived
// per-modality summaries.
package catalog

import (
	"sort"
	"strings"

	"github.com/oradigit/orderhelper/internal/domain/rule"
	"github.com/oradigit/orderhelper/internal/text"
)

// Summary holds the option lists derived for one modality: every region,
// context, and condition keyword seen across its records. Slices are sorted
// lexicographically so identical sources always build identical catalogs.
type Summary struct {
	Regions    []string `json:"regions"`
	Contexts   []string `json:"contexts"`
	Conditions []string `json:"conditions"`
}

type modalityEntry struct {
	label   string
	summary Summary
}

// Catalog is the merged, deduplicated rule set plus derived summaries.
// It is immutable once built; switching modalities or editing sources
// rebuilds the catalog wholesale instead of patching it.
type Catalog struct {
	records    []rule.Record
	modalities map[string]modalityEntry // keyed by folded modality label
}

// New merges records into a catalog. Records are canonicalized, records
// without a modality are dropped, and id collisions resolve last-wins (a
// later record replaces an earlier one in place, keeping merge order
// deterministic). extra carries modality-level summaries that sources
// supplied without per-record detail; they are unioned into the derived
// summaries rather than discarded.
func New(records []rule.Record, extra map[string]Summary) Catalog {
	byID := make(map[string]int, len(records))
	merged := make([]rule.Record, 0, len(records))
	for _, r := range records {
		if !r.Usable() {
			continue
		}
		r = r.Canonical()
		if i, ok := byID[r.ID]; ok {
			merged[i] = r
			continue
		}
		byID[r.ID] = len(merged)
		merged = append(merged, r)
	}

	entries := make(map[string]*modalityEntry)
	get := func(label string) *modalityEntry {
		key := text.Fold(label)
		e, ok := entries[key]
		if !ok {
			e = &modalityEntry{label: label}
			entries[key] = e
		}
		return e
	}

	for _, r := range merged {
		e := get(r.Modality)
		e.summary.Regions = appendUnique(e.summary.Regions, r.Region)
		e.summary.Contexts = appendUnique(e.summary.Contexts, r.Contexts...)
		e.summary.Conditions = appendUnique(e.summary.Conditions, r.Keywords...)
	}

	// Deterministic union order for source-level summaries.
	labels := make([]string, 0, len(extra))
	for label := range extra {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		s := extra[label]
		e := get(label)
		e.summary.Regions = appendUnique(e.summary.Regions, s.Regions...)
		e.summary.Contexts = appendUnique(e.summary.Contexts, s.Contexts...)
		e.summary.Conditions = appendUnique(e.summary.Conditions, s.Conditions...)
	}

	modalities := make(map[string]modalityEntry, len(entries))
	for key, e := range entries {
		sort.Strings(e.summary.Regions)
		sort.Strings(e.summary.Contexts)
		sort.Strings(e.summary.Conditions)
		modalities[key] = *e
	}

	return Catalog{records: merged, modalities: modalities}
}

// Records returns the merged records in catalog order. The slice is shared;
// callers treat it as read-only.
func (c Catalog) Records() []rule.Record { return c.records }

// Len returns the record count.
func (c Catalog) Len() int { return len(c.records) }

// Modalities returns the catalog's modality labels sorted lexicographically.
func (c Catalog) Modalities() []string {
	labels := make([]string, 0, len(c.modalities))
	for _, e := range c.modalities {
		labels = append(labels, e.label)
	}
	sort.Strings(labels)
	return labels
}

// Summary returns the derived summary for a modality label, matching
// tolerantly ("PET CT" finds "PET/CT").
func (c Catalog) Summary(modality string) (Summary, bool) {
	e, ok := c.modalities[text.Fold(modality)]
	if !ok {
		return Summary{}, false
	}
	return e.summary, true
}

// Fallback returns the default record for a modality: the first record
// tagged oncology-general, else the first compatible record in catalog
// order. Modality labels compare by folded containment, mirroring the
// matcher's modality gate.
func (c Catalog) Fallback(modality string) (rule.Record, bool) {
	want := text.Fold(modality)
	var first rule.Record
	var found bool
	for _, r := range c.records {
		have := text.Fold(r.Modality)
		if !strings.Contains(have, want) && !strings.Contains(want, have) {
			continue
		}
		if r.HasTag(rule.TagOncologyGeneral) {
			return r, true
		}
		if !found {
			first, found = r, true
		}
	}
	return first, found
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if v == "" {
			continue
		}
		dup := false
		for _, d := range dst {
			if d == v {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}
