// Package query defines the ephemeral per-request query value.
package query

import (
	"strings"

	"github.com/oradigit/orderhelper/internal/text"
)

// Query captures one user request. It is constructed per action and never
// persisted; only Modality is required for ranking, everything else may be
// empty and degrades gracefully downstream.
type Query struct {
	Modality      string   `json:"modality"`
	Region        string   `json:"region,omitempty"`
	Contexts      []string `json:"contexts,omitempty"`
	ConditionText string   `json:"condition_text,omitempty"`
}

// ModalityMatches reports whether a record's modality label is compatible
// with the query's. Labels are folded (separators stripped, uppercased) and
// compared by containment either way, so "PET" passes for "PET/CT" and
// "PET/CT" passes for "PET CT".
func ModalityMatches(record, queried string) bool {
	r, q := text.Fold(record), text.Fold(queried)
	if r == "" || q == "" {
		return false
	}
	return strings.Contains(r, q) || strings.Contains(q, r)
}
