// Package match defines the result of ranking catalog records against a query.
package match

import "github.com/oradigit/orderhelper/internal/domain/rule"

// Result pairs a catalog record with its query score. Scores are unbounded
// and non-negative; records that fail the modality gate are never surfaced.
type Result struct {
	Record       rule.Record `json:"record"`
	Score        float64     `json:"score"`
	MatchedTerms []string    `json:"matched_terms"`

	// Fallback is set when the result is a substituted default record because
	// nothing scored above the confidence floor. Surfaced to callers as an
	// informational note, never as an error.
	Fallback bool `json:"fallback,omitempty"`
}
