// Package match ranks catalog records against a query.
package match

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/oradigit/orderhelper/internal/domain"
	domcat "github.com/oradigit/orderhelper/internal/domain/catalog"
	dommatch "github.com/oradigit/orderhelper/internal/domain/match"
	"github.com/oradigit/orderhelper/internal/domain/query"
	"github.com/oradigit/orderhelper/internal/domain/rule"
	"github.com/oradigit/orderhelper/internal/metrics"
	"github.com/oradigit/orderhelper/internal/text"
)

// Scoring weights. Empirical constants carried over from observed behavior,
// not derived from a clinical requirement; tune via Thresholds, not here.
const (
	regionStrongPoints  = 4
	regionWeakPoints    = 2
	contextExactPoints  = 3
	contextFuzzyPoints  = 1.5
	keywordExactPoints  = 3
	keywordStrongPoints = 2
	keywordWeakPoints   = 1
	oncologyBonus       = 1
)

// Thresholds holds the tunable similarity cutoffs and the confidence floor.
type Thresholds struct {
	Floor         float64
	RegionStrong  float64
	RegionWeak    float64
	ContextFuzzy  float64
	KeywordStrong float64
	KeywordWeak   float64
}

// DefaultThresholds returns the stock cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Floor:         3,
		RegionStrong:  0.8,
		RegionWeak:    0.5,
		ContextFuzzy:  0.65,
		KeywordStrong: 0.75,
		KeywordWeak:   0.55,
	}
}

var oncologyPattern = regexp.MustCompile(`cancer|carcinoma|lymphoma|sarcoma|melanoma|tumou?r|malign|metasta`)

// Service scores and ranks rule records. It is stateless and pure: all
// inputs arrive as immutable values, no I/O happens here.
type Service struct {
	t Thresholds
}

// New creates a matcher with default thresholds.
func New() *Service {
	return &Service{t: DefaultThresholds()}
}

// WithThresholds overrides the scoring cutoffs.
func (s *Service) WithThresholds(t Thresholds) *Service {
	s.t = t
	return s
}

// Rank scores every catalog record against the query and returns the
// eligible ones sorted by descending score. Records failing the modality
// gate are dropped entirely. The sort is stable, so ties keep catalog order
// and ranking stays deterministic.
func (s *Service) Rank(cat domcat.Catalog, q query.Query) []dommatch.Result {
	queryTerms := text.Expand([]string{q.ConditionText})
	conditionNorm := text.Normalize(q.ConditionText)

	queryContexts := make([]string, 0, len(q.Contexts))
	for _, c := range q.Contexts {
		if n := text.Normalize(c); n != "" {
			queryContexts = append(queryContexts, n)
		}
	}

	results := make([]dommatch.Result, 0, cat.Len())
	for _, r := range cat.Records() {
		if !query.ModalityMatches(r.Modality, q.Modality) {
			continue
		}

		score, matched := s.scoreRecord(r, q, queryTerms, queryContexts, conditionNorm)
		results = append(results, dommatch.Result{
			Record:       r,
			Score:        score,
			MatchedTerms: matched,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func (s *Service) scoreRecord(
	r rule.Record, q query.Query,
	queryTerms text.Set, queryContexts []string, conditionNorm string,
) (float64, []string) {
	var score float64

	// Region band: exact normalized equality counts as a full match even for
	// single-token regions, which have no bigrams and would score 0.
	if q.Region != "" && r.Region != "" {
		switch sim := regionSimilarity(r.Region, q.Region); {
		case sim >= s.t.RegionStrong:
			score += regionStrongPoints
		case sim >= s.t.RegionWeak:
			score += regionWeakPoints
		}
	}

	for _, rc := range r.Contexts {
		rcNorm := text.Normalize(rc)
		exact := false
		best := 0.0
		for _, qc := range queryContexts {
			if rcNorm == qc {
				exact = true
				break
			}
			if sim := text.Similarity(rc, qc); sim > best {
				best = sim
			}
		}
		switch {
		case exact:
			score += contextExactPoints
		case best >= s.t.ContextFuzzy:
			score += contextFuzzyPoints
		}
	}

	var matched []string
	for _, kw := range r.Keywords {
		switch {
		case keywordInSet(kw, queryTerms):
			score += keywordExactPoints
			matched = append(matched, kw)
		case text.Similarity(kw, conditionNorm) >= s.t.KeywordStrong:
			score += keywordStrongPoints
			matched = append(matched, kw)
		case text.Similarity(kw, conditionNorm) >= s.t.KeywordWeak:
			score += keywordWeakPoints
			matched = append(matched, kw)
		}
	}

	if r.HasTag(rule.TagOncologyGeneral) && oncologyPattern.MatchString(conditionNorm) {
		score += oncologyBonus
	}

	return score, matched
}

// keywordInSet reports exact alias-expanded membership: the keyword, or any
// synonym in its group, appears verbatim in the expanded query set.
func keywordInSet(kw string, queryTerms text.Set) bool {
	for _, v := range text.Variants(kw) {
		if _, ok := queryTerms[v]; ok {
			return true
		}
	}
	return false
}

func regionSimilarity(a, b string) float64 {
	if text.Normalize(a) == text.Normalize(b) {
		return 1
	}
	return text.Similarity(a, b)
}

// Best returns the top-ranked record, substituting the modality's default
// record when nothing scores at or above the floor. It fails only when the
// catalog holds no record for the modality at all.
func (s *Service) Best(cat domcat.Catalog, q query.Query) (dommatch.Result, error) {
	ranked := s.Rank(cat, q)
	if len(ranked) > 0 && ranked[0].Score >= s.t.Floor {
		return ranked[0], nil
	}

	fallback, ok := cat.Fallback(q.Modality)
	if !ok {
		return dommatch.Result{}, fmt.Errorf("modality %q: %w", q.Modality, domain.ErrCatalogEmpty)
	}

	metrics.MatchFallbacksTotal.Inc()
	return dommatch.Result{Record: fallback, Fallback: true}, nil
}

// InferModality picks the catalog modality whose records fit the query text
// best. Ties resolve to the lexicographically first label, keeping the
// choice deterministic.
func (s *Service) InferModality(cat domcat.Catalog, q query.Query) (string, bool) {
	var bestLabel string
	bestScore := -1.0
	for _, label := range cat.Modalities() {
		probe := q
		probe.Modality = label
		ranked := s.Rank(cat, probe)
		if len(ranked) == 0 {
			continue
		}
		if ranked[0].Score > bestScore {
			bestScore = ranked[0].Score
			bestLabel = label
		}
	}
	return bestLabel, bestLabel != "" && bestScore > 0
}

// SearchRules lists a modality's records filtered by an optional free-text
// term matched against header, region, and keywords.
func (s *Service) SearchRules(cat domcat.Catalog, modality, term string) []rule.Record {
	termSet := text.Expand([]string{term})
	termNorm := text.Normalize(term)

	var out []rule.Record
	for _, r := range cat.Records() {
		if !query.ModalityMatches(r.Modality, modality) {
			continue
		}
		if termNorm == "" || recordMatchesTerm(r, termSet, termNorm, s.t.KeywordWeak) {
			out = append(out, r)
		}
	}
	return out
}

func recordMatchesTerm(r rule.Record, termSet text.Set, termNorm string, floor float64) bool {
	if strings.Contains(text.Normalize(r.Header), termNorm) ||
		strings.Contains(text.Normalize(r.Region), termNorm) {
		return true
	}
	for _, kw := range r.Keywords {
		if keywordInSet(kw, termSet) || text.Similarity(kw, termNorm) >= floor {
			return true
		}
	}
	return false
}
