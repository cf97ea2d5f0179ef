// Package suggest orchestrates one order suggestion: modality inference,
// record matching, contrast advice, rendering, and code suggestion.
package suggest

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oradigit/orderhelper/internal/domain"
	dommatch "github.com/oradigit/orderhelper/internal/domain/match"
	"github.com/oradigit/orderhelper/internal/domain/query"
	"github.com/oradigit/orderhelper/internal/domain/rule"
	"github.com/oradigit/orderhelper/internal/usecase/codes"
	"github.com/oradigit/orderhelper/internal/usecase/contrast"
	"github.com/oradigit/orderhelper/internal/usecase/render"
)

const defaultMaxCodes = 4

// Suggestion is the full result of one order query.
type Suggestion struct {
	Modality     string       `json:"modality"`
	Header       string       `json:"header"`
	Indication   string       `json:"indication"`
	Contrast     string       `json:"contrast,omitempty"`
	Codes        []codes.Code `json:"codes"`
	MatchedTerms []string     `json:"matched_terms,omitempty"`
	Fallback     bool         `json:"fallback,omitempty"`
	Bundle       string       `json:"bundle"`
	Record       rule.Record  `json:"record"`
}

// Service resolves suggestions against the current catalog.
type Service struct {
	catalogs  catalogProvider
	matcher   matcher
	codeTable []codes.CodeRule
	maxCodes  int
	logger    *zap.Logger
}

// New creates the suggestion service.
func New(catalogs catalogProvider, m matcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalogs:  catalogs,
		matcher:   m,
		codeTable: codes.DefaultTable,
		maxCodes:  defaultMaxCodes,
		logger:    logger,
	}
}

// WithMaxCodes caps the number of suggested billing codes.
func (s *Service) WithMaxCodes(n int) *Service {
	if n > 0 {
		s.maxCodes = n
	}
	return s
}

// Suggest produces a complete order suggestion. An empty query modality is
// inferred from the condition text against the whole catalog.
func (s *Service) Suggest(q query.Query) (Suggestion, error) {
	cat, ok := s.catalogs.Catalog()
	if !ok || cat.Len() == 0 {
		return Suggestion{}, domain.ErrCatalogEmpty
	}

	if q.Modality == "" {
		label, inferred := s.matcher.InferModality(cat, q)
		if !inferred {
			return Suggestion{}, fmt.Errorf("condition %q: %w", q.ConditionText, domain.ErrModalityUnknown)
		}
		q.Modality = label
		s.logger.Debug("inferred modality", zap.String("modality", label))
	}

	best, err := s.matcher.Best(cat, q)
	if err != nil {
		return Suggestion{}, err
	}

	condition := render.ConditionFrom(q, best.MatchedTerms)
	q.ConditionText = condition
	if q.Region == "" {
		q.Region = best.Record.Region
	}

	verdict := contrast.ForStudy(q.Modality, condition, q.Region)
	qualifier := contrast.QualifierText(verdict)

	return Suggestion{
		Modality:     best.Record.Modality,
		Header:       render.Header(best.Record, qualifier),
		Indication:   render.Indication(best.Record, q, qualifier),
		Contrast:     string(verdict),
		Codes:        codes.Suggest(condition, s.codeTable, s.maxCodes),
		MatchedTerms: best.MatchedTerms,
		Fallback:     best.Fallback,
		Bundle:       render.Bundle(best, q, qualifier),
		Record:       best.Record,
	}, nil
}

// Rank exposes raw ranking for the /rank endpoint.
func (s *Service) Rank(q query.Query) ([]dommatch.Result, error) {
	cat, ok := s.catalogs.Catalog()
	if !ok || cat.Len() == 0 {
		return nil, domain.ErrCatalogEmpty
	}
	return s.matcher.Rank(cat, q), nil
}

// Search lists a modality's rules filtered by a free-text term.
func (s *Service) Search(modality, term string) ([]rule.Record, error) {
	cat, ok := s.catalogs.Catalog()
	if !ok || cat.Len() == 0 {
		return nil, domain.ErrCatalogEmpty
	}
	return s.matcher.SearchRules(cat, modality, term), nil
}
