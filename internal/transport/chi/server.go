// Package chi exposes the order-helper engine over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/oradigit/orderhelper/internal/domain"
	dommatch "github.com/oradigit/orderhelper/internal/domain/match"
	"github.com/oradigit/orderhelper/internal/domain/query"
	"github.com/oradigit/orderhelper/internal/domain/rule"
	cataloguc "github.com/oradigit/orderhelper/internal/usecase/catalog"
	healthuc "github.com/oradigit/orderhelper/internal/usecase/health"
	justifyuc "github.com/oradigit/orderhelper/internal/usecase/justify"
	suggestuc "github.com/oradigit/orderhelper/internal/usecase/suggest"
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest         = "bad_request"
	codeNotFound           = "not_found"
	codeCatalogEmpty       = "catalog_empty"
	codeModalityUnknown    = "modality_unknown"
	codeSchemaMismatch     = "schema_mismatch"
	codeSourceUnavailable  = "source_unavailable"
	codeJustifyUnavailable = "justify_unavailable"
	codeInternalError      = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the usecase services into HTTP handlers.
type Server struct {
	catalogs      *cataloguc.Service
	suggestions   *suggestuc.Service
	justifier     *justifyuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalogs *cataloguc.Service,
	suggestions *suggestuc.Service,
	justifier *justifyuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalogs:    catalogs,
		suggestions: suggestions,
		justifier:   justifier,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrCatalogEmpty, http.StatusServiceUnavailable, codeCatalogEmpty),
		sentinelHandler(domain.ErrModalityUnknown, http.StatusUnprocessableEntity, codeModalityUnknown),
		sentinelHandler(domain.ErrSchemaMismatch, http.StatusBadRequest, codeSchemaMismatch),
		sentinelHandler(domain.ErrSourceUnavailable, http.StatusBadGateway, codeSourceUnavailable),
		sentinelHandler(domain.ErrJustifyUnavailable, http.StatusBadGateway, codeJustifyUnavailable),
	}
	return s
}

// Routes mounts every API route on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/suggest", s.Suggest)
		r.Post("/rank", s.Rank)
		r.Get("/rules", s.SearchRules)
		r.Get("/catalog", s.GetCatalog)
		r.Get("/catalog/{modality}", s.GetModality)
		r.Post("/catalog/rebuild", s.RebuildCatalog)
		r.Post("/justify", s.Justify)
	})
}

// queryRequest is the JSON body shared by /suggest and /rank.
type queryRequest struct {
	Modality      string   `json:"modality"`
	Region        string   `json:"region"`
	Contexts      []string `json:"contexts"`
	ConditionText string   `json:"condition_text"`
}

func (q queryRequest) toQuery() query.Query {
	return query.Query{
		Modality:      q.Modality,
		Region:        q.Region,
		Contexts:      q.Contexts,
		ConditionText: q.ConditionText,
	}
}

// Suggest handles POST /v1/suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Modality == "" && req.ConditionText == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "modality or condition_text is required")
		return
	}

	suggestion, err := s.suggestions.Suggest(req.toQuery())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestion)
}

// rankResponseItem is one ranked record with its score.
type rankResponseItem struct {
	Record       rule.Record `json:"record"`
	Score        float64     `json:"score"`
	MatchedTerms []string    `json:"matched_terms,omitempty"`
}

// Rank handles POST /v1/rank.
func (s *Server) Rank(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Modality == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "modality is required")
		return
	}

	ranked, err := s.suggestions.Rank(req.toQuery())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": rankItems(ranked)})
}

func rankItems(results []dommatch.Result) []rankResponseItem {
	items := make([]rankResponseItem, len(results))
	for i, res := range results {
		items[i] = rankResponseItem{
			Record:       res.Record,
			Score:        res.Score,
			MatchedTerms: res.MatchedTerms,
		}
	}
	return items
}

// SearchRules handles GET /v1/rules?modality=CT&q=appendicitis.
func (s *Server) SearchRules(w http.ResponseWriter, r *http.Request) {
	modality := r.URL.Query().Get("modality")
	if modality == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "modality query parameter is required")
		return
	}

	records, err := s.suggestions.Search(modality, r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if records == nil {
		records = []rule.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"rules": records})
}

// GetCatalog handles GET /v1/catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	build, ok := s.catalogs.Current()
	if !ok {
		s.handleDomainError(w, domain.ErrCatalogEmpty)
		return
	}

	warnings := build.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"modalities": build.Catalog.Modalities(),
		"records":    build.Catalog.Len(),
		"built_at":   build.BuiltAt,
		"warnings":   warnings,
	})
}

// GetModality handles GET /v1/catalog/{modality}.
func (s *Server) GetModality(w http.ResponseWriter, r *http.Request) {
	build, ok := s.catalogs.Current()
	if !ok {
		s.handleDomainError(w, domain.ErrCatalogEmpty)
		return
	}

	modality := chi.URLParam(r, "modality")
	summary, ok := build.Catalog.Summary(modality)
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, "unknown modality")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"modality": modality,
		"summary":  summary,
	})
}

// RebuildCatalog handles POST /v1/catalog/rebuild.
func (s *Server) RebuildCatalog(w http.ResponseWriter, r *http.Request) {
	build := s.catalogs.Rebuild(r.Context())

	warnings := build.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records":  build.Catalog.Len(),
		"built_at": build.BuiltAt,
		"warnings": warnings,
	})
}

// Justify handles POST /v1/justify.
func (s *Server) Justify(w http.ResponseWriter, r *http.Request) {
	var req justifyuc.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	answer, err := s.justifier.Justify(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrCatalogEmpty,
		domain.ErrModalityUnknown,
		domain.ErrSchemaMismatch,
		domain.ErrSourceUnavailable,
		domain.ErrJustifyUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
