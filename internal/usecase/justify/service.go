// Package justify generates payer-aware justification text for a drafted
// order through a chat completion provider.
package justify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/oradigit/orderhelper/internal/domain"
)

const systemPrompt = "You are a radiology order documentation assistant. " +
	"Given a drafted imaging order and its clinical indication, produce " +
	"payer-aware documentation with exactly these sections: " +
	"Appropriateness, Documentation notes, Alternatives, and a final " +
	"one-line Reason. Be concise and clinically precise. Do not invent " +
	"findings that are not in the input."

// Request carries the drafted order under review.
type Request struct {
	Modality   string `json:"modality"`
	Header     string `json:"header"`
	Indication string `json:"indication"`
	Condition  string `json:"condition"`
}

// Service wraps the completion provider. A nil provider keeps the endpoint
// mounted but makes every call fail with ErrJustifyUnavailable, so the API
// surface is stable whether or not a key is configured.
type Service struct {
	completer ChatCompleter
	logger    *zap.Logger
}

// New creates the justification service. completer may be nil.
func New(completer ChatCompleter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{completer: completer, logger: logger}
}

// Enabled reports whether a completion provider is configured.
func (s *Service) Enabled() bool {
	return s.completer != nil
}

// Justify produces the documentation text for the drafted order.
func (s *Service) Justify(ctx context.Context, req Request) (string, error) {
	if s.completer == nil {
		return "", fmt.Errorf("no completion provider configured: %w", domain.ErrJustifyUnavailable)
	}

	user := buildPrompt(req)
	if strings.TrimSpace(user) == "" {
		return "", fmt.Errorf("empty justify request: %w", domain.ErrJustifyUnavailable)
	}

	answer, err := s.completer.Complete(ctx, systemPrompt, user)
	if err != nil {
		s.logger.Warn("justification failed", zap.Error(err))
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	writeLine := func(label, value string) {
		if v := strings.TrimSpace(value); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, v)
		}
	}
	writeLine("Modality", req.Modality)
	writeLine("Study", req.Header)
	writeLine("Indication", req.Indication)
	writeLine("Clinical condition", req.Condition)
	return b.String()
}
