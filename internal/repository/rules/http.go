package rules

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPSource fetches one rule document over HTTP(S).
type HTTPSource struct {
	url    string
	hint   string
	client *http.Client
}

// NewHTTPSource creates an HTTP-backed rule source.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// WithClient overrides the HTTP client (tests, custom transports).
func (s *HTTPSource) WithClient(c *http.Client) *HTTPSource {
	s.client = c
	return s
}

// WithModalityHint labels the document for payloads that carry no modality
// field of their own.
func (s *HTTPSource) WithModalityHint(hint string) *HTTPSource {
	s.hint = hint
	return s
}

// Name identifies the source in warnings and logs.
func (s *HTTPSource) Name() string { return s.url }

// Fetch downloads the document body.
func (s *HTTPSource) Fetch(ctx context.Context) ([]Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", s.url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", s.url, err)
	}

	// A static host answering 404s with an index page returns HTML, not JSON.
	if strings.HasPrefix(strings.TrimSpace(string(data)), "<!DOCTYPE") {
		return nil, fmt.Errorf("fetch %s: got HTML instead of JSON", s.url)
	}

	return []Document{{Name: s.Name(), ModalityHint: s.hint, Data: data}}, nil
}
