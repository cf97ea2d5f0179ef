// Package orderhelper is the in-process SDK over the imaging order engine:
// catalog assembly, rule ranking, and full order suggestions without the
// HTTP server.
package orderhelper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/oradigit/orderhelper/internal/db"
	dbRedis "github.com/oradigit/orderhelper/internal/db/redis"
	"github.com/oradigit/orderhelper/internal/repository/rules"
	cataloguc "github.com/oradigit/orderhelper/internal/usecase/catalog"
	matchuc "github.com/oradigit/orderhelper/internal/usecase/match"
	"github.com/oradigit/orderhelper/internal/usecase/render"
	suggestuc "github.com/oradigit/orderhelper/internal/usecase/suggest"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "orderhelper:"
	defaultSnapshotTTL      = 24 * time.Hour
)

// Client is the orderhelper SDK entry point. With no options it serves the
// embedded default catalog; rule files, URLs, and a backing store are wired
// in through Options.
type Client struct {
	store       db.Store
	catalogs    *cataloguc.Service
	suggestions *suggestuc.Service
}

// New creates a Client and performs the initial catalog build. A configured
// store that is unreachable fails construction; bad rule sources do not,
// they surface as build warnings.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	var store db.Store
	if len(cfg.addrs) > 0 {
		s, err := createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := s.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("orderhelper: store not ready: %w", err)
		}
		store = s
	}

	c := wireClient(store, cfg)
	c.catalogs.Rebuild(context.Background())
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	// One client serves both drivers; the wire protocol is identical for
	// every command the store issues.
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("orderhelper: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("orderhelper: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	var sources []rules.Source
	for _, f := range cfg.rulePaths {
		sources = append(sources, rules.NewFileSource(f.location).WithModalityHint(f.hint))
	}
	for _, u := range cfg.ruleURLs {
		sources = append(sources, rules.NewHTTPSource(u.location).WithModalityHint(u.hint))
	}
	if cfg.useStore && store != nil {
		sources = append(sources, rules.NewStoreSource(store, cfg.keyPrefix+"rules:"))
	}

	catalogSvc := cataloguc.New(sources, cfg.logger)
	if store != nil {
		ttl := defaultSnapshotTTL
		if cfg.snapshotTTLSec > 0 {
			ttl = time.Duration(cfg.snapshotTTLSec) * time.Second
		}
		catalogSvc.WithSnapshots(rules.NewSnapshotStore(store, cfg.keyPrefix+"catalog:snapshot", ttl))
	}

	matcher := matchuc.New()
	if cfg.thresholds != nil {
		matcher.WithThresholds(mergeThresholds(*cfg.thresholds))
	}

	suggestSvc := suggestuc.New(catalogSvc, matcher, cfg.logger)
	if cfg.maxCodes > 0 {
		suggestSvc.WithMaxCodes(cfg.maxCodes)
	}

	return &Client{
		store:       store,
		catalogs:    catalogSvc,
		suggestions: suggestSvc,
	}
}

// mergeThresholds fills zero fields with the stock cutoffs.
func mergeThresholds(t Thresholds) matchuc.Thresholds {
	out := matchuc.DefaultThresholds()
	if t.Floor > 0 {
		out.Floor = t.Floor
	}
	if t.RegionStrong > 0 {
		out.RegionStrong = t.RegionStrong
	}
	if t.RegionWeak > 0 {
		out.RegionWeak = t.RegionWeak
	}
	if t.ContextFuzzy > 0 {
		out.ContextFuzzy = t.ContextFuzzy
	}
	if t.KeywordStrong > 0 {
		out.KeywordStrong = t.KeywordStrong
	}
	if t.KeywordWeak > 0 {
		out.KeywordWeak = t.KeywordWeak
	}
	return out
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity. Without a configured store it is a no-op.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Rebuild refetches all rule sources and installs the resulting catalog.
func (c *Client) Rebuild(ctx context.Context) BuildInfo {
	build := c.catalogs.Rebuild(ctx)
	return BuildInfo{
		Records:    build.Catalog.Len(),
		Modalities: build.Catalog.Modalities(),
		Warnings:   build.Warnings,
		BuiltAt:    build.BuiltAt,
	}
}

// Suggest produces a complete order suggestion for the query.
func (c *Client) Suggest(q Query) (Suggestion, error) {
	s, err := c.suggestions.Suggest(q.toDomain())
	if err != nil {
		return Suggestion{}, err
	}
	return suggestionFromDomain(s), nil
}

// Rank scores every eligible catalog record against the query and returns
// them sorted by descending score.
func (c *Client) Rank(q Query) ([]RankedRecord, error) {
	ranked, err := c.suggestions.Rank(q.toDomain())
	if err != nil {
		return nil, err
	}
	return rankedFromDomain(ranked), nil
}

// Rules lists a modality's catalog records filtered by a free-text term.
func (c *Client) Rules(modality, term string) ([]Record, error) {
	records, err := c.suggestions.Search(modality, term)
	if err != nil {
		return nil, err
	}
	return recordsFromDomain(records), nil
}

// RenderIndication fills a record's reason template with query values and an
// optional contrast qualifier. Pure text assembly, no catalog needed.
func RenderIndication(r Record, q Query, contrastText string) string {
	return render.Indication(r.toDomain(), q.toDomain(), contrastText)
}

// Modalities lists the modality labels in the installed catalog.
func (c *Client) Modalities() []string {
	cat, ok := c.catalogs.Catalog()
	if !ok {
		return nil
	}
	return cat.Modalities()
}
