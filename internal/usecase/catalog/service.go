// Package catalog builds the rule catalog from configured sources:
// parallel fetch, per-source failure isolation, last-wins merge, and a
// well-defined fallback chain (cached snapshot, then embedded defaults).
package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	domcat "github.com/oradigit/orderhelper/internal/domain/catalog"
	"github.com/oradigit/orderhelper/internal/domain/rule"
	"github.com/oradigit/orderhelper/internal/metrics"
	"github.com/oradigit/orderhelper/internal/repository/rules"
)

// Build is one built catalog with the warnings its assembly produced.
type Build struct {
	Catalog  domcat.Catalog
	Warnings []string
	BuiltAt  time.Time
}

// Service assembles catalogs and holds the current one. Catalogs are
// rebuilt, never mutated; concurrent readers always see a complete build.
type Service struct {
	sources   []rules.Source
	snapshots SnapshotStore
	logger    *zap.Logger

	// session tags each build; a build whose token is no longer the latest
	// by the time it finishes is discarded instead of installed, so a stale
	// in-flight rebuild never overwrites a newer one.
	session atomic.Uint64
	current atomic.Pointer[Build]
}

// New creates a catalog service over the given sources.
func New(sources []rules.Source, logger *zap.Logger) *Service {
	return &Service{sources: sources, logger: logger}
}

// WithSnapshots enables the catalog snapshot cache.
func (s *Service) WithSnapshots(store SnapshotStore) *Service {
	s.snapshots = store
	return s
}

// Current returns the installed build. ok is false before the first Rebuild.
func (s *Service) Current() (Build, bool) {
	b := s.current.Load()
	if b == nil {
		return Build{}, false
	}
	return *b, true
}

// Catalog returns just the installed catalog, for consumers that do not
// care about build warnings.
func (s *Service) Catalog() (domcat.Catalog, bool) {
	b, ok := s.Current()
	return b.Catalog, ok
}

// Rebuild fetches all sources and installs the resulting catalog unless a
// newer rebuild started in the meantime. It never fails: bad sources are
// skipped with warnings and total failure falls back to the snapshot cache
// and then to the embedded defaults.
func (s *Service) Rebuild(ctx context.Context) Build {
	token := s.session.Add(1)

	build := s.assemble(ctx)

	if s.session.Load() != token {
		s.logger.Info("discarding superseded catalog build",
			zap.Uint64("token", token),
			zap.Uint64("latest", s.session.Load()),
		)
		return build
	}
	s.current.Store(&build)

	if s.snapshots != nil && build.Catalog.Len() > 0 {
		snap := rules.Snapshot{Records: build.Catalog.Records(), BuiltAt: build.BuiltAt}
		if err := s.snapshots.Save(ctx, snap); err != nil {
			s.logger.Warn("failed to cache catalog snapshot", zap.Error(err))
		}
	}

	s.logger.Info("catalog installed",
		zap.Int("records", build.Catalog.Len()),
		zap.Strings("modalities", build.Catalog.Modalities()),
		zap.Int("warnings", len(build.Warnings)),
	)
	return build
}

type fetchOutcome struct {
	docs []rules.Document
	err  error
}

// assemble runs the source fan-out and merge. Results are collected per
// source index, so merge order (and therefore last-wins resolution) follows
// the configured source order regardless of fetch completion order.
func (s *Service) assemble(ctx context.Context) Build {
	outcomes := make([]fetchOutcome, len(s.sources))

	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src rules.Source) {
			defer wg.Done()
			docs, err := src.Fetch(ctx)
			outcomes[i] = fetchOutcome{docs: docs, err: err}
		}(i, src)
	}
	wg.Wait()

	var (
		warnings  []string
		records   []rule.Record
		summaries = make(map[string]domcat.Summary)
		failed    int
	)

	for i, src := range s.sources {
		out := outcomes[i]
		if out.err != nil {
			failed++
			warnings = append(warnings, fmt.Sprintf("source %s: %v", src.Name(), out.err))
			metrics.SourceFailuresTotal.WithLabelValues(src.Name()).Inc()
			continue
		}

		sourceYielded := false
		for _, doc := range out.docs {
			parsed, err := rules.Decode(doc.Data)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("source %s: invalid JSON: %v", doc.Name, err))
				continue
			}
			if err := rules.CheckShape(parsed, doc.ModalityHint); err != nil {
				warnings = append(warnings, fmt.Sprintf("source %s: %v", doc.Name, err))
				continue
			}
			norm := rules.Normalize(parsed, doc.ModalityHint)
			records = append(records, norm.Records...)
			mergeSummaries(summaries, norm.Summaries)
			sourceYielded = true
		}
		if !sourceYielded && len(out.docs) > 0 {
			failed++
		}
	}

	build := Build{BuiltAt: time.Now().UTC()}

	switch {
	case len(s.sources) == 0:
		warnings = append(warnings, "no rule sources configured; using embedded defaults")
		build.Catalog = fallbackCatalog()
		metrics.CatalogBuildsTotal.WithLabelValues("fallback").Inc()

	case failed == len(s.sources):
		build.Catalog = s.recover(ctx, &warnings)
		metrics.CatalogBuildsTotal.WithLabelValues("fallback").Inc()

	default:
		build.Catalog = domcat.New(records, summaries)
		if build.Catalog.Len() == 0 && len(summaries) == 0 {
			warnings = append(warnings, "sources yielded no rules; using embedded defaults")
			build.Catalog = fallbackCatalog()
			metrics.CatalogBuildsTotal.WithLabelValues("fallback").Inc()
		} else {
			metrics.CatalogBuildsTotal.WithLabelValues("ok").Inc()
		}
	}

	build.Warnings = warnings
	return build
}

// recover is the total-failure path: last cached snapshot first, embedded
// defaults second.
func (s *Service) recover(ctx context.Context, warnings *[]string) domcat.Catalog {
	if s.snapshots != nil {
		snap, err := s.snapshots.Load(ctx)
		if err == nil && len(snap.Records) > 0 {
			s.logger.Warn("all rule sources failed; serving cached catalog snapshot",
				zap.Time("built_at", snap.BuiltAt))
			return domcat.New(snap.Records, snap.Summaries)
		}
	}
	s.logger.Warn("all rule sources failed; serving embedded default catalog",
		zap.Int("sources", len(s.sources)), zap.Int("warnings", len(*warnings)))
	return fallbackCatalog()
}

func mergeSummaries(dst map[string]domcat.Summary, src map[string]domcat.Summary) {
	for label, s := range src {
		existing := dst[label]
		existing.Regions = append(existing.Regions, s.Regions...)
		existing.Contexts = append(existing.Contexts, s.Contexts...)
		existing.Conditions = append(existing.Conditions, s.Conditions...)
		dst[label] = existing
	}
}
