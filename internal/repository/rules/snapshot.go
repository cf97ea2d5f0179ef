package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oradigit/orderhelper/internal/domain/catalog"
	"github.com/oradigit/orderhelper/internal/domain/rule"
)

// Snapshot is the serializable form of a built catalog: the merged records
// plus any source-level summaries. Rebuilding a Catalog from a snapshot goes
// through catalog.New, so derived summaries stay consistent.
type Snapshot struct {
	Records   []rule.Record              `json:"records"`
	Summaries map[string]catalog.Summary `json:"summaries,omitempty"`
	BuiltAt   time.Time                  `json:"built_at"`
}

// kvStore is the consumer interface over the key-value store (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// SnapshotStore persists the last good catalog so restarts and full source
// outages can fall back to it before resorting to the embedded defaults.
type SnapshotStore struct {
	store kvStore
	key   string
	ttl   time.Duration
}

// NewSnapshotStore creates a snapshot store writing under the given key.
func NewSnapshotStore(store kvStore, key string, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{store: store, key: key, ttl: ttl}
}

// Save serializes and stores the snapshot.
func (s *SnapshotStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.store.SetWithTTL(ctx, s.key, data, s.ttl); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Load retrieves and decodes the last stored snapshot.
func (s *SnapshotStore) Load(ctx context.Context) (Snapshot, error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
