package catalog

import (
	"context"

	"github.com/oradigit/orderhelper/internal/repository/rules"
)

// SnapshotStore persists the last good catalog between builds.
type SnapshotStore interface {
	Save(ctx context.Context, snap rules.Snapshot) error
	Load(ctx context.Context) (rules.Snapshot, error)
}
