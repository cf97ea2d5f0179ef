package health

import (
	"context"

	domcat "github.com/oradigit/orderhelper/internal/domain/catalog"
)

// StorePinger checks rule store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// CompletionChecker checks completion provider availability.
type CompletionChecker interface {
	HealthCheck(ctx context.Context) error
}

// CatalogProvider reports whether a catalog is installed.
type CatalogProvider interface {
	Catalog() (domcat.Catalog, bool)
}
