package suggest

import (
	domcat "github.com/oradigit/orderhelper/internal/domain/catalog"
	dommatch "github.com/oradigit/orderhelper/internal/domain/match"
	"github.com/oradigit/orderhelper/internal/domain/query"
	"github.com/oradigit/orderhelper/internal/domain/rule"
)

// catalogProvider hands out the currently installed catalog.
type catalogProvider interface {
	Catalog() (domcat.Catalog, bool)
}

// matcher ranks records and resolves the best one for a query.
type matcher interface {
	Rank(cat domcat.Catalog, q query.Query) []dommatch.Result
	Best(cat domcat.Catalog, q query.Query) (dommatch.Result, error)
	InferModality(cat domcat.Catalog, q query.Query) (string, bool)
	SearchRules(cat domcat.Catalog, modality, term string) []rule.Record
}
