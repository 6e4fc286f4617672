// Package catalog is the boundary to the external product catalog store.
// The filter engine only ever reads from it.
package catalog

import (
	"context"

	"storefilter/pkg/types"
)

// QueryResult is the raw outcome of one catalog query.
type QueryResult struct {
	Items      []types.Product
	TotalFound int
	TotalPages int
}

// Executor runs compiled predicates against the catalog store.
type Executor interface {
	Query(ctx context.Context, p *types.Predicate, sort types.SortSpec, page, pageSize int) (*QueryResult, error)
	Count(ctx context.Context, p *types.Predicate) (int, error)
}

// Term is one selectable value within a taxonomy.
type Term struct {
	Slug  string
	Label string
}

// TermSource lists the catalog's taxonomies and their terms. Used to build
// the attribute lookup table, resolve enumerated dimension ranges and
// pre-fill range controls.
type TermSource interface {
	Taxonomies(ctx context.Context) ([]string, error)
	Terms(ctx context.Context, taxonomy string) ([]Term, error)
	TermLabels(ctx context.Context, taxonomy string) ([]string, error)
}

// PriceSource exposes the catalog-wide price bounds for filter controls.
type PriceSource interface {
	PriceRange(ctx context.Context) (types.Bounds, error)
}
