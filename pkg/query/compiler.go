// Package query turns filter criteria into catalog predicates and drives
// their execution: compilation, pagination and facet counting.
package query

import (
	"context"
	"slices"

	"storefilter/pkg/catalog"
	"storefilter/pkg/types"
)

// Compiler translates criteria into the catalog store's predicate shape.
// Clause order and conjunction are a hard contract:
// visibility AND category AND facet1 AND ... AND price AND dimensions,
// with OR only inside one facet's term set.
type Compiler struct {
	CategoryTaxonomy string
	PriceField       string
	Dimensions       map[string]types.DimensionConfig
	Terms            catalog.TermSource
}

func NewCompiler(categoryTaxonomy string, dims []types.DimensionConfig, terms catalog.TermSource) *Compiler {
	byName := make(map[string]types.DimensionConfig, len(dims))
	for _, d := range dims {
		byName[d.Name] = d
	}
	return &Compiler{
		CategoryTaxonomy: categoryTaxonomy,
		PriceField:       "_price",
		Dimensions:       byName,
		Terms:            terms,
	}
}

func (c *Compiler) Compile(ctx context.Context, criteria *types.Criteria) (*types.Predicate, error) {
	p := types.NewPredicate()

	if criteria.Category != "" {
		p.Taxonomy = append(p.Taxonomy, types.TaxonomyClause{
			Taxonomy: c.CategoryTaxonomy,
			Field:    types.MatchSlug,
			Terms:    []string{criteria.Category},
		})
	}

	for _, taxonomy := range sortedKeys(criteria.Attributes) {
		terms := criteria.Attributes[taxonomy]
		if len(terms) == 0 {
			continue
		}
		p.Taxonomy = append(p.Taxonomy, types.TaxonomyClause{
			Taxonomy: taxonomy,
			Field:    types.MatchSlug,
			Terms:    slices.Clone(terms),
		})
	}

	if clause, ok := types.NumericClauseFor(c.PriceField, criteria.Price); ok {
		p.Numeric = append(p.Numeric, clause)
	}

	for _, name := range sortedKeys(criteria.Dimensions) {
		dim := criteria.Dimensions[name]
		if !dim.Enabled || dim.Empty() {
			continue
		}
		cfg, ok := c.Dimensions[name]
		if !ok {
			continue
		}
		if err := c.compileDimension(ctx, p, cfg, dim.Range); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// compileDimension emits either a numeric comparison (meta backing) or a
// taxonomy IN clause over the terms whose numeric label falls inside the
// range (enumerated backing). The backing is config-selected, never
// inferred from the value.
func (c *Compiler) compileDimension(ctx context.Context, p *types.Predicate, cfg types.DimensionConfig, r types.Range) error {
	switch cfg.Backing {
	case types.BackingEnumeratedTerms:
		terms, err := ResolveTermsInRange(ctx, c.Terms, cfg.Taxonomy, r)
		if err != nil {
			return err
		}
		p.Taxonomy = append(p.Taxonomy, types.TaxonomyClause{
			Taxonomy: cfg.Taxonomy,
			Field:    types.MatchSlug,
			Terms:    terms,
		})
	default:
		if clause, ok := types.NumericClauseFor(cfg.MetaField, r); ok {
			p.Numeric = append(p.Numeric, clause)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
