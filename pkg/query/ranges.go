package query

import (
	"context"

	"storefilter/pkg/catalog"
	"storefilter/pkg/types"
)

// FallbackBounds is returned when a taxonomy holds no parsable numeric
// labels. The filter UI must always have usable bounds to render.
var FallbackBounds = types.Bounds{Min: 0, Max: 100}

// ResolveBounds finds the numeric min/max actually present among a
// taxonomy's term labels. Labels accept both "." and "," as decimal
// separator; unparsable and non-positive values are discarded. Read-only,
// no caching here.
func ResolveBounds(ctx context.Context, src catalog.TermSource, taxonomy string) (types.Bounds, error) {
	labels, err := src.TermLabels(ctx, taxonomy)
	if err != nil {
		return FallbackBounds, err
	}
	found := false
	bounds := types.Bounds{}
	for _, label := range labels {
		v, ok := types.ParseNumericLabel(label)
		if !ok {
			continue
		}
		if !found {
			bounds = types.Bounds{Min: v, Max: v}
			found = true
			continue
		}
		bounds.Min = min(bounds.Min, v)
		bounds.Max = max(bounds.Max, v)
	}
	if !found {
		return FallbackBounds, nil
	}
	return bounds, nil
}

// ResolveTermsInRange collects the slugs of every term whose parsed numeric
// label falls within r, treating a missing bound as unbounded. The result
// may be empty; an empty set compiles to a clause that matches nothing.
func ResolveTermsInRange(ctx context.Context, src catalog.TermSource, taxonomy string, r types.Range) ([]string, error) {
	terms, err := src.Terms(ctx, taxonomy)
	if err != nil {
		return nil, err
	}
	r.Normalize()
	matched := make([]string, 0, len(terms))
	for _, term := range terms {
		v, ok := types.ParseNumericLabel(term.Label)
		if !ok {
			continue
		}
		if r.Contains(v) {
			matched = append(matched, term.Slug)
		}
	}
	return matched, nil
}
