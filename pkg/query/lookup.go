package query

import (
	"context"

	"storefilter/pkg/catalog"
)

// AttributeLookup maps a term slug to its owning attribute taxonomy. It
// replaces the per-value scan over all registered taxonomies with a table
// built once from the catalog's taxonomy listing. A slug appearing in
// multiple taxonomies keeps its first (alphabetical) owner.
type AttributeLookup struct {
	owner map[string]string
}

// BuildAttributeLookup lists every attribute taxonomy and indexes its term
// slugs.
func BuildAttributeLookup(ctx context.Context, src catalog.TermSource) (*AttributeLookup, error) {
	taxonomies, err := src.Taxonomies(ctx)
	if err != nil {
		return nil, err
	}
	owner := map[string]string{}
	for _, taxonomy := range taxonomies {
		terms, err := src.Terms(ctx, taxonomy)
		if err != nil {
			return nil, err
		}
		for _, term := range terms {
			if _, seen := owner[term.Slug]; !seen {
				owner[term.Slug] = taxonomy
			}
		}
	}
	return &AttributeLookup{owner: owner}, nil
}

// Owner returns the taxonomy owning the slug, if any.
func (l *AttributeLookup) Owner(slug string) (string, bool) {
	taxonomy, ok := l.owner[slug]
	return taxonomy, ok
}

// Assign folds unscoped term slugs into the attributes map under their
// owning taxonomies. Unknown slugs are dropped.
func (l *AttributeLookup) Assign(attributes map[string][]string, unscoped []string) map[string][]string {
	if len(unscoped) == 0 {
		return attributes
	}
	if attributes == nil {
		attributes = map[string][]string{}
	}
	for _, slug := range unscoped {
		if taxonomy, ok := l.owner[slug]; ok {
			attributes[taxonomy] = append(attributes[taxonomy], slug)
		}
	}
	return attributes
}
