package query

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"storefilter/pkg/catalog"
	"storefilter/pkg/logging"
	"storefilter/pkg/types"
)

// DefaultFacetConcurrency bounds the count fan-out so it cannot overwhelm
// the catalog store.
const DefaultFacetConcurrency = 8

// FacetCounter computes, for every candidate facet value, the product count
// that would result if that one value were toggled off from the current
// criteria. Each value costs one read-only count query; they run
// concurrently up to Concurrency in flight.
type FacetCounter struct {
	Exec        catalog.Executor
	Compiler    *Compiler
	Concurrency int64
}

// CountsExcluding walks the facet universe (taxonomy -> candidate terms)
// and fills in per-term alternate counts. A failed sub-query only omits
// that term's count; the rest of the snapshot survives.
func (f *FacetCounter) CountsExcluding(ctx context.Context, criteria *types.Criteria, universe map[string][]string) (types.FacetCounts, error) {
	limit := f.Concurrency
	if limit < 1 {
		limit = DefaultFacetConcurrency
	}
	sem := semaphore.NewWeighted(limit)
	log := logging.FromCtx(ctx)

	counts := types.FacetCounts{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for taxonomy, terms := range universe {
		for _, term := range terms {
			if err := sem.Acquire(ctx, 1); err != nil {
				// context gone, return what we have so far
				wg.Wait()
				return counts, err
			}
			wg.Add(1)
			go func(taxonomy, term string) {
				defer wg.Done()
				defer sem.Release(1)
				reduced := criteria.WithoutTerm(taxonomy, term, f.Compiler.CategoryTaxonomy)
				predicate, err := f.Compiler.Compile(ctx, reduced)
				if err != nil {
					log.Debug("facet count compile failed",
						zap.String("taxonomy", taxonomy), zap.String("term", term), zap.Error(err))
					return
				}
				count, err := f.Exec.Count(ctx, predicate)
				if err != nil {
					log.Debug("facet count query failed",
						zap.String("taxonomy", taxonomy), zap.String("term", term), zap.Error(err))
					return
				}
				mu.Lock()
				counts.Set(taxonomy, term, count)
				mu.Unlock()
			}(taxonomy, term)
		}
	}
	wg.Wait()
	return counts, nil
}
