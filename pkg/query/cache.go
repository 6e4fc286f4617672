package query

import (
	"context"
	"sync"

	"storefilter/pkg/catalog"
	"storefilter/pkg/types"
)

// BoundsCache memoizes resolved dimension bounds until the catalog changes.
// Invalidation is driven by the messaging listener.
type BoundsCache struct {
	mu     sync.RWMutex
	src    catalog.TermSource
	bounds map[string]types.Bounds
}

func NewBoundsCache(src catalog.TermSource) *BoundsCache {
	return &BoundsCache{src: src, bounds: map[string]types.Bounds{}}
}

func (c *BoundsCache) Resolve(ctx context.Context, taxonomy string) (types.Bounds, error) {
	c.mu.RLock()
	cached, ok := c.bounds[taxonomy]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}
	bounds, err := ResolveBounds(ctx, c.src, taxonomy)
	if err != nil {
		return bounds, err
	}
	c.mu.Lock()
	c.bounds[taxonomy] = bounds
	c.mu.Unlock()
	return bounds, nil
}

func (c *BoundsCache) Invalidate() {
	c.mu.Lock()
	c.bounds = map[string]types.Bounds{}
	c.mu.Unlock()
}

// LookupCache keeps the attribute lookup table fresh across requests,
// rebuilding it lazily after invalidation.
type LookupCache struct {
	mu     sync.Mutex
	src    catalog.TermSource
	lookup *AttributeLookup
}

func NewLookupCache(src catalog.TermSource) *LookupCache {
	return &LookupCache{src: src}
}

func (c *LookupCache) Get(ctx context.Context) (*AttributeLookup, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lookup != nil {
		return c.lookup, nil
	}
	lookup, err := BuildAttributeLookup(ctx, c.src)
	if err != nil {
		return nil, err
	}
	c.lookup = lookup
	return lookup, nil
}

func (c *LookupCache) Invalidate() {
	c.mu.Lock()
	c.lookup = nil
	c.mu.Unlock()
}
