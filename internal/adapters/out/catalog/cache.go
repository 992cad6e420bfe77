// Package catalog decorates a ports.CatalogLookup with a bounded, expiring cache.
//
// Prices are captured into an order when it is created or edited, so a cached
// price that is a few minutes stale only affects orders placed in that window.
package catalog

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var _ ports.CatalogLookup = (*CachedLookup)(nil)

// CachedLookup serves products from an LRU and asks the next lookup only for misses.
// Unknown products are not cached.
type CachedLookup struct {
	next  ports.CatalogLookup
	cache *expirable.LRU[kernel.UUID, catalog.Product]
}

func NewCachedLookup(next ports.CatalogLookup, size int, ttl time.Duration) *CachedLookup {
	return &CachedLookup{
		next:  next,
		cache: expirable.NewLRU[kernel.UUID, catalog.Product](size, nil, ttl),
	}
}

func (c *CachedLookup) Products(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]catalog.Product, error) {
	found := make(map[kernel.UUID]catalog.Product, len(ids))
	var misses []kernel.UUID
	for _, id := range ids {
		if p, ok := c.cache.Get(id); ok {
			found[id] = p
			continue
		}
		misses = append(misses, id)
	}

	if len(misses) == 0 {
		return found, nil
	}

	fetched, err := c.next.Products(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, p := range fetched {
		c.cache.Add(id, p)
		found[id] = p
	}
	return found, nil
}

// Purge drops every cached product.
func (c *CachedLookup) Purge() {
	c.cache.Purge()
}
