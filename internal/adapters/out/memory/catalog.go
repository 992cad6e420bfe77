package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Catalog is a fixed product list used in tests and memory mode.
type Catalog struct {
	mu       sync.RWMutex
	products map[kernel.UUID]catalog.Product
}

func NewCatalog(products ...catalog.Product) *Catalog {
	c := &Catalog{products: make(map[kernel.UUID]catalog.Product, len(products))}
	c.Put(products...)
	return c
}

func (c *Catalog) Put(products ...catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range products {
		c.products[p.ID] = p
	}
}

func (c *Catalog) Products(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]catalog.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	found := make(map[kernel.UUID]catalog.Product, len(ids))
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

type productRecord struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurantId"`
	Price        decimal.Decimal `json:"price"`
}

// ReadCatalog decodes a JSON array of {"id", "restaurantId", "price"} objects.
func ReadCatalog(r io.Reader) (*Catalog, error) {
	var records []productRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("catalog", err)
	}

	products := make([]catalog.Product, 0, len(records))
	for i, rec := range records {
		id, err := kernel.UUIDFromString(rec.ID)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("catalog[%d].id", i), err)
		}
		restaurant, err := kernel.UUIDFromString(rec.RestaurantID)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("catalog[%d].restaurantId", i), err)
		}
		if rec.Price.IsNegative() {
			return nil, errs.NewValueIsOutOfRangeError(fmt.Sprintf("catalog[%d].price", i), rec.Price, 0, "any")
		}
		products = append(products, catalog.Product{ID: id, RestaurantID: restaurant, Price: rec.Price})
	}
	return NewCatalog(products...), nil
}

// LoadCatalogFile reads a catalog written in the ReadCatalog format.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return ReadCatalog(f)
}
