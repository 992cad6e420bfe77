// Package catalogrepo reads product prices from the catalog tables. The catalog
// is owned by another service; this package never writes to it.
package catalogrepo

import (
	"context"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

// Products returns the known products among ids. Unknown ids are simply absent
// from the result.
func (c *GormCatalog) Products(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]catalog.Product, error) {
	products := make(map[kernel.UUID]catalog.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []ProductDTO
	if err := c.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
		if err != nil {
			return nil, err
		}
		products[id] = catalog.Product{ID: id, RestaurantID: restaurantID, Price: dto.Price}
	}
	return products, nil
}
