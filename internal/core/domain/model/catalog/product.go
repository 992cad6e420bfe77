// Package catalog describes the read-only view of menu products the coordinator
// needs to price orders.
package catalog

import (
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Product is a priced menu item sold by one restaurant.
type Product struct {
	ID           kernel.UUID
	RestaurantID kernel.UUID
	Price        decimal.Decimal
}
