package queries

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderView is the read model of an order.
type OrderView struct {
	ID           kernel.UUID
	ClientID     kernel.UUID
	CourierID    *kernel.UUID
	RestaurantID kernel.UUID
	Status       order.Status
	Items        []LineItemView
	Total        decimal.Decimal
	Address      kernel.Address
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type LineItemView struct {
	ProductID kernel.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// NewOrderView flattens an order aggregate for presentation.
func NewOrderView(o *order.Order) OrderView {
	items := o.Items()
	views := make([]LineItemView, 0, len(items))
	for _, item := range items {
		views = append(views, LineItemView{
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}

	return OrderView{
		ID:           o.ID(),
		ClientID:     o.ClientID(),
		CourierID:    o.Courier(),
		RestaurantID: o.RestaurantID(),
		Status:       o.Status(),
		Items:        views,
		Total:        o.Total(),
		Address:      o.Address(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}
}
