// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items live in their own table and are loaded with the order.
type OrderDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClientID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CourierID    *uuid.UUID      `gorm:"type:uuid;index"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null"`
	Status       int             `gorm:"not null;index"`
	Total        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Address      AddressDTO      `gorm:"embedded;embeddedPrefix:address_"`
	CreatedAt    time.Time       `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt    time.Time       `gorm:"not null;autoUpdateTime:false"`
	Version      int64           `gorm:"not null"`
	Items        []LineItemDTO   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO is the delivery address embedded in the orders table.
type AddressDTO struct {
	DistrictID   uuid.UUID `gorm:"type:uuid"`
	Neighborhood string
	Street       string
}

// LineItemDTO is one row of order_items. Position keeps the items in the order
// the client listed them.
type LineItemDTO struct {
	OrderID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position     int             `gorm:"primaryKey"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity     int             `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (LineItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order aggregate to its database representation.
// Version is copied as is; the repository decides what goes to the store.
func fromDomain(o *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := o.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	return OrderDTO{
		ID:           o.ID().Bytes(),
		ClientID:     o.ClientID().Bytes(),
		CourierID:    courierID,
		RestaurantID: o.RestaurantID().Bytes(),
		Status:       int(o.Status()),
		Total:        o.Total(),
		Address: AddressDTO{
			DistrictID:   o.Address().DistrictID().Bytes(),
			Neighborhood: o.Address().Neighborhood(),
			Street:       o.Address().Street(),
		},
		CreatedAt: o.CreatedAt(),
		UpdatedAt: o.UpdatedAt(),
		Version:   o.Version(),
		Items:     itemsFromDomain(o.ID(), o.Items()),
	}
}

func itemsFromDomain(orderID kernel.UUID, items []order.LineItem) []LineItemDTO {
	dtos := make([]LineItemDTO, 0, len(items))
	for i, item := range items {
		dtos = append(dtos, LineItemDTO{
			OrderID:      orderID.Bytes(),
			Position:     i,
			ProductID:    item.ProductID().Bytes(),
			RestaurantID: item.RestaurantID().Bytes(),
			Quantity:     item.Quantity(),
			UnitPrice:    item.UnitPrice(),
		})
	}
	return dtos
}

// toDomain rebuilds the aggregate with RestoreOrder. Items must be sorted by Position.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	districtID, err := kernel.UUIDFromBytes(dto.Address.DistrictID[:])
	if err != nil {
		return nil, err
	}
	address, err := kernel.NewAddress(districtID, dto.Address.Neighborhood, dto.Address.Street)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id, clientID, courierID, order.Status(dto.Status), address, items,
		dto.CreatedAt, dto.UpdatedAt, dto.Version,
	)
}

func itemToDomain(dto LineItemDTO) (order.LineItem, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.LineItem{}, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return order.LineItem{}, err
	}
	return order.NewLineItem(productID, restaurantID, dto.Quantity, dto.UnitPrice)
}
