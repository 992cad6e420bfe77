package order

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// EventType names a domain event; the value doubles as the message type on the bus.
type EventType string

const (
	EventCreated       EventType = "order.created"
	EventClaimed       EventType = "order.claimed"
	EventStatusChanged EventType = "order.status_changed"
	EventCancelled     EventType = "order.cancelled"
	EventEdited        EventType = "order.edited"
	EventDeleted       EventType = "order.deleted"
)

// Event is a snapshot of the order taken right after a change.
type Event struct {
	ID         kernel.UUID
	Type       EventType
	OrderID    kernel.UUID
	ClientID   kernel.UUID
	CourierID  *kernel.UUID
	Status     Status
	Total      decimal.Decimal
	OccurredAt time.Time
}
