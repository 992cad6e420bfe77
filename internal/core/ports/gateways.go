package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/kernel"
)

// CatalogLookup resolves products to their restaurant and current price.
type CatalogLookup interface {
	// Products returns the products found among ids. Unknown ids are absent from
	// the map; that is not an error.
	Products(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]catalog.Product, error)
}

// EventPublisher delivers outbox messages to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, msg OutboxMessage) error
}

// LiveEventType names what happened on an order's live feed.
type LiveEventType string

const (
	LiveMessage  LiveEventType = "message"
	LiveLocation LiveEventType = "location"
	LiveStatus   LiveEventType = "status"
)

// LiveEvent is pushed to the participants watching an order.
type LiveEvent struct {
	Type    LiveEventType `json:"type"`
	OrderID string        `json:"orderId"`
	Payload any           `json:"payload"`
}

// LiveNotifier fans live events out to subscribers. Notify must not block on
// slow subscribers.
type LiveNotifier interface {
	Notify(orderID kernel.UUID, event LiveEvent)
}
