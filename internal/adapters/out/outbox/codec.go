// Package outbox converts domain events into the messages stored in the
// transactional outbox and relayed to the event bus.
package outbox

import (
	"encoding/json"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// OrderEventPayload is the wire form of an order event.
type OrderEventPayload struct {
	EventID    string    `json:"eventId"`
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	ClientID   string    `json:"clientId"`
	CourierID  *string   `json:"courierId,omitempty"`
	Status     string    `json:"status"`
	Total      string    `json:"total"`
	OccurredAt time.Time `json:"occurredAt"`
}

// FromOrderEvent serializes e into an outbox message keyed by the order.
func FromOrderEvent(e order.Event) (ports.OutboxMessage, error) {
	payload := OrderEventPayload{
		EventID:    e.ID.String(),
		Type:       string(e.Type),
		OrderID:    e.OrderID.String(),
		ClientID:   e.ClientID.String(),
		Status:     e.Status.String(),
		Total:      e.Total.StringFixed(2),
		OccurredAt: e.OccurredAt,
	}
	if e.CourierID != nil {
		courier := e.CourierID.String()
		payload.CourierID = &courier
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	return ports.OutboxMessage{
		ID:          e.ID,
		Type:        string(e.Type),
		AggregateID: e.OrderID,
		Payload:     raw,
		OccurredAt:  e.OccurredAt,
	}, nil
}

// EventSource is implemented by aggregates that record domain events.
type EventSource interface {
	DomainEvents() []order.Event
	ClearDomainEvents()
}

// Drain serializes and clears the events of every source, preserving order.
func Drain(sources ...EventSource) ([]ports.OutboxMessage, error) {
	var messages []ports.OutboxMessage
	for _, src := range sources {
		for _, e := range src.DomainEvents() {
			msg, err := FromOrderEvent(e)
			if err != nil {
				return nil, err
			}
			messages = append(messages, msg)
		}
	}
	for _, src := range sources {
		src.ClearDomainEvents()
	}
	return messages, nil
}
