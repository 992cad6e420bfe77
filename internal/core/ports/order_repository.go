// Package ports defines the contracts between the coordinator core and its
// adapters: storage, catalog, event bus and live feed.
package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// All writes are conditional. A write whose precondition no longer holds when it
// reaches the store returns errs.ConflictError and changes nothing. On success the
// repository bumps the aggregate's version.
type OrderRepository interface {
	// Add inserts a new order. It fails with ConflictError when the client already
	// has an order in Pending or EnRoute; the check and the insert are atomic.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the aggregate only if the stored version still equals
	// aggregate.Version().
	Update(ctx context.Context, aggregate *order.Order) error

	// Delete removes the order only if the stored version still equals
	// aggregate.Version() and it is still Pending and unclaimed.
	Delete(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ObjectNotFoundError for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// HasActiveOrder reports whether the client has an order in Pending or EnRoute.
	HasActiveOrder(ctx context.Context, clientID kernel.UUID) (bool, error)

	// ListUnclaimed returns up to limit Pending, unclaimed orders, oldest first.
	// The result is a snapshot; a listed order may be claimed by the time it is used.
	ListUnclaimed(ctx context.Context, limit int) ([]*order.Order, error)
}
