package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/location"
	"fooddelivery/internal/core/domain/model/message"
	"fooddelivery/internal/core/domain/model/rating"
)

// RatingRepository stores at most one rating per order.
type RatingRepository interface {
	// Add inserts the rating if none exists for its order; otherwise it returns
	// errs.ConflictError.
	Add(ctx context.Context, r *rating.Rating) error

	// Get returns errs.ObjectNotFoundError when the order has no rating.
	Get(ctx context.Context, orderID kernel.UUID) (*rating.Rating, error)

	Exists(ctx context.Context, orderID kernel.UUID) (bool, error)
}

// MessageRepository stores chat messages, indexed by order.
type MessageRepository interface {
	Add(ctx context.Context, m *message.Message) error

	// ListByOrder returns up to limit messages of the order ordered by sentAt.
	ListByOrder(ctx context.Context, orderID kernel.UUID, limit int) ([]*message.Message, error)
}

// LocationRepository keeps the most recent sample per (subject, scope).
type LocationRepository interface {
	// Save stores s unless a newer sample for the same subject and scope exists.
	// It reports whether s was stored.
	Save(ctx context.Context, s *location.Sample) (bool, error)

	// Get returns errs.ObjectNotFoundError when nothing was reported yet.
	Get(ctx context.Context, subjectID kernel.UUID, scope location.Scope) (*location.Sample, error)

	// PurgeInactiveOrderScopes deletes order-scoped samples whose order is terminal
	// or no longer exists, and returns how many were removed.
	PurgeInactiveOrderScopes(ctx context.Context) (int64, error)
}

// OutboxMessage is a domain event serialized for the bus.
type OutboxMessage struct {
	ID          kernel.UUID
	Type        string
	AggregateID kernel.UUID
	Payload     []byte
	OccurredAt  time.Time
}

// OutboxRepository reads events recorded by committed transactions. Events are
// appended by the unit of work itself on commit.
type OutboxRepository interface {
	// Pending returns up to limit unpublished messages in the order they occurred.
	// Within a transaction the rows stay locked to the caller.
	Pending(ctx context.Context, limit int) ([]OutboxMessage, error)

	MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error
}
