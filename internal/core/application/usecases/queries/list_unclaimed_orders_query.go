package queries

import (
	"context"
	"errors"

	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

const (
	DefaultUnclaimedLimit = 50
	MaxUnclaimedLimit     = 200
)

var ErrListUnclaimedOrdersQueryIsNotConstructed = errors.New(
	"ListUnclaimedOrdersQuery must be created via NewListUnclaimedOrdersQuery constructor",
)

// ListUnclaimedOrdersQuery asks for the oldest Pending orders without a courier.
//
// Example:
//
//	query, _ := NewListUnclaimedOrdersQuery(0) // default limit
//	orders, err := handler.Handle(ctx, query)
type ListUnclaimedOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewListUnclaimedOrdersQuery uses DefaultUnclaimedLimit when limit is zero.
func NewListUnclaimedOrdersQuery(limit int) (ListUnclaimedOrdersQuery, error) {
	if limit == 0 {
		limit = DefaultUnclaimedLimit
	}
	if limit < 1 || limit > MaxUnclaimedLimit {
		return ListUnclaimedOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxUnclaimedLimit)
	}
	return ListUnclaimedOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListUnclaimedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListUnclaimedOrdersQueryIsNotConstructed)
}

func (q ListUnclaimedOrdersQuery) Limit() int {
	return q.limit
}

type ListUnclaimedOrdersQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListUnclaimedOrdersQueryHandler(uowFactory ports.UnitOfWorkFactory) ListUnclaimedOrdersQueryHandler {
	return ListUnclaimedOrdersQueryHandler{uowFactory: uowFactory}
}

// Handle returns a best-effort snapshot, oldest first.
func (h ListUnclaimedOrdersQueryHandler) Handle(ctx context.Context, q ListUnclaimedOrdersQuery) ([]OrderView, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.uowFactory.Create().OrderRepository().ListUnclaimed(ctx, q.Limit())
	if err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	return views, nil
}
