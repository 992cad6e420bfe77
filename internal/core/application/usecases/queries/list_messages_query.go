package queries

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/message"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

const MaxMessagesLimit = 500

var ErrListMessagesQueryIsNotConstructed = errors.New(
	"ListMessagesQuery must be created via NewListMessagesQuery constructor",
)

type ListMessagesQuery struct {
	orderID kernel.UUID
	actorID kernel.UUID
	limit   int

	guard guard.ConstructorGuard
}

// NewListMessagesQuery uses MaxMessagesLimit when limit is zero.
func NewListMessagesQuery(orderID, actorID kernel.UUID, limit int) (ListMessagesQuery, error) {
	if limit == 0 {
		limit = MaxMessagesLimit
	}
	var limitErr error
	if limit < 1 || limit > MaxMessagesLimit {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxMessagesLimit)
	}
	if err := errors.Join(orderID.Validate(), actorID.Validate(), limitErr); err != nil {
		return ListMessagesQuery{}, err
	}
	return ListMessagesQuery{orderID: orderID, actorID: actorID, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListMessagesQuery) Validate() error {
	return q.guard.Validate(ErrListMessagesQueryIsNotConstructed)
}

// ListMessagesQueryHandler returns the chat history to the order's participants.
type ListMessagesQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	gate       services.Gate
}

func NewListMessagesQueryHandler(uowFactory ports.UnitOfWorkFactory, gate services.Gate) ListMessagesQueryHandler {
	return ListMessagesQueryHandler{uowFactory: uowFactory, gate: gate}
}

func (h ListMessagesQueryHandler) Handle(ctx context.Context, q ListMessagesQuery) ([]*message.Message, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()

	o, err := uow.OrderRepository().Get(ctx, q.orderID)
	if err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	// participants are exactly those allowed to watch the order's location
	if !h.gate.CanViewOrderLocation(o, q.actorID) {
		return nil, errs.NewActionIsForbiddenError(q.actorID, "read messages of order "+o.ID().String())
	}

	messages, err := uow.MessageRepository().ListByOrder(ctx, o.ID(), q.limit)
	if err != nil {
		return nil, errs.FromContext(ctx, err)
	}
	return messages, nil
}
