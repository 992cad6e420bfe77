package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/rating"
	"fooddelivery/internal/pkg/errs"
)

// RateOrderCommandHandler stores the client's rating of a delivered order.
//
// Errors:
//   - errs.ObjectNotFoundError when the order does not exist
//   - errs.ActionIsForbiddenError when the actor is not the client
//   - errs.TransitionIsInvalidError when the order is not Delivered
//   - errs.ConflictError when a rating already exists; the insert is atomic
type RateOrderCommandHandler struct {
	uowFactory RatingUoWFactory
}

func NewRateOrderCommandHandler(uowFactory RatingUoWFactory) RateOrderCommandHandler {
	return RateOrderCommandHandler{uowFactory: uowFactory}
}

func (h RateOrderCommandHandler) Handle(ctx context.Context, cmd RateOrderCommand) (*rating.Rating, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	if !o.IsClient(cmd.ClientID()) {
		return nil, errs.NewActionIsForbiddenError(cmd.ClientID(), "rate order "+o.ID().String())
	}
	if o.Status() != order.Delivered {
		return nil, errs.NewTransitionIsInvalidError(o.Status(), order.Delivered, "only delivered orders can be rated")
	}

	r, err := rating.NewRating(o.ID(), cmd.ClientID(), cmd.Score(), cmd.Comment(), time.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.RatingRepository().Add(ctx, r); err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	return r, nil
}
