package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// AdvanceOrderCommandHandler applies a courier-driven status change.
// A second advance racing the first to the same target loses with errs.ConflictError.
type AdvanceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.LiveNotifier
}

func NewAdvanceOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.LiveNotifier) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.Advance(cmd.CourierID(), cmd.Target(), time.Now())
	})
	if err != nil {
		return nil, err
	}

	notifyStatus(h.notifier, o)
	return o, nil
}
