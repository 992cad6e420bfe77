package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// CancelOrderCommandHandler cancels on behalf of the owning client. A cancel
// that races a claim either wins or fails with errs.ConflictError, never both.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.LiveNotifier
}

func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.LiveNotifier) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.Cancel(cmd.ClientID(), time.Now())
	})
	if err != nil {
		return nil, err
	}

	notifyStatus(h.notifier, o)
	return o, nil
}
