package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// ClaimOrderCommandHandler arbitrates couriers competing for the same order.
//
// The claim is written with the version read in the same transaction, so of N
// concurrent claims exactly one commits and the rest get errs.ConflictError.
//
// Example:
//
//	cmd, _ := NewClaimOrderCommand(orderID, courierID)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // another courier was faster
//	}
type ClaimOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.LiveNotifier
}

func NewClaimOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.LiveNotifier) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.Claim(cmd.CourierID(), time.Now())
	})
	if err != nil {
		return nil, err
	}

	notifyStatus(h.notifier, o)
	return o, nil
}
