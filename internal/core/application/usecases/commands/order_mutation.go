package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// mutateOrder loads the order, applies mutate and writes it back with a version
// check, all in one transaction. It is the read-decide-write cycle shared by the
// courier and client lifecycle commands.
func mutateOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	orderID kernel.UUID,
	mutate func(o *order.Order) error,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	if err = mutate(o); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	return o, nil
}

func notifyStatus(notifier ports.LiveNotifier, o *order.Order) {
	notifier.Notify(o.ID(), ports.LiveEvent{
		Type:    ports.LiveStatus,
		OrderID: o.ID().String(),
		Payload: map[string]any{
			"status":    o.Status().String(),
			"courierId": courierString(o.Courier()),
			"updatedAt": o.UpdatedAt(),
		},
	})
}

func courierString(id *kernel.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
