package commands

import (
	"context"
	"time"

	"fooddelivery/internal/pkg/errs"
)

type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{uowFactory: uowFactory}
}

// Handle removes the order. The delete is conditional on the version read, so a
// claim that commits first makes it fail with errs.ConflictError.
func (h DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.FromContext(ctx, err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return errs.FromContext(ctx, err)
	}

	if err = o.MarkDeleted(cmd.ClientID(), time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Delete(ctx, o); err != nil {
		return errs.FromContext(ctx, err)
	}

	return errs.FromContext(ctx, uow.Commit(ctx))
}
