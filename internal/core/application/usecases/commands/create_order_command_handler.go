package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// CreateOrderCommandHandler places a new Pending order.
//
// The client's single active order is checked up front for a clear error, and
// enforced again by OrderRepository.Add, which is the authoritative check when
// two creates race.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.CatalogLookup
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, catalog ports.CatalogLookup) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items, err := priceLineItems(ctx, h.catalog, cmd.Items())
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.ClientID(), cmd.Address(), items, time.Now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	active, err := orderRepo.HasActiveOrder(ctx, cmd.ClientID())
	if err != nil {
		return nil, errs.FromContext(ctx, err)
	}
	if active {
		return nil, errs.NewConflictError("client", cmd.ClientID(), "client already has an active order")
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	return o, nil
}
