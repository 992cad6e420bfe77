package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// EditOrderCommandHandler re-prices the order from the catalog. Prices are
// captured at this moment and never recomputed afterwards.
//
// Ownership and state are checked before the catalog is consulted, so a stranger
// gets errs.ActionIsForbiddenError even for an invalid item list.
type EditOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.CatalogLookup
}

func NewEditOrderCommandHandler(uowFactory OrderUoWFactory, catalog ports.CatalogLookup) EditOrderCommandHandler {
	return EditOrderCommandHandler{uowFactory: uowFactory, catalog: catalog}
}

func (h EditOrderCommandHandler) Handle(ctx context.Context, cmd EditOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		if err := o.EnsureChangeableBy(cmd.ClientID(), "edit"); err != nil {
			return err
		}

		items, err := priceLineItems(ctx, h.catalog, cmd.Items())
		if err != nil {
			return err
		}

		return o.Edit(cmd.ClientID(), items, time.Now())
	})
}
