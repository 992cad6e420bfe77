package commands

import (
	"context"

	"fooddelivery/internal/pkg/errs"
)

// PurgeOrderLocationsCommandHandler drops order-scoped location samples once
// their order is Delivered, Cancelled or deleted. Courier-scope samples are kept.
type PurgeOrderLocationsCommandHandler struct {
	uowFactory LocationUoWFactory
}

func NewPurgeOrderLocationsCommandHandler(uowFactory LocationUoWFactory) PurgeOrderLocationsCommandHandler {
	return PurgeOrderLocationsCommandHandler{uowFactory: uowFactory}
}

// Handle returns the number of removed samples.
func (h PurgeOrderLocationsCommandHandler) Handle(ctx context.Context) (int64, error) {
	uow := h.uowFactory.Create()
	n, err := uow.LocationRepository().PurgeInactiveOrderScopes(ctx)
	if err != nil {
		return 0, errs.FromContext(ctx, err)
	}
	return n, nil
}
