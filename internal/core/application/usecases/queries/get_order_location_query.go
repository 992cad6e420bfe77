package queries

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/location"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetOrderLocationQueryIsNotConstructed = errors.New(
	"GetOrderLocationQuery must be created via NewGetOrderLocationQuery constructor",
)

type GetOrderLocationQuery struct {
	orderID kernel.UUID
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderLocationQuery(orderID, actorID kernel.UUID) (GetOrderLocationQuery, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return GetOrderLocationQuery{}, err
	}
	return GetOrderLocationQuery{orderID: orderID, actorID: actorID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderLocationQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderLocationQueryIsNotConstructed)
}

// GetOrderLocationQueryHandler returns the latest position the assigned courier
// pinned to the order. errs.ObjectNotFoundError means nothing was reported yet.
type GetOrderLocationQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	gate       services.Gate
}

func NewGetOrderLocationQueryHandler(uowFactory ports.UnitOfWorkFactory, gate services.Gate) GetOrderLocationQueryHandler {
	return GetOrderLocationQueryHandler{uowFactory: uowFactory, gate: gate}
}

func (h GetOrderLocationQueryHandler) Handle(ctx context.Context, q GetOrderLocationQuery) (*location.Sample, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()

	o, err := uow.OrderRepository().Get(ctx, q.orderID)
	if err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	if !h.gate.CanViewOrderLocation(o, q.actorID) {
		return nil, errs.NewActionIsForbiddenError(q.actorID, "view location of order "+o.ID().String())
	}

	courier := o.Courier()
	if courier == nil {
		return nil, errs.NewObjectNotFoundError("location", o.ID().String())
	}

	sample, err := uow.LocationRepository().Get(ctx, *courier, location.OrderScope(o.ID()))
	if err != nil {
		return nil, errs.FromContext(ctx, err)
	}
	return sample, nil
}
