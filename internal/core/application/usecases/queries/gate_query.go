package queries

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrGateQueryIsNotConstructed = errors.New(
	"GateQuery must be created via NewGateQuery constructor",
)

// GateQuery asks what actor may do with an order. When recipient is set the
// answer also tells whether actor may message that recipient.
type GateQuery struct {
	orderID   kernel.UUID
	actor     kernel.Actor
	recipient *kernel.UUID

	guard guard.ConstructorGuard
}

func NewGateQuery(orderID kernel.UUID, actor kernel.Actor, recipient *kernel.UUID) (GateQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.ID.Validate()); err != nil {
		return GateQuery{}, err
	}
	if recipient != nil {
		if err := recipient.Validate(); err != nil {
			return GateQuery{}, err
		}
	}
	return GateQuery{orderID: orderID, actor: actor, recipient: recipient, guard: guard.NewConstructorGuard()}, nil
}

func (q GateQuery) Validate() error {
	return q.guard.Validate(ErrGateQueryIsNotConstructed)
}

type GateQueryResponse struct {
	services.Permissions

	// CanMessage is only meaningful when the query named a recipient.
	CanMessage bool
}

// GateQueryHandler evaluates the gate for chat, live location and rating.
// Only a missing order is an error; a denied capability is a false answer.
type GateQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	gate       services.Gate
}

func NewGateQueryHandler(uowFactory ports.UnitOfWorkFactory, gate services.Gate) GateQueryHandler {
	return GateQueryHandler{uowFactory: uowFactory, gate: gate}
}

func (h GateQueryHandler) Handle(ctx context.Context, q GateQuery) (GateQueryResponse, error) {
	if err := q.Validate(); err != nil {
		return GateQueryResponse{}, err
	}

	uow := h.uowFactory.Create()

	o, err := uow.OrderRepository().Get(ctx, q.orderID)
	if err != nil {
		return GateQueryResponse{}, errs.FromContext(ctx, err)
	}

	rated, err := uow.RatingRepository().Exists(ctx, o.ID())
	if err != nil {
		return GateQueryResponse{}, errs.FromContext(ctx, err)
	}

	resp := GateQueryResponse{Permissions: h.gate.Capabilities(q.actor, o, rated)}
	if q.recipient != nil {
		resp.CanMessage = h.gate.CanMessage(o, q.actor.ID, *q.recipient)
	}
	return resp, nil
}
