package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
)

// AdvanceOrderCommand moves a claimed order one step towards delivery.
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	target    order.Status

	guard guard.ConstructorGuard
}

func NewAdvanceOrderCommand(orderID, courierID kernel.UUID, target order.Status) (AdvanceOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate(), target.Validate()); err != nil {
		return AdvanceOrderCommand{}, err
	}
	return AdvanceOrderCommand{
		orderID:   orderID,
		courierID: courierID,
		target:    target,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

func (c AdvanceOrderCommand) OrderID() kernel.UUID   { return c.orderID }
func (c AdvanceOrderCommand) CourierID() kernel.UUID { return c.courierID }
func (c AdvanceOrderCommand) Target() order.Status   { return c.target }
