package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrEditOrderCommandIsNotConstructed = errors.New(
	"EditOrderCommand must be created via NewEditOrderCommand constructor",
)

// EditOrderCommand replaces the line items of a Pending, unclaimed order.
type EditOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	clientID kernel.UUID
	items    []LineItemInput

	guard guard.ConstructorGuard
}

func NewEditOrderCommand(orderID, clientID kernel.UUID, items []LineItemInput) (EditOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), clientID.Validate(), validateLineItems(items)); err != nil {
		return EditOrderCommand{}, err
	}
	return EditOrderCommand{
		orderID:  orderID,
		clientID: clientID,
		items:    append([]LineItemInput(nil), items...),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c EditOrderCommand) Validate() error {
	return c.guard.Validate(ErrEditOrderCommandIsNotConstructed)
}

func (c EditOrderCommand) OrderID() kernel.UUID  { return c.orderID }
func (c EditOrderCommand) ClientID() kernel.UUID { return c.clientID }

func (c EditOrderCommand) Items() []LineItemInput {
	return append([]LineItemInput(nil), c.items...)
}
