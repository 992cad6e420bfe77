package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a client's request to place a new order.
//
// Example:
//
//	addr, _ := kernel.NewAddress(districtID, "Old Town", "12 Baker St")
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), clientID, addr, []LineItemInput{
//	    {ProductID: pizzaID, Quantity: 2},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	clientID kernel.UUID
	address  kernel.Address
	items    []LineItemInput

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request shape. Catalog checks happen in the handler.
func NewCreateOrderCommand(
	orderID, clientID kernel.UUID,
	address kernel.Address,
	items []LineItemInput,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		orderID.Validate(),
		clientID.Validate(),
		address.Validate(),
		validateLineItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.orderID = orderID
	cmd.clientID = clientID
	cmd.address = address
	cmd.items = append([]LineItemInput(nil), items...)
	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) ClientID() kernel.UUID {
	return c.clientID
}

func (c CreateOrderCommand) Address() kernel.Address {
	return c.address
}

func (c CreateOrderCommand) Items() []LineItemInput {
	return append([]LineItemInput(nil), c.items...)
}
