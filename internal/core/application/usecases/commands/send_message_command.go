package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrSendMessageCommandIsNotConstructed = errors.New(
	"SendMessageCommand must be created via NewSendMessageCommand constructor",
)

// SendMessageCommand posts a chat message between the participants of an order.
type SendMessageCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	senderID    kernel.UUID
	recipientID kernel.UUID
	body        string

	guard guard.ConstructorGuard
}

func NewSendMessageCommand(orderID, senderID, recipientID kernel.UUID, body string) (SendMessageCommand, error) {
	if err := errors.Join(orderID.Validate(), senderID.Validate(), recipientID.Validate()); err != nil {
		return SendMessageCommand{}, err
	}
	return SendMessageCommand{
		orderID:     orderID,
		senderID:    senderID,
		recipientID: recipientID,
		body:        body,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c SendMessageCommand) Validate() error {
	return c.guard.Validate(ErrSendMessageCommandIsNotConstructed)
}

func (c SendMessageCommand) OrderID() kernel.UUID     { return c.orderID }
func (c SendMessageCommand) SenderID() kernel.UUID    { return c.senderID }
func (c SendMessageCommand) RecipientID() kernel.UUID { return c.recipientID }
func (c SendMessageCommand) Body() string             { return c.body }
