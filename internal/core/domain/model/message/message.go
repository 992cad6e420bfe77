// Package message holds chat messages exchanged between the client and the
// courier of an order.
package message

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

const MaxBodyLength = 2000

var ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage constructor")

// Message is immutable. Whether the sender may talk to the recipient about the
// order is decided by the gate, not here.
type Message struct {
	id            kernel.UUID
	orderID       kernel.UUID
	senderID      kernel.UUID
	recipientID   kernel.UUID
	body          string
	sentAt        time.Time
	isConstructed bool
}

func NewMessage(id, orderID, senderID, recipientID kernel.UUID, body string, sentAt time.Time) (*Message, error) {
	m := &Message{sentAt: sentAt.UTC(), isConstructed: true}

	if err := errors.Join(
		m.setID(id),
		m.setOrderID(orderID),
		m.setParticipants(senderID, recipientID),
		m.setBody(body),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Message) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMessageIsNotConstructed
	}
	return nil
}

func (m *Message) ID() kernel.UUID          { return m.id }
func (m *Message) OrderID() kernel.UUID     { return m.orderID }
func (m *Message) SenderID() kernel.UUID    { return m.senderID }
func (m *Message) RecipientID() kernel.UUID { return m.recipientID }
func (m *Message) Body() string             { return m.body }
func (m *Message) SentAt() time.Time        { return m.sentAt }

func (m *Message) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Message) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	m.orderID = id
	return nil
}

func (m *Message) setParticipants(sender, recipient kernel.UUID) error {
	if err := errors.Join(sender.Validate(), recipient.Validate()); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("participants", err)
	}
	if sender.IsEqual(recipient) {
		return errs.NewValueIsInvalidErrorWithCause("recipient", fmt.Errorf("sender %s cannot message themselves", sender))
	}
	m.senderID = sender
	m.recipientID = recipient
	return nil
}

func (m *Message) setBody(body string) error {
	body = strings.TrimSpace(body)
	if n := utf8.RuneCountInString(body); n == 0 || n > MaxBodyLength {
		return errs.NewValueIsOutOfRangeError("body length", n, 1, MaxBodyLength)
	}
	m.body = body
	return nil
}
