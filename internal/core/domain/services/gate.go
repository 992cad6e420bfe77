package services

import (
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// Permissions is everything an actor may do with one order at the moment the
// snapshot was taken.
type Permissions struct {
	IsClient  bool
	IsCourier bool

	// CanChange covers edit, cancel and delete by the client.
	CanChange bool
	// CanClaim is true for any courier while the order is Pending and unclaimed.
	CanClaim   bool
	CanAdvance bool

	CanUpdateLocation bool
	CanViewLocation   bool
	CanRate           bool

	// MessagePeer is the participant the actor may message, nil if none.
	MessagePeer *kernel.UUID
}

// Gate answers the dependent-subsystem questions of an order. It never mutates
// the order it inspects.
//
// Example usage:
//
//	gate := services.NewGate()
//	if !gate.CanMessage(o, senderID, recipientID) {
//	    return errs.NewActionIsForbiddenError(senderID, "message "+recipientID.String())
//	}
type Gate struct{}

func NewGate() Gate {
	return Gate{}
}

// Capabilities computes the full permission set of actor over o. rated tells
// whether a rating is already stored for o.
func (g Gate) Capabilities(actor kernel.Actor, o *order.Order, rated bool) Permissions {
	p := Permissions{
		IsClient:  o.IsClient(actor.ID),
		IsCourier: o.IsCourier(actor.ID),
	}

	unclaimedPending := o.Status() == order.Pending && !o.IsClaimed()
	p.CanChange = p.IsClient && unclaimedPending
	p.CanClaim = actor.IsCourier() && unclaimedPending && !p.IsClient
	p.CanAdvance = p.IsCourier && !o.Status().IsTerminal()
	p.CanUpdateLocation = g.CanUpdateOrderLocation(o, actor.ID)
	p.CanViewLocation = g.CanViewOrderLocation(o, actor.ID)
	p.CanRate = g.CanRate(o, actor.ID, rated)

	switch {
	case p.IsClient && o.IsClaimed():
		p.MessagePeer = o.Courier()
	case p.IsCourier:
		client := o.ClientID()
		p.MessagePeer = &client
	}

	return p
}

// CanMessage holds when both sender and recipient are participants of o, the
// order has a courier, and they are different people.
func (g Gate) CanMessage(o *order.Order, sender, recipient kernel.UUID) bool {
	if !o.IsClaimed() || sender.IsEqual(recipient) {
		return false
	}
	return g.isParticipant(o, sender) && g.isParticipant(o, recipient)
}

// CanUpdateOrderLocation holds only for the assigned courier.
func (g Gate) CanUpdateOrderLocation(o *order.Order, actor kernel.UUID) bool {
	return o.IsCourier(actor)
}

// CanViewOrderLocation holds for the client and the assigned courier.
func (g Gate) CanViewOrderLocation(o *order.Order, actor kernel.UUID) bool {
	return g.isParticipant(o, actor)
}

// CanRate holds for the client of a Delivered order that has no rating yet.
func (g Gate) CanRate(o *order.Order, actor kernel.UUID, rated bool) bool {
	return o.IsClient(actor) && o.Status() == order.Delivered && !rated
}

func (g Gate) isParticipant(o *order.Order, id kernel.UUID) bool {
	return o.IsClient(id) || o.IsCourier(id)
}
