package order

import (
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrItemsAreEmpty is returned when an order would be left without line items.
	ErrItemsAreEmpty = errs.NewValueIsRequiredError("line items")
)

// Order is the aggregate root of the delivery lifecycle.
//
// Invariants:
//   - id, clientID, restaurantID and createdAt never change
//   - courierID goes from nil to non-nil exactly once
//   - status moves only along Pending -> EnRoute -> Delivered or Pending -> Cancelled
//   - line items are never empty and all belong to restaurantID
//   - total equals the sum of line item subtotals
//
// Every successful mutation records an Event. Persistence adapters drain them with
// DomainEvents and ClearDomainEvents when the change is committed.
type Order struct {
	id           kernel.UUID
	clientID     kernel.UUID
	courierID    *kernel.UUID
	restaurantID kernel.UUID
	status       Status
	items        []LineItem
	total        decimal.Decimal
	address      kernel.Address
	createdAt    time.Time
	updatedAt    time.Time

	// version is the value last read from or written to the store; adapters use it
	// as the precondition of conditional writes.
	version int64

	events        []Event
	isConstructed bool
}

// NewOrder creates a Pending, unclaimed order owned by clientID.
//
// The restaurant of the order is taken from the line items, which must all share it.
// The total is computed from the unit prices captured in the items.
//
// Example:
//
//	item, _ := order.NewLineItem(productID, restaurantID, 2, decimal.RequireFromString("4.50"))
//	o, err := order.NewOrder(kernel.NewUUID(), clientID, address, []order.LineItem{item}, time.Now())
func NewOrder(
	id, clientID kernel.UUID,
	address kernel.Address,
	items []LineItem,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setClientID(clientID),
		o.setAddress(address),
		o.setItems(items, nil),
	); err != nil {
		return nil, err
	}

	o.record(EventCreated, now)
	return o, nil
}

// RestoreOrder rebuilds an order from persisted state. The consistency between
// status and courier assignment is checked; no events are recorded.
func RestoreOrder(
	id, clientID kernel.UUID,
	courierID *kernel.UUID,
	status Status,
	address kernel.Address,
	items []LineItem,
	createdAt, updatedAt time.Time,
	version int64,
) (*Order, error) {
	o := &Order{
		createdAt:     createdAt.UTC(),
		updatedAt:     updatedAt.UTC(),
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setClientID(clientID),
		o.setAddress(address),
		o.setItems(items, nil),
		o.setStatus(status, courierID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) ClientID() kernel.UUID {
	return o.clientID
}

// Courier returns the assigned courier's ID, nil while unclaimed.
func (o *Order) Courier() *kernel.UUID {
	if o.courierID == nil {
		return nil
	}
	id := *o.courierID
	return &id
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

func (o *Order) Status() Status {
	return o.status
}

// Items returns a copy of the line items in their original order.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) Total() decimal.Decimal {
	return o.total
}

func (o *Order) Address() kernel.Address {
	return o.address
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) Version() int64 {
	return o.version
}

// SetVersion is called by persistence adapters after a successful write.
func (o *Order) SetVersion(version int64) {
	o.version = version
}

// IsClaimed reports whether a courier has been assigned.
func (o *Order) IsClaimed() bool {
	return o.courierID != nil
}

// IsClient reports whether actor owns the order.
func (o *Order) IsClient(actor kernel.UUID) bool {
	return o.clientID.IsEqual(actor)
}

// IsCourier reports whether actor is the assigned courier.
func (o *Order) IsCourier(actor kernel.UUID) bool {
	return o.courierID != nil && o.courierID.IsEqual(actor)
}

// Claim assigns courierID to an unclaimed order. The status stays Pending.
//
// Returns:
//   - ConflictError if the order is already claimed, by anyone
//   - TransitionIsInvalidError if the order is unclaimed but no longer Pending
func (o *Order) Claim(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("courier", err)
	}

	if o.courierID != nil {
		return errs.NewConflictError("order", o.id, "order is already claimed")
	}

	if o.status != Pending {
		return errs.NewTransitionIsInvalidError(o.status, Pending, "only pending orders can be claimed")
	}

	o.courierID = &courierID
	o.touch(now)
	o.record(EventClaimed, now)
	return nil
}

// Advance moves the order to target on behalf of the assigned courier.
//
// Returns:
//   - ActionIsForbiddenError if actor is not the assigned courier
//   - TransitionIsInvalidError unless the edge is Pending -> EnRoute or EnRoute -> Delivered
func (o *Order) Advance(actor kernel.UUID, target Status, now time.Time) error {
	if !o.IsCourier(actor) {
		return errs.NewActionIsForbiddenError(actor, "advance order "+o.id.String())
	}

	next, err := o.status.Advance(target)
	if err != nil {
		return err
	}

	o.status = next
	o.touch(now)
	o.record(EventStatusChanged, now)
	return nil
}

// Cancel moves a Pending, unclaimed order to Cancelled on behalf of its client.
// The record is kept.
func (o *Order) Cancel(actor kernel.UUID, now time.Time) error {
	if err := o.ensureClientMayChange(actor, "cancel", Cancelled); err != nil {
		return err
	}

	next, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = next
	o.touch(now)
	o.record(EventCancelled, now)
	return nil
}

// Edit replaces the line items of a Pending, unclaimed order and recomputes the total.
// All new items must belong to the order's restaurant.
func (o *Order) Edit(actor kernel.UUID, items []LineItem, now time.Time) error {
	if err := o.ensureClientMayChange(actor, "edit", Pending); err != nil {
		return err
	}

	restaurant := o.restaurantID
	if err := o.setItems(items, &restaurant); err != nil {
		return err
	}

	o.touch(now)
	o.record(EventEdited, now)
	return nil
}

// MarkDeleted checks that the client may physically remove the order and records
// the deletion event. The caller removes the record.
func (o *Order) MarkDeleted(actor kernel.UUID, now time.Time) error {
	if err := o.ensureClientMayChange(actor, "delete", Pending); err != nil {
		return err
	}

	o.record(EventDeleted, now)
	return nil
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []Event {
	events := make([]Event, len(o.events))
	copy(events, o.events)
	return events
}

func (o *Order) ClearDomainEvents() {
	o.events = nil
}

// EnsureChangeableBy checks that actor owns the order and that it is still
// Pending and unclaimed, without changing anything.
func (o *Order) EnsureChangeableBy(actor kernel.UUID, action string) error {
	return o.ensureClientMayChange(actor, action, Pending)
}

func (o *Order) ensureClientMayChange(actor kernel.UUID, action string, target Status) error {
	if !o.IsClient(actor) {
		return errs.NewActionIsForbiddenError(actor, action+" order "+o.id.String())
	}

	if o.status != Pending {
		return errs.NewTransitionIsInvalidError(o.status, target, "order is no longer pending")
	}

	if o.courierID != nil {
		return errs.NewTransitionIsInvalidError(o.status, target, "order is already claimed")
	}

	return nil
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now.UTC()
}

func (o *Order) record(eventType EventType, now time.Time) {
	o.events = append(o.events, Event{
		ID:         kernel.NewUUID(),
		Type:       eventType,
		OrderID:    o.id,
		ClientID:   o.clientID,
		CourierID:  o.Courier(),
		Status:     o.status,
		Total:      o.total,
		OccurredAt: now.UTC(),
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setClientID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("client", err)
	}
	o.clientID = id
	return nil
}

func (o *Order) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

// setItems validates items and recomputes the total. When restaurant is nil the
// restaurant of the first item becomes the order's restaurant.
func (o *Order) setItems(items []LineItem, restaurant *kernel.UUID) error {
	if len(items) == 0 {
		return ErrItemsAreEmpty
	}

	owner := items[0].RestaurantID()
	if restaurant != nil {
		owner = *restaurant
	}

	total := decimal.Zero
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if !item.RestaurantID().IsEqual(owner) {
			return errs.NewValueIsInvalidErrorWithCause(
				"line items",
				fmt.Errorf("item %d belongs to restaurant %s, order restaurant is %s", i, item.RestaurantID(), owner),
			)
		}
		total = total.Add(item.Subtotal())
	}

	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	o.restaurantID = owner
	o.total = total
	return nil
}

func (o *Order) setStatus(status Status, courierID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("courier", err)
		}
	}
	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return err
	}

	o.status = status
	if courierID != nil {
		id := *courierID
		o.courierID = &id
	}
	return nil
}
