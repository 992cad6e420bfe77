package commands

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrUpdateCourierLocationCommandIsNotConstructed = errors.New(
		"UpdateCourierLocationCommand must be created via NewUpdateCourierLocationCommand constructor",
	)
	ErrUpdateOrderLocationCommandIsNotConstructed = errors.New(
		"UpdateOrderLocationCommand must be created via NewUpdateOrderLocationCommand constructor",
	)
)

// UpdateCourierLocationCommand reports the courier's free-standing position.
type UpdateCourierLocationCommand struct { //nolint:recvcheck //using for validation
	courierID  kernel.UUID
	position   kernel.Location
	recordedAt time.Time

	guard guard.ConstructorGuard
}

func NewUpdateCourierLocationCommand(
	courierID kernel.UUID,
	position kernel.Location,
	recordedAt time.Time,
) (UpdateCourierLocationCommand, error) {
	if err := errors.Join(courierID.Validate(), position.Validate(), validateRecordedAt(recordedAt)); err != nil {
		return UpdateCourierLocationCommand{}, err
	}
	return UpdateCourierLocationCommand{
		courierID:  courierID,
		position:   position,
		recordedAt: recordedAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierLocationCommandIsNotConstructed)
}

func (c UpdateCourierLocationCommand) CourierID() kernel.UUID    { return c.courierID }
func (c UpdateCourierLocationCommand) Position() kernel.Location { return c.position }
func (c UpdateCourierLocationCommand) RecordedAt() time.Time     { return c.recordedAt }

// UpdateOrderLocationCommand reports the courier's position pinned to an order.
type UpdateOrderLocationCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	courierID  kernel.UUID
	position   kernel.Location
	recordedAt time.Time

	guard guard.ConstructorGuard
}

func NewUpdateOrderLocationCommand(
	orderID, courierID kernel.UUID,
	position kernel.Location,
	recordedAt time.Time,
) (UpdateOrderLocationCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		courierID.Validate(),
		position.Validate(),
		validateRecordedAt(recordedAt),
	); err != nil {
		return UpdateOrderLocationCommand{}, err
	}
	return UpdateOrderLocationCommand{
		orderID:    orderID,
		courierID:  courierID,
		position:   position,
		recordedAt: recordedAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderLocationCommandIsNotConstructed)
}

func (c UpdateOrderLocationCommand) OrderID() kernel.UUID      { return c.orderID }
func (c UpdateOrderLocationCommand) CourierID() kernel.UUID    { return c.courierID }
func (c UpdateOrderLocationCommand) Position() kernel.Location { return c.position }
func (c UpdateOrderLocationCommand) RecordedAt() time.Time     { return c.recordedAt }

// maxClockSkew bounds how far in the future a device clock may report.
const maxClockSkew = time.Minute

func validateRecordedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("recordedAt")
	}
	if at.After(time.Now().Add(maxClockSkew)) {
		return errs.NewValueIsInvalidError("recordedAt is in the future")
	}
	return nil
}
