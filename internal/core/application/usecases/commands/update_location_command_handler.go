package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/location"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// UpdateCourierLocationCommandHandler stores the courier-scope sample. Samples
// older than the stored one are dropped silently.
type UpdateCourierLocationCommandHandler struct {
	uowFactory LocationUoWFactory
}

func NewUpdateCourierLocationCommandHandler(uowFactory LocationUoWFactory) UpdateCourierLocationCommandHandler {
	return UpdateCourierLocationCommandHandler{uowFactory: uowFactory}
}

func (h UpdateCourierLocationCommandHandler) Handle(ctx context.Context, cmd UpdateCourierLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sample, err := location.NewSample(cmd.CourierID(), location.CourierScope(), cmd.Position(), cmd.RecordedAt())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if _, err = uow.LocationRepository().Save(ctx, sample); err != nil {
		return errs.FromContext(ctx, err)
	}
	return nil
}

// UpdateOrderLocationCommandHandler stores the order-scope sample of the
// assigned courier and pushes it to the order's live feed.
type UpdateOrderLocationCommandHandler struct {
	uowFactory LocationUoWFactory
	gate       services.Gate
	notifier   ports.LiveNotifier
}

func NewUpdateOrderLocationCommandHandler(
	uowFactory LocationUoWFactory,
	gate services.Gate,
	notifier ports.LiveNotifier,
) UpdateOrderLocationCommandHandler {
	return UpdateOrderLocationCommandHandler{uowFactory: uowFactory, gate: gate, notifier: notifier}
}

func (h UpdateOrderLocationCommandHandler) Handle(ctx context.Context, cmd UpdateOrderLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.FromContext(ctx, err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return errs.FromContext(ctx, err)
	}

	if !h.gate.CanUpdateOrderLocation(o, cmd.CourierID()) {
		return errs.NewActionIsForbiddenError(cmd.CourierID(), "update location of order "+o.ID().String())
	}

	sample, err := location.NewSample(cmd.CourierID(), location.OrderScope(o.ID()), cmd.Position(), cmd.RecordedAt())
	if err != nil {
		return err
	}

	stored, err := uow.LocationRepository().Save(ctx, sample)
	if err != nil {
		return errs.FromContext(ctx, err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.FromContext(ctx, err)
	}

	if stored {
		h.notifier.Notify(o.ID(), ports.LiveEvent{
			Type:    ports.LiveLocation,
			OrderID: o.ID().String(),
			Payload: map[string]any{
				"latitude":   sample.Position().Latitude(),
				"longitude":  sample.Position().Longitude(),
				"recordedAt": sample.RecordedAt(),
			},
		})
	}
	return nil
}
