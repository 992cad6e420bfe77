package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// RelayOutboxCommandHandler moves committed domain events to the event bus.
//
// Messages are published in the order they occurred. The first failure stops the
// batch; everything published before it is marked, the rest stays pending for the
// next run. Delivery is therefore at least once.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
}

func NewRelayOutboxCommandHandler(uowFactory OutboxUoWFactory, publisher ports.EventPublisher) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle returns the number of published messages. A publish failure is
// returned together with the count of what made it out before it.
func (h RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, errs.FromContext(ctx, err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.OutboxRepository()

	pending, err := outbox.Pending(ctx, cmd.BatchSize())
	if err != nil {
		return 0, errs.FromContext(ctx, err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	published := make([]kernel.UUID, 0, len(pending))
	var publishErr error
	for _, msg := range pending {
		if publishErr = h.publisher.Publish(ctx, msg); publishErr != nil {
			break
		}
		published = append(published, msg.ID)
	}

	if len(published) > 0 {
		if err = outbox.MarkPublished(ctx, published, time.Now()); err != nil {
			return 0, errs.FromContext(ctx, err)
		}
		if err = uow.Commit(ctx); err != nil {
			return 0, errs.FromContext(ctx, err)
		}
	}

	return len(published), publishErr
}
