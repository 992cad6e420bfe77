package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/message"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// SendMessageCommandHandler stores a message the gate allows and pushes it to
// the order's live feed.
type SendMessageCommandHandler struct {
	uowFactory MessageUoWFactory
	gate       services.Gate
	notifier   ports.LiveNotifier
}

func NewSendMessageCommandHandler(
	uowFactory MessageUoWFactory,
	gate services.Gate,
	notifier ports.LiveNotifier,
) SendMessageCommandHandler {
	return SendMessageCommandHandler{uowFactory: uowFactory, gate: gate, notifier: notifier}
}

func (h SendMessageCommandHandler) Handle(ctx context.Context, cmd SendMessageCommand) (*message.Message, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	if !h.gate.CanMessage(o, cmd.SenderID(), cmd.RecipientID()) {
		return nil, errs.NewActionIsForbiddenError(cmd.SenderID(), "message "+cmd.RecipientID().String())
	}

	m, err := message.NewMessage(kernel.NewUUID(), o.ID(), cmd.SenderID(), cmd.RecipientID(), cmd.Body(), time.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.MessageRepository().Add(ctx, m); err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	h.notifier.Notify(o.ID(), ports.LiveEvent{
		Type:    ports.LiveMessage,
		OrderID: o.ID().String(),
		Payload: map[string]any{
			"id":          m.ID().String(),
			"senderId":    m.SenderID().String(),
			"recipientId": m.RecipientID().String(),
			"body":        m.Body(),
			"sentAt":      m.SentAt(),
		},
	})
	return m, nil
}
