package outbox

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/ports"
)

// LogPublisher writes relayed messages to the log. It stands in for the event
// bus when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

var _ ports.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "log_publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "Order event",
		"eventId", msg.ID,
		"type", msg.Type,
		"orderId", msg.AggregateID,
		"payload", string(msg.Payload),
	)
	return nil
}
