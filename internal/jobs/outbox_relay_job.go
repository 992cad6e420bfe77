package jobs

import (
	"context"
	"log/slog"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OutboxRelayJob publishes pending outbox messages every second.
type OutboxRelayJob struct {
	handler   outboxRelayer
	batchSize int
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxRelayJob(handler outboxRelayer, settings Settings, logger *slog.Logger) *OutboxRelayJob {
	logger = logger.With("component", "outbox_relay_job")
	return &OutboxRelayJob{
		handler:   handler,
		batchSize: settings.OutboxBatchSize,
		timeout:   settings.RunTimeout,
		cron:      newCron(logger),
		logger:    logger,
	}
}

// Start begins the relay job to run every second.
func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started (running every second)")
	return nil
}

// RunOnce relays one batch and returns how many messages were published.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	cmd, err := commands.NewRelayOutboxCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Invalid outbox relay batch size", "error", err)
		return 0
	}

	published, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay failed", "published", published, "error", err)
	} else if published > 0 {
		j.logger.DebugContext(ctx, "Outbox relayed", "published", published)
	}
	return published
}

// Stop stops the relay job and waits for a running batch.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}
