package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	DefaultOutboxBatchSize = 100
	defaultRunTimeout      = 10 * time.Second
)

// Settings tunes the scheduled jobs. Zero values fall back to defaults.
type Settings struct {
	OutboxBatchSize int
	RunTimeout      time.Duration
}

type outboxRelayer interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (int, error)
}

type locationPurger interface {
	Handle(ctx context.Context) (int64, error)
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	outboxRelayJob   *OutboxRelayJob
	locationPurgeJob *LocationPurgeJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	relayHandler outboxRelayer,
	purgeHandler locationPurger,
	settings Settings,
	logger *slog.Logger,
) *JobManager {
	if settings.OutboxBatchSize <= 0 {
		settings.OutboxBatchSize = DefaultOutboxBatchSize
	}
	if settings.RunTimeout <= 0 {
		settings.RunTimeout = defaultRunTimeout
	}

	return &JobManager{
		outboxRelayJob:   NewOutboxRelayJob(relayHandler, settings, logger),
		locationPurgeJob: NewLocationPurgeJob(purgeHandler, settings, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.locationPurgeJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start location purge job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.locationPurgeJob.Stop()
	jm.outboxRelayJob.Stop()
}

// newCron returns a seconds-resolution scheduler whose jobs skip a tick while
// the previous run is still in progress.
func newCron(logger *slog.Logger) *cron.Cron {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	return cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
}
