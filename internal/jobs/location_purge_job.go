package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// LocationPurgeJob removes order-pinned location samples of finished orders
// once a minute.
type LocationPurgeJob struct {
	handler locationPurger
	timeout time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewLocationPurgeJob(handler locationPurger, settings Settings, logger *slog.Logger) *LocationPurgeJob {
	logger = logger.With("component", "location_purge_job")
	return &LocationPurgeJob{
		handler: handler,
		timeout: settings.RunTimeout,
		cron:    newCron(logger),
		logger:  logger,
	}
}

// Start schedules the purge at second zero of every minute.
func (j *LocationPurgeJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Location purge job started (running every minute)")
	return nil
}

func (j *LocationPurgeJob) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	removed, err := j.handler.Handle(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Location purge failed", "error", err)
		return 0
	}
	if removed > 0 {
		j.logger.InfoContext(ctx, "Purged order locations", "removed", removed)
	}
	return removed
}

func (j *LocationPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Location purge job stopped")
}
