// Package jobs provides scheduled background tasks for the order coordinator.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. OutboxRelayJob - Runs every second to publish committed order events to the event bus
// 2. LocationPurgeJob - Runs every minute to drop location samples pinned to finished orders
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(relayHandler, purgeHandler, jobs.Settings{OutboxBatchSize: 100}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		return fmt.Errorf("start jobs: %w", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Runs of the same job never overlap: a tick that fires while the previous run is
// still going is skipped. Every run gets its own timeout.
//
// # Error Handling
//
// Failures are logged and the next tick tries again. A failed relay leaves the
// unpublished messages in the outbox, so nothing is lost.
package jobs
