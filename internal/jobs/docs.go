// Package jobs provides scheduled background tasks for the fulfillment
// service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order fulfillment.
//
// # Available Jobs
//
// 1. NotificationRetryJob - Runs every minute to send shipped emails that
// could not be delivered when the label was purchased
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(retryNotificationsHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The retry job uses the cron expression "0 * * * * *", the top of every
// minute. Each sweep is bounded, so a long backlog drains over several
// sweeps rather than holding one transaction open.
//
// # Error Handling
//
// Per-order send failures are logged inside the command handler and retried
// on the next sweep; the job only logs errors that prevented the sweep from
// running at all.
package jobs
