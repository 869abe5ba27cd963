// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic cleanup and follow-up work around orders.
//
// # Available Jobs
//
// 1. StaleOrderJob - Runs every five minutes to delete pending orders nobody claimed and active orders nobody finished
// 2. ReminderJob - Runs every thirty seconds to remind couriers about overdue assigned orders
// 3. PendingAlertJob - Runs every two minutes to alert admins about pending orders no courier has picked up
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(reapHandler, remindHandler, alertHandler, intervals, logger)
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
// Sweep frequency and the staleness thresholds are independent: the jobs
// decide how often to look, SweepIntervals decides what counts as stale.
//
// # Error Handling
//
// - Sweep failures are logged and retried on the next tick; a single bad sweep never stops the schedule
// - The stale order job feeds deleted order ids to the reminder handler so dead orders drop out of tracking
// - Failed job starts will stop any already running jobs
package jobs
