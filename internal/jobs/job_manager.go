package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
)

// SweepIntervals holds the staleness thresholds the jobs sweep against.
type SweepIntervals struct {
	PendingMaxAge   time.Duration
	ActiveMaxAge    time.Duration
	ReminderAfter   time.Duration
	PendingAlertAge time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleOrderJob   *StaleOrderJob
	reminderJob     *ReminderJob
	pendingAlertJob *PendingAlertJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
// The reaper feeds its deleted order ids back into the reminder handler
// so deleted orders stop being tracked.
func NewJobManager(
	reapHandler commands.ReapStaleOrdersCommandHandler,
	remindHandler *commands.RemindAssignedOrdersCommandHandler,
	alertHandler *commands.AlertPendingOrdersCommandHandler,
	intervals SweepIntervals,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		staleOrderJob: NewStaleOrderJob(
			reapHandler,
			remindHandler.ForgetOrders,
			intervals.PendingMaxAge,
			intervals.ActiveMaxAge,
			logger,
		),
		reminderJob:     NewReminderJob(remindHandler, intervals.ReminderAfter, logger),
		pendingAlertJob: NewPendingAlertJob(alertHandler, intervals.PendingAlertAge, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleOrderJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale order job: %w", err)
	}

	if err := jm.reminderJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.staleOrderJob.Stop()
		return fmt.Errorf("failed to start reminder job: %w", err)
	}

	if err := jm.pendingAlertJob.Start(); err != nil {
		jm.reminderJob.Stop()
		jm.staleOrderJob.Stop()
		return fmt.Errorf("failed to start pending alert job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.pendingAlertJob.Stop()
	jm.reminderJob.Stop()
	jm.staleOrderJob.Stop()
}
