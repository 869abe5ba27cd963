package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ReminderJob manages the scheduled delivery reminders for couriers.
// Runs every thirty seconds to nudge couriers holding an order past the
// reminder threshold.
type ReminderJob struct {
	handler   *commands.RemindAssignedOrdersCommandHandler
	olderThan time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewReminderJob creates a new job for courier delivery reminders.
// The handler tracks which orders were already reminded, so the same
// instance must be shared with the stale order job's onReaped hook.
func NewReminderJob(
	handler *commands.RemindAssignedOrdersCommandHandler,
	olderThan time.Duration,
	logger *slog.Logger,
) *ReminderJob {
	return &ReminderJob{
		handler:   handler,
		olderThan: olderThan,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "reminder_job"),
	}
}

// Start begins the reminder job to run every thirty seconds.
func (j *ReminderJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewRemindAssignedOrdersCommand(j.olderThan)
		if err != nil {
			j.logger.ErrorContext(ctx, "Reminder job misconfigured", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Reminder job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reminder job started (running every thirty seconds)")
	return nil
}

// Stop stops the reminder job.
func (j *ReminderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reminder job stopped")
}
