package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PendingAlertJob manages the scheduled admin alerts for unclaimed orders.
// Runs every two minutes to flag pending orders no courier has picked up.
type PendingAlertJob struct {
	handler   *commands.AlertPendingOrdersCommandHandler
	olderThan time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewPendingAlertJob creates a new job for pending order alerts.
func NewPendingAlertJob(
	handler *commands.AlertPendingOrdersCommandHandler,
	olderThan time.Duration,
	logger *slog.Logger,
) *PendingAlertJob {
	return &PendingAlertJob{
		handler:   handler,
		olderThan: olderThan,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "pending_alert_job"),
	}
}

// Start begins the pending alert job to run every two minutes.
func (j *PendingAlertJob) Start() error {
	_, err := j.cron.AddFunc("0 */2 * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewAlertPendingOrdersCommand(j.olderThan)
		if err != nil {
			j.logger.ErrorContext(ctx, "Pending alert job misconfigured", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Pending alert job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pending alert job started (running every two minutes)")
	return nil
}

// Stop stops the pending alert job.
func (j *PendingAlertJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Pending alert job stopped")
}
