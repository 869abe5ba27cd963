package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// StaleOrderJob manages the scheduled cleanup of abandoned orders.
// Runs every five minutes to delete pending orders nobody claimed and
// active orders nobody finished.
type StaleOrderJob struct {
	handler       commands.ReapStaleOrdersCommandHandler
	onReaped      func(ids []kernel.UUID)
	pendingMaxAge time.Duration
	activeMaxAge  time.Duration
	cron          *cron.Cron
	logger        *slog.Logger
}

// NewStaleOrderJob creates a new job for reaping stale orders. onReaped is
// invoked with the deleted order ids after each sweep so other trackers can
// drop them; it may be nil.
func NewStaleOrderJob(
	handler commands.ReapStaleOrdersCommandHandler,
	onReaped func(ids []kernel.UUID),
	pendingMaxAge time.Duration,
	activeMaxAge time.Duration,
	logger *slog.Logger,
) *StaleOrderJob {
	return &StaleOrderJob{
		handler:       handler,
		onReaped:      onReaped,
		pendingMaxAge: pendingMaxAge,
		activeMaxAge:  activeMaxAge,
		cron:          cron.New(cron.WithSeconds()),
		logger:        logger.With("component", "stale_order_job"),
	}
}

// Start begins the stale order job to run every five minutes.
func (j *StaleOrderJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewReapStaleOrdersCommand(j.pendingMaxAge, j.activeMaxAge)
		if err != nil {
			j.logger.ErrorContext(ctx, "Stale order job misconfigured", "error", err)
			return
		}

		reaped, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Stale order job failed", "error", err)
			return
		}

		if len(reaped) > 0 && j.onReaped != nil {
			j.onReaped(reaped)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale order job started (running every five minutes)")
	return nil
}

// Stop stops the stale order job.
func (j *StaleOrderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale order job stopped")
}
