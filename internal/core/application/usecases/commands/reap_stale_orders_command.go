package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/guard"
)

var ErrReapStaleOrdersCommandIsNotConstructed = errors.New(
	"ReapStaleOrdersCommand must be created via NewReapStaleOrdersCommand constructor",
)

// ErrMaxAgeIsNotPositive indicates a sweep configured with a zero or
// negative age threshold.
var ErrMaxAgeIsNotPositive = errors.New("max age must be positive")

// ReapStaleOrdersCommand configures one stale-order sweep: pending orders
// older than pendingMaxAge and accepted orders older than activeMaxAge are
// deleted irreversibly.
type ReapStaleOrdersCommand struct { //nolint:recvcheck //using for validation
	pendingMaxAge time.Duration
	activeMaxAge  time.Duration

	guard guard.ConstructorGuard
}

// NewReapStaleOrdersCommand creates a sweep command with both thresholds.
func NewReapStaleOrdersCommand(pendingMaxAge, activeMaxAge time.Duration) (ReapStaleOrdersCommand, error) {
	cmd := ReapStaleOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if pendingMaxAge <= 0 || activeMaxAge <= 0 {
		return ReapStaleOrdersCommand{}, ErrMaxAgeIsNotPositive
	}
	cmd.pendingMaxAge = pendingMaxAge
	cmd.activeMaxAge = activeMaxAge

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReapStaleOrdersCommandIsNotConstructed if validation fails.
func (c ReapStaleOrdersCommand) Validate() error {
	return c.guard.Validate(ErrReapStaleOrdersCommandIsNotConstructed)
}

// PendingMaxAge returns how long a pending order may wait before deletion.
func (c ReapStaleOrdersCommand) PendingMaxAge() time.Duration {
	return c.pendingMaxAge
}

// ActiveMaxAge returns how long an accepted order may stay undelivered
// before deletion.
func (c ReapStaleOrdersCommand) ActiveMaxAge() time.Duration {
	return c.activeMaxAge
}
