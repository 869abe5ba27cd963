package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/guard"
)

var ErrAlertPendingOrdersCommandIsNotConstructed = errors.New(
	"AlertPendingOrdersCommand must be created via NewAlertPendingOrdersCommand constructor",
)

// AlertPendingOrdersCommand configures one admin-alert sweep: pending
// orders waiting longer than the threshold are flagged to admins once.
type AlertPendingOrdersCommand struct { //nolint:recvcheck //using for validation
	olderThan time.Duration

	guard guard.ConstructorGuard
}

// NewAlertPendingOrdersCommand creates an admin-alert sweep command.
func NewAlertPendingOrdersCommand(olderThan time.Duration) (AlertPendingOrdersCommand, error) {
	cmd := AlertPendingOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if olderThan <= 0 {
		return AlertPendingOrdersCommand{}, ErrMaxAgeIsNotPositive
	}
	cmd.olderThan = olderThan

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAlertPendingOrdersCommandIsNotConstructed if validation fails.
func (c AlertPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAlertPendingOrdersCommandIsNotConstructed)
}

// OlderThan returns the waiting-time threshold.
func (c AlertPendingOrdersCommand) OlderThan() time.Duration {
	return c.olderThan
}
