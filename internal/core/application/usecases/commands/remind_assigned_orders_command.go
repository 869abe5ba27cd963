package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/guard"
)

var ErrRemindAssignedOrdersCommandIsNotConstructed = errors.New(
	"RemindAssignedOrdersCommand must be created via NewRemindAssignedOrdersCommand constructor",
)

// RemindAssignedOrdersCommand configures one reminder sweep: couriers
// holding an assigned order longer than the threshold get a one-time nudge.
type RemindAssignedOrdersCommand struct { //nolint:recvcheck //using for validation
	olderThan time.Duration

	guard guard.ConstructorGuard
}

// NewRemindAssignedOrdersCommand creates a reminder sweep command.
func NewRemindAssignedOrdersCommand(olderThan time.Duration) (RemindAssignedOrdersCommand, error) {
	cmd := RemindAssignedOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if olderThan <= 0 {
		return RemindAssignedOrdersCommand{}, ErrMaxAgeIsNotPositive
	}
	cmd.olderThan = olderThan

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRemindAssignedOrdersCommandIsNotConstructed if validation fails.
func (c RemindAssignedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRemindAssignedOrdersCommandIsNotConstructed)
}

// OlderThan returns the reminder threshold.
func (c RemindAssignedOrdersCommand) OlderThan() time.Duration {
	return c.olderThan
}
