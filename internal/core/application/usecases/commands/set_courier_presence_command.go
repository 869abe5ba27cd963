package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetCourierPresenceCommandIsNotConstructed = errors.New(
	"SetCourierPresenceCommand must be created via NewSetCourierPresenceCommand constructor",
)

// ErrJoinedAtIsRequired indicates an offline transition without the join
// timestamp needed to credit the courier's online time.
var ErrJoinedAtIsRequired = errors.New("joinedAt is required when going offline")

// SetCourierPresenceCommand persists a courier's presence transition. The
// live-connection gateway issues it when a courier joins or drops; going
// offline credits the minutes spent online since joining.
type SetCourierPresenceCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	online    bool
	joinedAt  time.Time

	guard guard.ConstructorGuard
}

// NewSetCourierPresenceCommand creates a presence transition command.
// joinedAt is required only for offline transitions.
func NewSetCourierPresenceCommand(
	courierID kernel.UUID,
	online bool,
	joinedAt time.Time,
) (SetCourierPresenceCommand, error) {
	cmd := SetCourierPresenceCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setTransition(online, joinedAt),
	); err != nil {
		return SetCourierPresenceCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSetCourierPresenceCommandIsNotConstructed if validation fails.
func (c SetCourierPresenceCommand) Validate() error {
	return c.guard.Validate(ErrSetCourierPresenceCommandIsNotConstructed)
}

// CourierID returns the id of the courier changing presence.
func (c SetCourierPresenceCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Online reports the target presence state.
func (c SetCourierPresenceCommand) Online() bool {
	return c.online
}

// JoinedAt returns when the courier's live connection was established.
func (c SetCourierPresenceCommand) JoinedAt() time.Time {
	return c.joinedAt
}

func (c *SetCourierPresenceCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}

func (c *SetCourierPresenceCommand) setTransition(online bool, joinedAt time.Time) error {
	if !online && joinedAt.IsZero() {
		return ErrJoinedAtIsRequired
	}
	c.online = online
	c.joinedAt = joinedAt
	return nil
}
