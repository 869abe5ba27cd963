package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrUpdatePreferencesCommandIsNotConstructed = errors.New(
		"UpdatePreferencesCommand must be created via NewUpdatePreferencesCommand constructor",
	)
	ErrPreferenceActorRole = errors.New("only couriers and restaurants hold preferences")
)

// UpdatePreferencesCommand changes one side of the bidirectional targeting
// preferences. A courier updates its notification mode and the restaurants
// it opted into; a restaurant updates its visibility mode and the couriers
// it opted into. Mode may be empty to leave it unchanged.
type UpdatePreferencesCommand struct { //nolint:recvcheck //using for validation
	actor    kernel.Identity
	mode     string
	selects  []kernel.UUID
	removals []kernel.UUID

	guard guard.ConstructorGuard
}

// NewUpdatePreferencesCommand creates a command to update targeting
// preferences. The actor must be a courier or a restaurant; the mode value
// is validated against the actor's aggregate when applied.
func NewUpdatePreferencesCommand(
	actor kernel.Identity,
	mode string,
	selects, removals []kernel.UUID,
) (UpdatePreferencesCommand, error) {
	cmd := UpdatePreferencesCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setActor(actor); err != nil {
		return UpdatePreferencesCommand{}, err
	}
	if err := errors.Join(
		cmd.setSelects(selects),
		cmd.setRemovals(removals),
	); err != nil {
		return UpdatePreferencesCommand{}, err
	}

	cmd.mode = mode

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdatePreferencesCommandIsNotConstructed if validation fails.
func (c UpdatePreferencesCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePreferencesCommandIsNotConstructed)
}

// Actor returns the account whose preferences change.
func (c UpdatePreferencesCommand) Actor() kernel.Identity {
	return c.actor
}

// Mode returns the requested mode value, empty when unchanged.
func (c UpdatePreferencesCommand) Mode() string {
	return c.mode
}

// Selects returns the counterpart ids being opted into.
func (c UpdatePreferencesCommand) Selects() []kernel.UUID {
	return c.selects
}

// Removals returns the counterpart ids being opted out of.
func (c UpdatePreferencesCommand) Removals() []kernel.UUID {
	return c.removals
}

func (c *UpdatePreferencesCommand) setActor(actor kernel.Identity) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role == kernel.RoleAdmin {
		return ErrPreferenceActorRole
	}

	c.actor = actor
	return nil
}

func (c *UpdatePreferencesCommand) setSelects(ids []kernel.UUID) error {
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.selects = ids
	return nil
}

func (c *UpdatePreferencesCommand) setRemovals(ids []kernel.UUID) error {
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.removals = ids
	return nil
}
