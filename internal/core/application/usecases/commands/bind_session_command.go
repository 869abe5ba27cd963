package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrBindSessionCommandIsNotConstructed = errors.New(
	"BindSessionCommand must be created via NewBindSessionCommand constructor",
)

// ErrConnectionIDIsRequired indicates a bind attempt without a connection id.
var ErrConnectionIDIsRequired = errors.New("connectionID is required")

// BindSessionCommand attaches a live connection to the session carrying a
// token id, so a later session invalidation can force-close the connection.
type BindSessionCommand struct { //nolint:recvcheck //using for validation
	tokenID      kernel.UUID
	connectionID string

	guard guard.ConstructorGuard
}

// NewBindSessionCommand creates a command binding a connection to a session.
func NewBindSessionCommand(tokenID kernel.UUID, connectionID string) (BindSessionCommand, error) {
	cmd := BindSessionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTokenID(tokenID),
		cmd.setConnectionID(connectionID),
	); err != nil {
		return BindSessionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrBindSessionCommandIsNotConstructed if validation fails.
func (c BindSessionCommand) Validate() error {
	return c.guard.Validate(ErrBindSessionCommandIsNotConstructed)
}

// TokenID returns the token id (jti) identifying the session.
func (c BindSessionCommand) TokenID() kernel.UUID {
	return c.tokenID
}

// ConnectionID returns the live connection id to bind.
func (c BindSessionCommand) ConnectionID() string {
	return c.connectionID
}

func (c *BindSessionCommand) setTokenID(tokenID kernel.UUID) error {
	if err := tokenID.Validate(); err != nil {
		return err
	}
	c.tokenID = tokenID
	return nil
}

func (c *BindSessionCommand) setConnectionID(connectionID string) error {
	if connectionID == "" {
		return ErrConnectionIDIsRequired
	}
	c.connectionID = connectionID
	return nil
}
