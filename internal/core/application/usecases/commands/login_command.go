package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrLoginCommandIsNotConstructed = errors.New(
	"LoginCommand must be created via NewLoginCommand constructor",
)

// LoginCommand represents an authenticated account opening a session from a
// device. An account holds at most one active session; logging in from a
// second device evicts the first.
//
// Example:
//
//	cmd, err := NewLoginCommand(identity, "iPhone 15", "203.0.113.7")
//	if err != nil {
//	    return err
//	}
//	sess, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	token := issueToken(sess.TokenID())
type LoginCommand struct { //nolint:recvcheck //using for validation
	identity kernel.Identity
	device   string
	ip       string

	guard guard.ConstructorGuard
}

// NewLoginCommand creates a command to open a session. Device and ip are
// informational and may be empty.
func NewLoginCommand(identity kernel.Identity, device, ip string) (LoginCommand, error) {
	cmd := LoginCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setIdentity(identity); err != nil {
		return LoginCommand{}, err
	}

	cmd.device = device
	cmd.ip = ip

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrLoginCommandIsNotConstructed if validation fails.
func (c LoginCommand) Validate() error {
	return c.guard.Validate(ErrLoginCommandIsNotConstructed)
}

// Identity returns the account opening the session.
func (c LoginCommand) Identity() kernel.Identity {
	return c.identity
}

// Device returns the self-reported device label.
func (c LoginCommand) Device() string {
	return c.device
}

// IP returns the client address the login arrived from.
func (c LoginCommand) IP() string {
	return c.ip
}

func (c *LoginCommand) setIdentity(identity kernel.Identity) error {
	if err := identity.Validate(); err != nil {
		return err
	}

	c.identity = identity
	return nil
}
