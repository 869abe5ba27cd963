package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var (
	ErrRegisterPushTokenCommandIsNotConstructed = errors.New(
		"RegisterPushTokenCommand must be created via NewRegisterPushTokenCommand constructor",
	)
	ErrPushTokenIsRequired   = errors.New("push token is required")
	ErrPushPlatformIsUnknown = errors.New("push platform must be ios or android")
)

// RegisterPushTokenCommand registers a device's push token for an account.
// One token per account: a new registration replaces the previous one,
// matching the single-active-session rule.
type RegisterPushTokenCommand struct { //nolint:recvcheck //using for validation
	identity kernel.Identity
	token    string
	platform string

	guard guard.ConstructorGuard
}

// NewRegisterPushTokenCommand creates a command to register a push token.
func NewRegisterPushTokenCommand(
	identity kernel.Identity,
	token, platform string,
) (RegisterPushTokenCommand, error) {
	cmd := RegisterPushTokenCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIdentity(identity),
		cmd.setToken(token),
		cmd.setPlatform(platform),
	); err != nil {
		return RegisterPushTokenCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRegisterPushTokenCommandIsNotConstructed if validation fails.
func (c RegisterPushTokenCommand) Validate() error {
	return c.guard.Validate(ErrRegisterPushTokenCommandIsNotConstructed)
}

// Identity returns the account the token belongs to.
func (c RegisterPushTokenCommand) Identity() kernel.Identity {
	return c.identity
}

// Token returns the device push token.
func (c RegisterPushTokenCommand) Token() string {
	return c.token
}

// Platform returns the device platform, ios or android.
func (c RegisterPushTokenCommand) Platform() string {
	return c.platform
}

func (c *RegisterPushTokenCommand) setIdentity(identity kernel.Identity) error {
	if err := identity.Validate(); err != nil {
		return err
	}

	c.identity = identity
	return nil
}

func (c *RegisterPushTokenCommand) setToken(token string) error {
	if token == "" {
		return ErrPushTokenIsRequired
	}

	c.token = token
	return nil
}

func (c *RegisterPushTokenCommand) setPlatform(platform string) error {
	if platform != ports.PlatformIOS && platform != ports.PlatformAndroid {
		return ErrPushPlatformIsUnknown
	}

	c.platform = platform
	return nil
}
