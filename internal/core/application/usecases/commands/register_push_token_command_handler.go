package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// RegisterPushTokenCommandHandler stores a device's push token, replacing
// any previous registration for the account.
type RegisterPushTokenCommandHandler struct {
	uowFactory PushTokenUoWFactory
}

// NewRegisterPushTokenCommandHandler creates a handler for push token
// registrations.
func NewRegisterPushTokenCommandHandler(uowFactory PushTokenUoWFactory) RegisterPushTokenCommandHandler {
	return RegisterPushTokenCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle upserts the token for the account.
func (h RegisterPushTokenCommandHandler) Handle(ctx context.Context, command RegisterPushTokenCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	token := ports.PushToken{
		Identity: command.Identity(),
		Token:    command.Token(),
		Platform: command.Platform(),
		Active:   true,
	}
	if err := uow.PushTokenRepository().Upsert(ctx, token); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
