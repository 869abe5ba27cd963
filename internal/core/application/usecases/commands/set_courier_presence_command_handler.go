package commands

import (
	"context"
	"time"
)

// SetCourierPresenceCommandHandler persists courier presence transitions
// reported by the live-connection gateway.
type SetCourierPresenceCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewSetCourierPresenceCommandHandler creates a handler for presence
// transitions.
func NewSetCourierPresenceCommandHandler(uowFactory CourierUoWFactory) SetCourierPresenceCommandHandler {
	return SetCourierPresenceCommandHandler{uowFactory: uowFactory}
}

// Handle flips the courier's persisted online flag. Offline transitions
// credit the time spent online since the connection joined.
func (h SetCourierPresenceCommandHandler) Handle(ctx context.Context, command SetCourierPresenceCommand) error {
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

	c, err := uow.CourierRepository().Get(ctx, command.CourierID())
	if err != nil {
		return err
	}

	if command.Online() {
		if err := c.GoOnline(); err != nil {
			return err
		}
	} else {
		c.GoOffline(command.JoinedAt(), time.Now())
	}

	if err := uow.CourierRepository().Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
