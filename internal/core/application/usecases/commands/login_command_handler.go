package commands

import (
	"context"
	"time"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/core/ports"
)

// LoginCommandHandler opens a session and enforces the single-active-session
// rule. Prior sessions are invalidated and the replacement inserted in the
// same transaction, so no instant exists where the account has two usable
// sessions or none on record.
type LoginCommandHandler struct {
	uowFactory SessionUoWFactory
	registry   ports.ConnectionRegistry
	sessionTTL time.Duration
}

// NewLoginCommandHandler creates a handler for session openings.
func NewLoginCommandHandler(
	uowFactory SessionUoWFactory,
	registry ports.ConnectionRegistry,
	sessionTTL time.Duration,
) LoginCommandHandler {
	return LoginCommandHandler{
		uowFactory: uowFactory,
		registry:   registry,
		sessionTTL: sessionTTL,
	}
}

// Handle invalidates every prior session of the identity, creates the
// replacement, and commits both in one transaction. Evicted sessions with a
// bound live connection receive a forced logout after commit. Returns the
// new session so the transport layer can mint the matching token.
func (h LoginCommandHandler) Handle(ctx context.Context, command LoginCommand) (*session.Session, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	evicted, err := uow.SessionRepository().InvalidateAllFor(ctx, command.Identity())
	if err != nil {
		return nil, err
	}

	newSession, err := session.NewSession(
		kernel.NewUUID(),
		kernel.NewUUID(),
		command.Identity(),
		command.Device(),
		command.IP(),
		time.Now(),
		h.sessionTTL,
	)
	if err != nil {
		return nil, err
	}

	if err = uow.SessionRepository().Add(ctx, newSession); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	for _, old := range evicted {
		if connID := old.ConnectionID(); connID != nil {
			_ = h.registry.Send(command.Identity(), notify.EventForceLogout,
				map[string]string{"reason": "logged in from another device"})
			h.registry.ForceLogout(*connID)
		}
	}

	return newSession, nil
}
