package commands

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
)

// BindSessionCommandHandler attaches and detaches live connections on the
// persisted session row. The connection id column is what lets a login on a
// new device force-close the connection of the superseded session.
type BindSessionCommandHandler struct {
	uowFactory SessionUoWFactory
}

// NewBindSessionCommandHandler creates a handler for connection binding.
func NewBindSessionCommandHandler(uowFactory SessionUoWFactory) BindSessionCommandHandler {
	return BindSessionCommandHandler{uowFactory: uowFactory}
}

// Handle binds the connection to the session and returns the bound session.
// Returns session.ErrSessionExpired when the session is no longer usable.
func (h BindSessionCommandHandler) Handle(
	ctx context.Context,
	command BindSessionCommand,
) (*session.Session, error) {
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

	s, err := uow.SessionRepository().GetByTokenID(ctx, command.TokenID())
	if err != nil {
		return nil, err
	}

	if err := s.BindConnection(command.ConnectionID()); err != nil {
		return nil, err
	}

	if err := uow.SessionRepository().Update(ctx, s); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Unbind detaches the live connection from the session on disconnect. A
// missing session is not an error: the disconnect already happened and
// there is nothing left to detach. The connection id guards against
// clearing a binding that a newer connection already replaced.
func (h BindSessionCommandHandler) Unbind(ctx context.Context, tokenID kernel.UUID, connectionID string) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.SessionRepository().GetByTokenID(ctx, tokenID)
	if err != nil {
		return nil
	}

	if s.ConnectionID() == nil || *s.ConnectionID() != connectionID {
		return nil
	}
	s.UnbindConnection()

	if err := uow.SessionRepository().Update(ctx, s); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
