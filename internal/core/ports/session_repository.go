package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
)

// SessionRepository defines the persistence contract for sessions.
//
// The at-most-one-active-session invariant is enforced by running
// InvalidateAllFor followed by Add inside one unit-of-work transaction, so
// no window exists where two sessions for the same identity are active.
type SessionRepository interface {
	// Add persists a new session.
	Add(ctx context.Context, aggregate *session.Session) error

	// Update persists changes to an existing session (connection binding).
	Update(ctx context.Context, aggregate *session.Session) error

	// GetByTokenID retrieves the session carrying the given token id (jti).
	GetByTokenID(ctx context.Context, tokenID kernel.UUID) (*session.Session, error)

	// GetActiveByIdentity retrieves all active sessions for an identity.
	GetActiveByIdentity(ctx context.Context, identity kernel.Identity) ([]*session.Session, error)

	// InvalidateAllFor flips active=false on every active session of the
	// identity and returns the invalidated sessions, so callers can signal
	// forced logout to any bound live connection.
	InvalidateAllFor(ctx context.Context, identity kernel.Identity) ([]*session.Session, error)
}
