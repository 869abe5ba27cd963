// Package session contains the Session aggregate governing authenticated
// access. The system enforces at most one active session per (user, role):
// login invalidates all prior active sessions before inserting the new one,
// inside a single transaction at the persistence layer.
package session

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

var (
	// ErrSessionIsNotConstructed is returned when using an improperly initialized Session.
	ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession or RestoreSession")

	// ErrSessionExpired signals an expired or superseded session. Handlers
	// translate it into a forced-logout directive for the client.
	ErrSessionExpired = errors.New("session expired")
)

// Session represents one authenticated device for an identity. The token id
// (jti) links the persisted row to the JWT handed to the client; the
// connection id binds the session to a live channel once the client joins.
type Session struct {
	id       kernel.UUID
	tokenID  kernel.UUID
	identity kernel.Identity

	// connectionID is set when a live connection joins with this session's
	// token, nil before the first join and after disconnect.
	connectionID *string

	device string
	ip     string

	active    bool
	createdAt time.Time
	expiresAt time.Time

	isConstructed bool
}

// NewSession creates an active session for an identity with a fixed expiry.
func NewSession(
	id, tokenID kernel.UUID,
	identity kernel.Identity,
	device, ip string,
	createdAt time.Time,
	ttl time.Duration,
) (*Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := tokenID.Validate(); err != nil {
		return nil, err
	}
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		id:            id,
		tokenID:       tokenID,
		identity:      identity,
		device:        device,
		ip:            ip,
		active:        true,
		createdAt:     createdAt,
		expiresAt:     createdAt.Add(ttl),
		isConstructed: true,
	}, nil
}

// RestoreSession reconstructs a session from persistence.
func RestoreSession(
	id, tokenID kernel.UUID,
	identity kernel.Identity,
	connectionID *string,
	device, ip string,
	active bool,
	createdAt, expiresAt time.Time,
) (*Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := tokenID.Validate(); err != nil {
		return nil, err
	}
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		id:            id,
		tokenID:       tokenID,
		identity:      identity,
		connectionID:  connectionID,
		device:        device,
		ip:            ip,
		active:        active,
		createdAt:     createdAt,
		expiresAt:     expiresAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Session was properly constructed.
func (s *Session) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSessionIsNotConstructed
	}
	return nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() kernel.UUID {
	return s.id
}

// TokenID returns the jti claim of the JWT issued for this session.
func (s *Session) TokenID() kernel.UUID {
	return s.tokenID
}

// Identity returns the (user id, role) pair the session authenticates.
func (s *Session) Identity() kernel.Identity {
	return s.identity
}

// ConnectionID returns the bound live-connection id, or nil.
func (s *Session) ConnectionID() *string {
	return s.connectionID
}

// Device returns the client device description captured at login.
func (s *Session) Device() string {
	return s.device
}

// IP returns the client address captured at login.
func (s *Session) IP() string {
	return s.ip
}

// IsActive reports whether the session has not been superseded.
func (s *Session) IsActive() bool {
	return s.active
}

// CreatedAt returns the login timestamp.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// ExpiresAt returns the fixed expiry timestamp.
func (s *Session) ExpiresAt() time.Time {
	return s.expiresAt
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.expiresAt)
}

// CheckUsable returns nil for an active, unexpired session and
// ErrSessionExpired otherwise. Superseded and timed-out sessions are
// indistinguishable to the client: both force a logout.
func (s *Session) CheckUsable(now time.Time) error {
	if !s.active || s.IsExpired(now) {
		return ErrSessionExpired
	}
	return nil
}

// BindConnection attaches a live connection to the session on join.
func (s *Session) BindConnection(connectionID string) error {
	if err := s.CheckUsable(time.Now()); err != nil {
		return err
	}
	s.connectionID = &connectionID
	return nil
}

// UnbindConnection detaches the live connection on disconnect. A disconnect
// does not invalidate the session.
func (s *Session) UnbindConnection() {
	s.connectionID = nil
}

// Invalidate marks the session superseded. Any live connection bound to it
// must receive a forced-logout signal, which is the caller's concern.
func (s *Session) Invalidate() {
	s.active = false
}
