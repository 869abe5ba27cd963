package ports

import (
	"dispatch/internal/core/domain/model/kernel"
)

// ConnectionRegistry is the core-facing view of the live-connection
// registry. The websocket adapter owns connection lifecycle (join,
// duplicate-login eviction, heartbeat); the core only needs presence checks
// and event delivery.
//
// All methods are safe for concurrent use. Registry state is advisory and
// in-process only; authoritative state always lives in the persisted rows.
type ConnectionRegistry interface {
	// IsOnline reports whether the identity currently holds a live connection.
	IsOnline(identity kernel.Identity) bool

	// Send delivers an event to the identity's live connection. Returns an
	// error when the identity is offline or the connection write fails.
	Send(identity kernel.Identity, event string, payload any) error

	// BroadcastToAdmins delivers an event to every connected admin.
	// Best-effort: individual write failures are dropped.
	BroadcastToAdmins(event string, payload any)

	// ForceLogout sends a forced-logout signal to the connection with the
	// given id and closes it. Used when a session is superseded by a new
	// login. A no-op for unknown connection ids.
	ForceLogout(connectionID string)
}
