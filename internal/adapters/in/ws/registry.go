package ws

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
)

// connection is the registry's view of a live connection. *Client satisfies
// it; tests substitute fakes.
type connection interface {
	ID() string
	Identity() kernel.Identity
	SendEvent(event string, payload any) error
	Close(reason string)
}

type identityKey struct {
	userID kernel.UUID
	role   kernel.Role
}

func keyOf(identity kernel.Identity) identityKey {
	return identityKey{userID: identity.UserID, role: identity.Role}
}

// Registry tracks live connections by identity and by connection id. At
// most one connection per (user id, role) pair: registering a second one
// closes the first. It implements ports.ConnectionRegistry.
//
// Registry state is advisory and lost on restart; the persisted session
// and courier rows remain authoritative.
type Registry struct {
	mu         sync.RWMutex
	byIdentity map[identityKey]connection
	byConnID   map[string]connection

	logger *slog.Logger
}

// NewRegistry creates an empty connection registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		byIdentity: make(map[identityKey]connection),
		byConnID:   make(map[string]connection),
		logger:     logger.With("component", "connection_registry"),
	}
}

// Register stores the connection as the identity's single live connection.
// Any previous connection for the same identity is closed and returned so
// the caller can run its disconnect cleanup.
func (r *Registry) Register(c connection) connection {
	r.mu.Lock()
	key := keyOf(c.Identity())
	previous := r.byIdentity[key]
	if previous != nil {
		delete(r.byConnID, previous.ID())
	}
	r.byIdentity[key] = c
	r.byConnID[c.ID()] = c
	r.mu.Unlock()

	if previous != nil {
		previous.Close("superseded by a new connection")
		r.logger.InfoContext(context.Background(), "Evicted duplicate connection",
			"identity", c.Identity().String(), "evicted_connection", previous.ID())
	}
	return previous
}

// Unregister removes the connection if it is still the identity's current
// one. Returns false when a newer connection already replaced it, in which
// case the caller must not run presence cleanup for the identity.
func (r *Registry) Unregister(c connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(c.Identity())
	current, ok := r.byIdentity[key]
	if !ok || current.ID() != c.ID() {
		delete(r.byConnID, c.ID())
		return false
	}
	delete(r.byIdentity, key)
	delete(r.byConnID, c.ID())
	return true
}

// IsOnline reports whether the identity currently holds a live connection.
func (r *Registry) IsOnline(identity kernel.Identity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byIdentity[keyOf(identity)]
	return ok
}

// Send delivers an event to the identity's live connection.
func (r *Registry) Send(identity kernel.Identity, event string, payload any) error {
	r.mu.RLock()
	c, ok := r.byIdentity[keyOf(identity)]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("identity %s is not connected", identity.String())
	}
	return c.SendEvent(event, payload)
}

// BroadcastToAdmins delivers an event to every connected admin.
// Individual write failures are logged and dropped.
func (r *Registry) BroadcastToAdmins(event string, payload any) {
	r.mu.RLock()
	admins := make([]connection, 0)
	for key, c := range r.byIdentity {
		if key.role == kernel.RoleAdmin {
			admins = append(admins, c)
		}
	}
	r.mu.RUnlock()

	for _, c := range admins {
		if err := c.SendEvent(event, payload); err != nil {
			r.logger.WarnContext(context.Background(), "Admin broadcast write failed",
				"event", event, "connection", c.ID(), "error", err)
		}
	}
}

// ForceLogout closes the connection with the given id. A no-op for unknown
// connection ids: the connection may have dropped on its own already.
func (r *Registry) ForceLogout(connectionID string) {
	r.mu.RLock()
	c, ok := r.byConnID[connectionID]
	r.mu.RUnlock()

	if !ok {
		return
	}
	c.Close("session superseded")
}

// Close closes every live connection. Called on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	connections := make([]connection, 0, len(r.byConnID))
	for _, c := range r.byConnID {
		connections = append(connections, c)
	}
	r.byIdentity = make(map[identityKey]connection)
	r.byConnID = make(map[string]connection)
	r.mu.Unlock()

	for _, c := range connections {
		c.Close("server shutting down")
	}
}
