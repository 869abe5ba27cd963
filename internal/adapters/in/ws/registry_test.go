package ws

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
)

type fakeConn struct {
	id       string
	identity kernel.Identity

	events      []string
	sendErr     error
	closed      bool
	closeReason string
}

func (f *fakeConn) ID() string                { return f.id }
func (f *fakeConn) Identity() kernel.Identity { return f.identity }

func (f *fakeConn) SendEvent(event string, _ any) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeConn) Close(reason string) {
	f.closed = true
	f.closeReason = reason
}

func testIdentity(t *testing.T, role kernel.Role) kernel.Identity {
	t.Helper()
	identity, err := kernel.NewIdentity(kernel.NewUUID(), role)
	require.NoError(t, err)
	return identity
}

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistry_SecondConnectionEvictsFirst(t *testing.T) {
	registry := newTestRegistry()
	identity := testIdentity(t, kernel.RoleCourier)

	first := &fakeConn{id: "conn-1", identity: identity}
	second := &fakeConn{id: "conn-2", identity: identity}

	evicted := registry.Register(first)
	assert.Nil(t, evicted)

	evicted = registry.Register(second)
	require.NotNil(t, evicted)
	assert.Equal(t, "conn-1", evicted.ID())
	assert.True(t, first.closed, "previous connection should be closed")
	assert.True(t, registry.IsOnline(identity))

	// The evicted connection's id no longer resolves.
	registry.ForceLogout("conn-1")
	assert.False(t, second.closed)
}

func TestRegistry_SendTargetsCurrentConnection(t *testing.T) {
	registry := newTestRegistry()
	identity := testIdentity(t, kernel.RoleRestaurant)
	conn := &fakeConn{id: "conn-1", identity: identity}
	registry.Register(conn)

	err := registry.Send(identity, "orderStatusUpdate", map[string]string{"orderId": "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"orderStatusUpdate"}, conn.events)
}

func TestRegistry_SendToOfflineIdentityFails(t *testing.T) {
	registry := newTestRegistry()
	identity := testIdentity(t, kernel.RoleCourier)

	err := registry.Send(identity, "new_order", nil)
	assert.Error(t, err)
}

func TestRegistry_BroadcastToAdminsSkipsOtherRoles(t *testing.T) {
	registry := newTestRegistry()

	admin := &fakeConn{id: "conn-a", identity: testIdentity(t, kernel.RoleAdmin)}
	failing := &fakeConn{
		id:       "conn-b",
		identity: testIdentity(t, kernel.RoleAdmin),
		sendErr:  errors.New("write failed"),
	}
	courier := &fakeConn{id: "conn-c", identity: testIdentity(t, kernel.RoleCourier)}

	registry.Register(admin)
	registry.Register(failing)
	registry.Register(courier)

	registry.BroadcastToAdmins("orderStatusUpdate", nil)

	assert.Equal(t, []string{"orderStatusUpdate"}, admin.events)
	assert.Empty(t, courier.events, "non-admin connections should not receive admin broadcasts")
}

func TestRegistry_ForceLogoutClosesConnection(t *testing.T) {
	registry := newTestRegistry()
	conn := &fakeConn{id: "conn-1", identity: testIdentity(t, kernel.RoleCourier)}
	registry.Register(conn)

	registry.ForceLogout("conn-1")
	assert.True(t, conn.closed)

	// Unknown ids are a no-op.
	registry.ForceLogout("conn-unknown")
}

func TestRegistry_UnregisterStaleConnection(t *testing.T) {
	registry := newTestRegistry()
	identity := testIdentity(t, kernel.RoleCourier)

	first := &fakeConn{id: "conn-1", identity: identity}
	second := &fakeConn{id: "conn-2", identity: identity}

	registry.Register(first)
	registry.Register(second)

	// The evicted connection's disconnect must not mark the identity offline.
	assert.False(t, registry.Unregister(first))
	assert.True(t, registry.IsOnline(identity))

	assert.True(t, registry.Unregister(second))
	assert.False(t, registry.IsOnline(identity))
}

func TestRegistry_CloseClosesAllConnections(t *testing.T) {
	registry := newTestRegistry()

	courier := &fakeConn{id: "conn-1", identity: testIdentity(t, kernel.RoleCourier)}
	admin := &fakeConn{id: "conn-2", identity: testIdentity(t, kernel.RoleAdmin)}
	registry.Register(courier)
	registry.Register(admin)

	registry.Close()

	assert.True(t, courier.closed)
	assert.True(t, admin.closed)
	assert.False(t, registry.IsOnline(courier.identity))
}
