package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

type MapLocationCache struct {
	points map[kernel.UUID]kernel.GeoPoint
}

func NewMapLocationCache() *MapLocationCache {
	return &MapLocationCache{points: make(map[kernel.UUID]kernel.GeoPoint)}
}

func (c *MapLocationCache) SetLocation(_ context.Context, courierID kernel.UUID, p kernel.GeoPoint) error {
	c.points[courierID] = p
	return nil
}

func (c *MapLocationCache) GetLocation(_ context.Context, courierID kernel.UUID) (kernel.GeoPoint, error) {
	return c.points[courierID], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRelayLocationCommandHandler_Handle_PersistsCachesAndFansOut(t *testing.T) {
	ctx := context.Background()

	restaurantID := kernel.NewUUID()
	reporter, err := courier.NewCourier(kernel.NewUUID(), "Ali")
	require.NoError(t, err)
	o := newAssignedOrder(t, restaurantID, reporter.ID(), "Nakit")

	uow := NewMockUoW()
	uow.expectTx(ctx)
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.couriers.On("Get", ctx, reporter.ID()).Return(reporter, nil).Once()
	uow.couriers.On("Update", ctx, reporter).Return(nil).Once()

	restaurantRecipient := kernel.Identity{UserID: restaurantID, Role: kernel.RoleRestaurant}
	registry := NewRecordingRegistry(restaurantRecipient)
	cache := NewMapLocationCache()

	handler := commands.NewRelayLocationCommandHandler(
		FuncOrderCourierUoWFactory(func() commands.OrderCourierUoW { return uow }),
		cache, registry, discardLogger(),
	)

	cmd, err := commands.NewRelayLocationCommand(reporter.ID(), o.ID(), restaurantID, 40.987, 29.036)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, reporter.Location())
	assert.InDelta(t, 40.987, reporter.Location().Lat(), 1e-9)

	cached, err := cache.GetLocation(ctx, reporter.ID())
	require.NoError(t, err)
	assert.InDelta(t, 29.036, cached.Lng(), 1e-9)

	require.Len(t, registry.eventsNamed(notify.EventCourierLocationUpdate), 1)
	require.Len(t, registry.adminEvents, 1)

	uow.AssertExpectations(t)
	uow.couriers.AssertExpectations(t)
}

func TestRelayLocationCommandHandler_Handle_MismatchedReportDroppedSilently(t *testing.T) {
	ctx := context.Background()

	restaurantID := kernel.NewUUID()
	holder := kernel.NewUUID()
	o := newAssignedOrder(t, restaurantID, holder, "Nakit")
	impostor := kernel.NewUUID()

	uow := NewMockUoW()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	registry := NewRecordingRegistry()
	handler := commands.NewRelayLocationCommandHandler(
		FuncOrderCourierUoWFactory(func() commands.OrderCourierUoW { return uow }),
		NewMapLocationCache(), registry, discardLogger(),
	)

	cmd, err := commands.NewRelayLocationCommand(impostor, o.ID(), restaurantID, 41.0, 29.0)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd), "drops are silent")
	assert.Empty(t, registry.events)
	assert.Empty(t, registry.adminEvents)
	uow.couriers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestNewRelayLocationCommand_RejectsOutOfRangeCoordinates(t *testing.T) {
	_, err := commands.NewRelayLocationCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 91.0, 29.0,
	)
	require.Error(t, err)
}
