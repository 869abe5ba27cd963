package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/restaurant"
)

func TestCreateOrderCommandHandler_Handle_NotifiesEligibleCouriers(t *testing.T) {
	ctx := context.Background()

	restaurantID := kernel.NewUUID()
	rest, err := restaurant.NewRestaurant(restaurantID, "Moda Pide")
	require.NoError(t, err)

	eligibleCourier, err := courier.NewCourier(kernel.NewUUID(), "Ali")
	require.NoError(t, err)
	blockedCourier, err := courier.NewCourier(kernel.NewUUID(), "Veli")
	require.NoError(t, err)
	blockedCourier.Block()

	uow := NewMockUoW()
	uow.expectTx(ctx)
	uow.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.restaurants.On("Get", ctx, restaurantID).Return(rest, nil).Once()
	uow.couriers.On("GetAllUnblocked", ctx).
		Return([]*courier.Courier{eligibleCourier, blockedCourier}, nil).Once()
	uow.preferences.On("GetCouriersSelectedByRestaurant", ctx, restaurantID).
		Return([]kernel.UUID{}, nil).Once()
	uow.preferences.On("GetCourierSelections", ctx, mock.Anything).
		Return(map[kernel.UUID][]kernel.UUID{}, nil).Once()

	courierRecipient := kernel.Identity{UserID: eligibleCourier.ID(), Role: kernel.RoleCourier}
	registry := NewRecordingRegistry(courierRecipient)

	handler := commands.NewCreateOrderCommandHandler(
		FuncDispatchUoWFactory(func() commands.DispatchUoW { return uow }),
		newTestDispatcher(registry),
	)

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), restaurantID,
		"Nakit", 150, 600, 0, 0, "Moda", "",
	)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	announcements := registry.eventsNamed(notify.EventNewOrder)
	require.Len(t, announcements, 1)
	assert.Equal(t, courierRecipient, announcements[0].Recipient)
	require.Len(t, registry.adminEvents, 1)

	uow.AssertExpectations(t)
	uow.orders.AssertExpectations(t)
	uow.preferences.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ZeroValueCommandRejected(t *testing.T) {
	handler := commands.NewCreateOrderCommandHandler(
		FuncDispatchUoWFactory(func() commands.DispatchUoW { return NewMockUoW() }),
		newTestDispatcher(NewRecordingRegistry()),
	)

	err := handler.Handle(context.Background(), commands.CreateOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}
