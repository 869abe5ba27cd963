package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var errNotInMock = errors.New("not implemented in mock")

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) AcceptPending(
	ctx context.Context, id, courierID kernel.UUID, at time.Time,
) (*order.Order, error) {
	args := m.Called(ctx, id, courierID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetActiveByCourier(_ context.Context, _ kernel.UUID) ([]*order.Order, error) {
	return nil, errNotInMock
}

func (m *MockOrderRepository) GetPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetActiveAcceptedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAssignedAcceptedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(_ context.Context, _ *courier.Courier) error { return errNotInMock }

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllUnblocked(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockRestaurantRepository struct{ mock.Mock }

func (m *MockRestaurantRepository) Add(_ context.Context, _ *restaurant.Restaurant) error {
	return errNotInMock
}

func (m *MockRestaurantRepository) Update(ctx context.Context, r *restaurant.Restaurant) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRestaurantRepository) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Restaurant), args.Error(1)
}

type MockSessionRepository struct{ mock.Mock }

func (m *MockSessionRepository) Add(ctx context.Context, s *session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Update(_ context.Context, _ *session.Session) error {
	return errNotInMock
}

func (m *MockSessionRepository) GetByTokenID(_ context.Context, _ kernel.UUID) (*session.Session, error) {
	return nil, errNotInMock
}

func (m *MockSessionRepository) GetActiveByIdentity(_ context.Context, _ kernel.Identity) ([]*session.Session, error) {
	return nil, errNotInMock
}

func (m *MockSessionRepository) InvalidateAllFor(
	ctx context.Context, identity kernel.Identity,
) ([]*session.Session, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).([]*session.Session), args.Error(1)
}

type MockPreferenceRepository struct{ mock.Mock }

func (m *MockPreferenceRepository) UpsertCourierSelection(
	ctx context.Context, courierID, restaurantID kernel.UUID, selected bool,
) error {
	args := m.Called(ctx, courierID, restaurantID, selected)
	return args.Error(0)
}

func (m *MockPreferenceRepository) UpsertRestaurantSelection(
	ctx context.Context, restaurantID, courierID kernel.UUID, selected bool,
) error {
	args := m.Called(ctx, restaurantID, courierID, selected)
	return args.Error(0)
}

func (m *MockPreferenceRepository) GetRestaurantsSelectedByCourier(
	_ context.Context, _ kernel.UUID,
) ([]kernel.UUID, error) {
	return nil, errNotInMock
}

func (m *MockPreferenceRepository) GetCouriersSelectedByRestaurant(
	ctx context.Context, restaurantID kernel.UUID,
) ([]kernel.UUID, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockPreferenceRepository) GetCourierSelections(
	ctx context.Context, courierIDs []kernel.UUID,
) (map[kernel.UUID][]kernel.UUID, error) {
	args := m.Called(ctx, courierIDs)
	return args.Get(0).(map[kernel.UUID][]kernel.UUID), args.Error(1)
}

type MockPushTokenRepository struct{ mock.Mock }

func (m *MockPushTokenRepository) Upsert(ctx context.Context, token ports.PushToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockPushTokenRepository) GetActive(
	_ context.Context, identity kernel.Identity,
) (ports.PushToken, error) {
	return ports.PushToken{}, errs.NewObjectNotFoundError("identity", identity.String())
}

func (m *MockPushTokenRepository) Deactivate(_ context.Context, _ kernel.Identity) error {
	return errNotInMock
}

// MockUoW implements every narrow unit of work interface in the package, so
// each test wires only the repositories its handler touches.
type MockUoW struct {
	mock.Mock

	orders      *MockOrderRepository
	couriers    *MockCourierRepository
	restaurants *MockRestaurantRepository
	sessions    *MockSessionRepository
	preferences *MockPreferenceRepository
	pushTokens  *MockPushTokenRepository
}

func NewMockUoW() *MockUoW {
	return &MockUoW{
		orders:      new(MockOrderRepository),
		couriers:    new(MockCourierRepository),
		restaurants: new(MockRestaurantRepository),
		sessions:    new(MockSessionRepository),
		preferences: new(MockPreferenceRepository),
		pushTokens:  new(MockPushTokenRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository           { return m.orders }
func (m *MockUoW) CourierRepository() ports.CourierRepository       { return m.couriers }
func (m *MockUoW) RestaurantRepository() ports.RestaurantRepository { return m.restaurants }
func (m *MockUoW) SessionRepository() ports.SessionRepository       { return m.sessions }
func (m *MockUoW) PreferenceRepository() ports.PreferenceRepository { return m.preferences }
func (m *MockUoW) PushTokenRepository() ports.PushTokenRepository   { return m.pushTokens }

// expectTx arms the usual Begin/Commit/Rollback sequence of a handler that
// commits successfully.
func (m *MockUoW) expectTx(ctx context.Context) {
	m.On("Begin", ctx).Return(nil).Once()
	m.On("Commit", ctx).Return(nil).Once()
	m.On("Rollback", ctx).Return(nil).Once()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW { return f() }

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW { return f() }

type FuncOrderCourierUoWFactory func() commands.OrderCourierUoW

func (f FuncOrderCourierUoWFactory) Create() commands.OrderCourierUoW { return f() }

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW { return f() }

type FuncSessionUoWFactory func() commands.SessionUoW

func (f FuncSessionUoWFactory) Create() commands.SessionUoW { return f() }

type FuncPreferenceUoWFactory func() commands.PreferenceUoW

func (f FuncPreferenceUoWFactory) Create() commands.PreferenceUoW { return f() }

type FuncPushTokenUoWFactory func() commands.PushTokenUoW

func (f FuncPushTokenUoWFactory) Create() commands.PushTokenUoW { return f() }

// RecordingRegistry is a live-channel stub that records every event.
type RecordingRegistry struct {
	online       map[kernel.Identity]bool
	events       []RecordedEvent
	adminEvents  []RecordedEvent
	forcedLogout []string
}

type RecordedEvent struct {
	Recipient kernel.Identity
	Event     string
	Payload   any
}

func NewRecordingRegistry(online ...kernel.Identity) *RecordingRegistry {
	onlineSet := make(map[kernel.Identity]bool, len(online))
	for _, identity := range online {
		onlineSet[identity] = true
	}
	return &RecordingRegistry{online: onlineSet}
}

func (r *RecordingRegistry) IsOnline(identity kernel.Identity) bool {
	return r.online[identity]
}

func (r *RecordingRegistry) Send(identity kernel.Identity, event string, payload any) error {
	r.events = append(r.events, RecordedEvent{Recipient: identity, Event: event, Payload: payload})
	return nil
}

func (r *RecordingRegistry) BroadcastToAdmins(event string, payload any) {
	r.adminEvents = append(r.adminEvents, RecordedEvent{Event: event, Payload: payload})
}

func (r *RecordingRegistry) ForceLogout(connectionID string) {
	r.forcedLogout = append(r.forcedLogout, connectionID)
}

func (r *RecordingRegistry) eventsNamed(name string) []RecordedEvent {
	var matched []RecordedEvent
	for _, e := range r.events {
		if e.Event == name {
			matched = append(matched, e)
		}
	}
	return matched
}

type DiscardingSender struct{}

func (DiscardingSender) Send(_ context.Context, _ ports.PushMessage) error { return nil }

func newTestDispatcher(registry *RecordingRegistry) *notify.Dispatcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return notify.NewDispatcher(registry, new(MockPushTokenRepository), DiscardingSender{}, logger)
}
