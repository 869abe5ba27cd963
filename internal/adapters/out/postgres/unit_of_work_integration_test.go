package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises the GORM-based unit of work
// against a real PostgreSQL database: transaction lifecycle, repository
// round-trips, the conditional accept, and session eviction.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite starts a PostgreSQL container, connects and runs migrations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = postgres_adapter.Migrate(db)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest truncates all tables to prevent test interference.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE orders, couriers, restaurants, sessions, courier_selections, restaurant_selections, push_tokens",
	).Error
	suite.Require().NoError(err)
}

// TearDownSuite terminates the PostgreSQL container.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.CourierRepository())
	suite.NotNil(uow1.RestaurantRepository())
	suite.NotNil(uow1.SessionRepository())
	suite.NotNil(uow1.PreferenceRepository())
	suite.NotNil(uow1.PushTokenRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_OrderRoundTrip verifies an order written inside a
// transaction survives a commit and restores with the same field values.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrderRoundTrip() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder(suite.T())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	retrieved, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(retrieved.ID().IsEqual(testOrder.ID()))
	suite.Equal(order.Pending, retrieved.Status())
	suite.Equal(testOrder.PaymentMethod(), retrieved.PaymentMethod())
	suite.Equal(testOrder.CourierFee(), retrieved.CourierFee())
	suite.Equal(testOrder.Neighborhood(), retrieved.Neighborhood())
	suite.Nil(retrieved.Courier())
}

// TestUnitOfWork_AcceptPendingRace verifies the conditional update lets
// exactly one claimant win and reports the loss as an already-taken error.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AcceptPendingRace() {
	ctx := context.Background()

	testOrder := createTestOrder(suite.T())
	winner := createTestCourier(suite.T())
	loser := createTestCourier(suite.T())

	setupUow := suite.factory.Create()
	suite.Require().NoError(setupUow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(setupUow.CourierRepository().Add(ctx, winner))
	suite.Require().NoError(setupUow.CourierRepository().Add(ctx, loser))

	now := time.Now()

	accepted, err := suite.factory.Create().OrderRepository().
		AcceptPending(ctx, testOrder.ID(), winner.ID(), now)
	suite.Require().NoError(err, "First claimant should win the order")
	suite.Require().NotNil(accepted.Courier())
	suite.True(accepted.Courier().IsEqual(winner.ID()))
	suite.Equal(order.Assigned, accepted.Status())
	suite.NotNil(accepted.AcceptedAt())

	_, err = suite.factory.Create().OrderRepository().
		AcceptPending(ctx, testOrder.ID(), loser.ID(), now)
	suite.Require().ErrorIs(err, order.ErrOrderAlreadyTaken,
		"Second claimant should lose with an already-taken error")

	// Still held by the winner.
	retrieved, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(retrieved.Courier().IsEqual(winner.ID()))
}

// TestUnitOfWork_AcceptPendingUnknownOrder verifies a claim on a missing
// order surfaces as not-found rather than already-taken.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AcceptPendingUnknownOrder() {
	ctx := context.Background()
	claimant := createTestCourier(suite.T())

	_, err := suite.factory.Create().OrderRepository().
		AcceptPending(ctx, kernel.NewUUID(), claimant.ID(), time.Now())

	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
}

// TestUnitOfWork_CancelRevertsToPending verifies a cancel persisted through
// Update clears the courier column so the order can be claimed again.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CancelRevertsToPending() {
	ctx := context.Background()

	testOrder := createTestOrder(suite.T())
	claimant := createTestCourier(suite.T())

	setupUow := suite.factory.Create()
	suite.Require().NoError(setupUow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(setupUow.CourierRepository().Add(ctx, claimant))

	accepted, err := suite.factory.Create().OrderRepository().
		AcceptPending(ctx, testOrder.ID(), claimant.ID(), time.Now())
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = accepted.Cancel()
	suite.Require().NoError(err)
	err = uow.OrderRepository().Update(ctx, accepted)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	retrieved, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Pending, retrieved.Status())
	suite.Nil(retrieved.Courier(), "Cancel should clear the courier column")
	suite.Nil(retrieved.AcceptedAt(), "Cancel should clear the acceptance timestamp")
}

// TestUnitOfWork_SessionEviction verifies the login transaction shape:
// invalidating prior sessions and adding the new one atomically.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_SessionEviction() {
	ctx := context.Background()

	identity, err := kernel.NewIdentity(kernel.NewUUID(), kernel.RoleCourier)
	suite.Require().NoError(err)

	oldSession := createTestSession(suite.T(), identity)
	suite.Require().NoError(oldSession.BindConnection("conn-old"))

	setupUow := suite.factory.Create()
	suite.Require().NoError(setupUow.SessionRepository().Add(ctx, oldSession))
	suite.Require().NoError(setupUow.SessionRepository().Update(ctx, oldSession))

	newSession := createTestSession(suite.T(), identity)

	uow := suite.factory.Create()
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	evicted, err := uow.SessionRepository().InvalidateAllFor(ctx, identity)
	suite.Require().NoError(err)
	suite.Require().Len(evicted, 1)
	suite.True(evicted[0].ID().IsEqual(oldSession.ID()))
	suite.Require().NotNil(evicted[0].ConnectionID())
	suite.Equal("conn-old", *evicted[0].ConnectionID())

	err = uow.SessionRepository().Add(ctx, newSession)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	active, err := suite.factory.Create().SessionRepository().GetActiveByIdentity(ctx, identity)
	suite.Require().NoError(err)
	suite.Require().Len(active, 1, "Exactly one session should remain active")
	suite.True(active[0].ID().IsEqual(newSession.ID()))

	byToken, err := suite.factory.Create().SessionRepository().GetByTokenID(ctx, oldSession.TokenID())
	suite.Require().NoError(err)
	suite.False(byToken.IsActive(), "Evicted session should be inactive but still readable")
}

// TestUnitOfWork_PreferenceUpserts verifies selection edges upsert in place
// and both directional reads see committed state.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_PreferenceUpserts() {
	ctx := context.Background()

	courierID := kernel.NewUUID()
	restaurantID := kernel.NewUUID()

	uow := suite.factory.Create()
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.PreferenceRepository().UpsertCourierSelection(ctx, courierID, restaurantID, true)
	suite.Require().NoError(err)
	err = uow.PreferenceRepository().UpsertRestaurantSelection(ctx, restaurantID, courierID, true)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	prefs := suite.factory.Create().PreferenceRepository()

	selected, err := prefs.GetRestaurantsSelectedByCourier(ctx, courierID)
	suite.Require().NoError(err)
	suite.Require().Len(selected, 1)
	suite.True(selected[0].IsEqual(restaurantID))

	couriers, err := prefs.GetCouriersSelectedByRestaurant(ctx, restaurantID)
	suite.Require().NoError(err)
	suite.Require().Len(couriers, 1)
	suite.True(couriers[0].IsEqual(courierID))

	// Deselecting rewrites the edge instead of inserting a duplicate.
	err = prefs.UpsertCourierSelection(ctx, courierID, restaurantID, false)
	suite.Require().NoError(err)

	selected, err = prefs.GetRestaurantsSelectedByCourier(ctx, courierID)
	suite.Require().NoError(err)
	suite.Empty(selected)

	selections, err := prefs.GetCourierSelections(ctx, []kernel.UUID{courierID})
	suite.Require().NoError(err)
	suite.Empty(selections[courierID])
}

// TestUnitOfWork_PushTokenLatestWins verifies re-registration replaces the
// previous token for the same identity.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_PushTokenLatestWins() {
	ctx := context.Background()

	identity, err := kernel.NewIdentity(kernel.NewUUID(), kernel.RoleCourier)
	suite.Require().NoError(err)

	tokens := suite.factory.Create().PushTokenRepository()

	err = tokens.Upsert(ctx, ports.PushToken{
		Identity: identity,
		Token:    "token-one",
		Platform: ports.PlatformAndroid,
		Active:   true,
	})
	suite.Require().NoError(err)

	err = tokens.Upsert(ctx, ports.PushToken{
		Identity: identity,
		Token:    "token-two",
		Platform: ports.PlatformIOS,
		Active:   true,
	})
	suite.Require().NoError(err)

	active, err := tokens.GetActive(ctx, identity)
	suite.Require().NoError(err)
	suite.Equal("token-two", active.Token)
	suite.Equal(ports.PlatformIOS, active.Platform)

	err = tokens.Deactivate(ctx, identity)
	suite.Require().NoError(err)

	_, err = tokens.GetActive(ctx, identity)
	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
}

// TestUnitOfWork_TransactionRollback verifies rollback discards writes made
// through multiple repositories in the same transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder(suite.T())
	testCourier := createTestCourier(suite.T())
	testRestaurant := createTestRestaurant(suite.T())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.CourierRepository().Add(ctx, testCourier))
	suite.Require().NoError(uow.RestaurantRepository().Add(ctx, testRestaurant))

	// Visible within the transaction.
	_, err = uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	freshUow := suite.factory.Create()

	_, err = freshUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")

	_, err = freshUow.CourierRepository().Get(ctx, testCourier.ID())
	suite.Require().Error(err, "Courier should not exist after rollback")

	_, err = freshUow.RestaurantRepository().Get(ctx, testRestaurant.ID())
	suite.Require().Error(err, "Restaurant should not exist after rollback")
}

// TestUnitOfWork_RepositoryIsolation verifies uncommitted writes stay
// invisible across unit-of-work instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	order1 := createTestOrder(suite.T())
	order2 := createTestOrder(suite.T())

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.OrderRepository().Add(ctx, order1))
	suite.Require().NoError(uow2.OrderRepository().Add(ctx, order2))

	_, err := uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")

	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	freshUow := suite.factory.Create()
	_, err = freshUow.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")

	_, err = freshUow.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

// TestUnitOfWork_WithoutTransaction verifies repositories auto-commit when
// no transaction is open.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testCourier := createTestCourier(suite.T())

	err := uow.CourierRepository().Add(ctx, testCourier)
	suite.Require().NoError(err)

	retrieved, err := suite.factory.Create().CourierRepository().Get(ctx, testCourier.ID())
	suite.Require().NoError(err)
	suite.True(retrieved.ID().IsEqual(testCourier.ID()))
	suite.Equal(testCourier.Name(), retrieved.Name())
}

// TestUnitOfWork_StaleOrderQueries verifies the cutoff-based reads used by
// the background jobs.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_StaleOrderQueries() {
	ctx := context.Background()

	staleOrder := createTestOrder(suite.T())
	freshOrder := createTestOrder(suite.T())

	setupUow := suite.factory.Create()
	suite.Require().NoError(setupUow.OrderRepository().Add(ctx, staleOrder))
	suite.Require().NoError(setupUow.OrderRepository().Add(ctx, freshOrder))

	// Age the first order artificially.
	staleCreatedAt := time.Now().Add(-2 * time.Hour)
	err := suite.db.Exec("UPDATE orders SET created_at = ? WHERE id = ?",
		staleCreatedAt, staleOrder.ID().Bytes()).Error
	suite.Require().NoError(err)

	cutoff := time.Now().Add(-time.Hour)
	stale, err := suite.factory.Create().OrderRepository().GetPendingCreatedBefore(ctx, cutoff)
	suite.Require().NoError(err)
	suite.Require().Len(stale, 1)
	suite.True(stale[0].ID().IsEqual(staleOrder.ID()))
}

func createTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(),
		"Nakit", 4500, 25000, 0, 0,
		"Kadıköy", "orders/receipt.jpg",
		time.Now(),
	)
	if err != nil {
		t.Fatalf("create test order: %v", err)
	}
	return o
}

func createTestCourier(t *testing.T) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), "Test Courier")
	if err != nil {
		t.Fatalf("create test courier: %v", err)
	}
	return c
}

func createTestRestaurant(t *testing.T) *restaurant.Restaurant {
	t.Helper()
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Test Restaurant")
	if err != nil {
		t.Fatalf("create test restaurant: %v", err)
	}
	return r
}

func createTestSession(t *testing.T, identity kernel.Identity) *session.Session {
	t.Helper()
	s, err := session.NewSession(
		kernel.NewUUID(), kernel.NewUUID(),
		identity, "integration-test", "127.0.0.1",
		time.Now(), time.Hour,
	)
	if err != nil {
		t.Fatalf("create test session: %v", err)
	}
	return s
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
