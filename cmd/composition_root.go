package cmd

import (
	"log/slog"
	"strconv"
	"time"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/pushtokenrepo"
	"dispatch/internal/adapters/out/redisgeo"
	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	defaultSessionTTLHours = 168

	pendingOrderMaxAge    = time.Hour
	activeOrderMaxAge     = 4 * time.Hour
	reminderThreshold     = 10 * time.Minute
	pendingAlertThreshold = 5 * time.Minute
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	registry   *ws.Registry
	dispatcher *notify.Dispatcher
	tokens     *httpin.TokenCodec
	cache      *redisgeo.LocationCache
	sessionTTL time.Duration
	logger     *slog.Logger

	// Stateful handlers hold dedup and throttle state, so each exists once.
	relayHandler  *commands.RelayLocationCommandHandler
	remindHandler *commands.RemindAssignedOrdersCommandHandler
	alertHandler  *commands.AlertPendingOrdersCommandHandler
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	sender ports.PushSender,
	logger *slog.Logger,
) *CompositionRoot {
	root := &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:   ws.NewRegistry(logger),
		tokens:     httpin.NewTokenCodec([]byte(config.JWTSecret)),
		cache:      redisgeo.NewLocationCache(redisClient),
		sessionTTL: sessionTTLFrom(config),
		logger:     logger,
	}

	root.dispatcher = notify.NewDispatcher(
		root.registry,
		pushtokenrepo.NewGormPushTokenRepository(gormDB),
		sender,
		logger,
	)

	root.relayHandler = commands.NewRelayLocationCommandHandler(
		root.orderCourierUoWFactory(),
		root.cache,
		root.registry,
		logger,
	)
	root.remindHandler = commands.NewRemindAssignedOrdersCommandHandler(
		root.orderUoWFactory(),
		root.dispatcher,
	)
	root.alertHandler = commands.NewAlertPendingOrdersCommandHandler(
		root.orderUoWFactory(),
		root.dispatcher,
	)

	return root
}

func (c *CompositionRoot) Registry() *ws.Registry {
	return c.registry
}

func (c *CompositionRoot) TokenCodec() *httpin.TokenCodec {
	return c.tokens
}

func (c *CompositionRoot) CreateAuthMiddleware() *httpin.AuthMiddleware {
	return httpin.NewAuthMiddleware(c.tokens, c.sessionUoWFactory(), c.registry)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		commands.NewLoginCommandHandler(c.sessionUoWFactory(), c.registry, c.sessionTTL),
		commands.NewCreateOrderCommandHandler(c.dispatchUoWFactory(), c.dispatcher),
		commands.NewAcceptOrdersCommandHandler(c.orderCourierUoWFactory(), c.dispatcher),
		commands.NewDeliverOrderCommandHandler(c.orderCourierUoWFactory(), c.dispatcher),
		commands.NewCancelOrderCommandHandler(c.dispatchUoWFactory(), c.dispatcher),
		commands.NewApproveDeliveryCommandHandler(c.orderCourierUoWFactory(), c.dispatcher),
		commands.NewAssignCourierCommandHandler(c.orderCourierUoWFactory(), c.dispatcher),
		commands.NewUpdatePreferencesCommandHandler(c.preferenceUoWFactory()),
		commands.NewRegisterPushTokenCommandHandler(c.pushTokenUoWFactory()),
		queries.NewGetActiveOrdersQueryHandler(c.gormDB),
		queries.NewGetPreferencesQueryHandler(c.gormDB),
		c.tokens,
	)
}

func (c *CompositionRoot) CreateGateway() *ws.Gateway {
	return ws.NewGateway(
		c.registry,
		c.tokens,
		commands.NewBindSessionCommandHandler(c.sessionUoWFactory()),
		commands.NewSetCourierPresenceCommandHandler(c.courierUoWFactory()),
		c.relayHandler,
		commands.NewDeliverOrderCommandHandler(c.orderCourierUoWFactory(), c.dispatcher),
		commands.NewCancelOrderCommandHandler(c.dispatchUoWFactory(), c.dispatcher),
		commands.NewApproveDeliveryCommandHandler(c.orderCourierUoWFactory(), c.dispatcher),
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	reapHandler := commands.NewReapStaleOrdersCommandHandler(c.orderUoWFactory(), c.dispatcher, c.logger)

	return jobs.NewJobManager(
		reapHandler,
		c.remindHandler,
		c.alertHandler,
		jobs.SweepIntervals{
			PendingMaxAge:   pendingOrderMaxAge,
			ActiveMaxAge:    activeOrderMaxAge,
			ReminderAfter:   reminderThreshold,
			PendingAlertAge: pendingAlertThreshold,
		},
		c.logger,
	)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderCourierUoWFactory() commands.OrderCourierUoWFactory {
	return FuncOrderCourierUoWFactory(func() commands.OrderCourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) sessionUoWFactory() commands.SessionUoWFactory {
	return FuncSessionUoWFactory(func() commands.SessionUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) preferenceUoWFactory() commands.PreferenceUoWFactory {
	return FuncPreferenceUoWFactory(func() commands.PreferenceUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) pushTokenUoWFactory() commands.PushTokenUoWFactory {
	return FuncPushTokenUoWFactory(func() commands.PushTokenUoW {
		return c.uowFactory.Create()
	})
}

func sessionTTLFrom(config Config) time.Duration {
	hours, err := strconv.Atoi(config.SessionTTLHours)
	if err != nil || hours <= 0 {
		hours = defaultSessionTTLHours
	}
	return time.Duration(hours) * time.Hour
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOrderCourierUoWFactory func() commands.OrderCourierUoW

func (f FuncOrderCourierUoWFactory) Create() commands.OrderCourierUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncSessionUoWFactory func() commands.SessionUoW

func (f FuncSessionUoWFactory) Create() commands.SessionUoW {
	return f()
}

type FuncPreferenceUoWFactory func() commands.PreferenceUoW

func (f FuncPreferenceUoWFactory) Create() commands.PreferenceUoW {
	return f()
}

type FuncPushTokenUoWFactory func() commands.PushTokenUoW

func (f FuncPushTokenUoWFactory) Create() commands.PushTokenUoW {
	return f()
}
