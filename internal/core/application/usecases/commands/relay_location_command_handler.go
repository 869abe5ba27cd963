package commands

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// RelayLocationCommandHandler moves courier position reports from the device
// stream to the three consumers that care: the database (at most one write
// per minute per courier), the live cache (every accepted report), and the
// live channel (at most one broadcast per second per courier).
//
// Reports that fail validation are dropped without a response. A position
// report is telemetry, not a request: the device keeps sending regardless,
// and answering bad reports would only leak which order ids exist.
type RelayLocationCommandHandler struct {
	uowFactory OrderCourierUoWFactory
	cache      ports.CourierLocationCache
	registry   ports.ConnectionRegistry
	throttle   *locationThrottle
	logger     *slog.Logger
}

// NewRelayLocationCommandHandler creates a handler for courier position
// reports. The handler owns the throttle state, so one instance must serve
// all reports for its lifetime.
func NewRelayLocationCommandHandler(
	uowFactory OrderCourierUoWFactory,
	cache ports.CourierLocationCache,
	registry ports.ConnectionRegistry,
	logger *slog.Logger,
) *RelayLocationCommandHandler {
	return &RelayLocationCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		registry:   registry,
		throttle:   newLocationThrottle(),
		logger:     logger.With("component", "location_relay"),
	}
}

// Handle validates the report against the order it claims to serve, then
// persists, caches, and broadcasts it subject to the per-courier throttles.
// Invalid reports return nil: the relay never signals drops to the device.
func (h *RelayLocationCommandHandler) Handle(ctx context.Context, command RelayLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := time.Now()
	persist := h.throttle.persistDue(command.CourierID(), now)
	fanOut := h.throttle.fanOutDue(command.CourierID(), now)
	if !persist && !fanOut {
		return nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		h.logger.Debug("dropping report for unknown order",
			"courier_id", command.CourierID().String(), "order_id", command.OrderID().String())
		return nil
	}
	if !o.HeldBy(command.CourierID()) ||
		o.Status() != order.Assigned ||
		!o.BelongsTo(command.RestaurantID()) {
		h.logger.Debug("dropping report that does not match its order",
			"courier_id", command.CourierID().String(), "order_id", command.OrderID().String())
		return nil
	}

	if persist {
		reporter, err := uow.CourierRepository().Get(ctx, command.CourierID())
		if err != nil {
			return err
		}
		if err = reporter.SetLocation(command.Point()); err != nil {
			return err
		}
		if err = uow.CourierRepository().Update(ctx, reporter); err != nil {
			return err
		}
		if err = uow.Commit(ctx); err != nil {
			return err
		}
		h.throttle.markPersisted(command.CourierID(), now)
	}

	if err := h.cache.SetLocation(ctx, command.CourierID(), command.Point()); err != nil {
		h.logger.Warn("live cache write failed",
			"courier_id", command.CourierID().String(), "error", err)
	}

	if fanOut {
		payload := map[string]string{
			"courierId": command.CourierID().String(),
			"orderId":   command.OrderID().String(),
			"lat":       strconv.FormatFloat(command.Point().Lat(), 'f', -1, 64),
			"lng":       strconv.FormatFloat(command.Point().Lng(), 'f', -1, 64),
		}
		restaurantRecipient := kernel.Identity{UserID: command.RestaurantID(), Role: kernel.RoleRestaurant}
		if h.registry.IsOnline(restaurantRecipient) {
			if err := h.registry.Send(restaurantRecipient, notify.EventCourierLocationUpdate, payload); err != nil {
				h.logger.Debug("restaurant fan-out failed",
					"restaurant_id", command.RestaurantID().String(), "error", err)
			}
		}
		h.registry.BroadcastToAdmins(notify.EventCourierLocationUpdate, payload)
		h.throttle.markFannedOut(command.CourierID(), now)
	}

	return nil
}

// ForgetCourier clears the courier's throttle windows, typically on
// disconnect.
func (h *RelayLocationCommandHandler) ForgetCourier(courierID kernel.UUID) {
	h.throttle.forget(courierID)
}
