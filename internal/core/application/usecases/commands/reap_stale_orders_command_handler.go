package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// ReapStaleOrdersCommandHandler deletes orders that overstayed their state:
// pending orders nobody claimed and accepted orders nobody delivered. Each
// deletion is irreversible and is paired with a best-effort notification to
// the owning restaurant and the admin channel.
type ReapStaleOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher *notify.Dispatcher
	logger     *slog.Logger
}

// NewReapStaleOrdersCommandHandler creates a handler for stale-order sweeps.
func NewReapStaleOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	dispatcher *notify.Dispatcher,
	logger *slog.Logger,
) ReapStaleOrdersCommandHandler {
	return ReapStaleOrdersCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		logger:     logger.With("component", "stale_order_reaper"),
	}
}

// Handle runs one sweep and returns the deleted order ids so callers can
// drop them from reminder tracking. Notification failures never block the
// deletions.
func (h ReapStaleOrdersCommandHandler) Handle(
	ctx context.Context,
	command ReapStaleOrdersCommand,
) ([]kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stalePending, err := uow.OrderRepository().GetPendingCreatedBefore(ctx, now.Add(-command.PendingMaxAge()))
	if err != nil {
		return nil, err
	}
	staleActive, err := uow.OrderRepository().GetActiveAcceptedBefore(ctx, now.Add(-command.ActiveMaxAge()))
	if err != nil {
		return nil, err
	}

	victims := make([]*order.Order, 0, len(stalePending)+len(staleActive))
	victims = append(victims, stalePending...)
	victims = append(victims, staleActive...)
	if len(victims) == 0 {
		return nil, uow.Commit(ctx)
	}

	deleted := make([]kernel.UUID, 0, len(victims))
	for _, o := range victims {
		if err := uow.OrderRepository().Delete(ctx, o.ID()); err != nil {
			return nil, err
		}
		deleted = append(deleted, o.ID())
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	for _, o := range victims {
		restaurant := kernel.Identity{UserID: o.RestaurantID(), Role: kernel.RoleRestaurant}
		event := notify.Event{
			Name:  notify.EventOrderDeleted,
			Title: "Sipariş Silindi",
			Body:  "Sipariş zaman aşımına uğradı ve silindi",
			Data: map[string]string{
				"orderId": o.ID().String(),
			},
		}
		h.dispatcher.Notify(ctx, restaurant, event)
		h.dispatcher.NotifyAdmins(event)
	}

	h.logger.InfoContext(ctx, "Stale order sweep completed",
		"deleted", len(deleted), "pending", len(stalePending), "active", len(staleActive))

	return deleted, nil
}
