package commands

import (
	"context"
	"time"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/domain/model/kernel"
)

// AlertPendingOrdersCommandHandler flags pending orders no courier has
// claimed. Admins are alerted once per order; an order that is claimed and
// later cancelled back to pending alerts again, since by then it is a new
// problem.
type AlertPendingOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher *notify.Dispatcher
	seen       *orderSeenSet
}

// NewAlertPendingOrdersCommandHandler creates a handler for admin-alert
// sweeps. The handler is stateful and must be shared, not copied.
func NewAlertPendingOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	dispatcher *notify.Dispatcher,
) *AlertPendingOrdersCommandHandler {
	return &AlertPendingOrdersCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		seen:       newOrderSeenSet(),
	}
}

// Handle runs one alert sweep. Read-only: no transaction needed.
func (h *AlertPendingOrdersCommandHandler) Handle(ctx context.Context, command AlertPendingOrdersCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	waiting, err := uow.OrderRepository().GetPendingCreatedBefore(ctx, time.Now().Add(-command.OlderThan()))
	if err != nil {
		return err
	}

	waitingIDs := make([]kernel.UUID, 0, len(waiting))
	for _, o := range waiting {
		waitingIDs = append(waitingIDs, o.ID())
	}
	h.seen.retainOnly(waitingIDs)

	for _, o := range waiting {
		if !h.seen.markIfUnseen(o.ID()) {
			continue
		}

		h.dispatcher.NotifyAdmins(notify.Event{
			Name: notify.EventPendingOrderAlert,
			Data: map[string]string{
				"orderId":      o.ID().String(),
				"restaurantId": o.RestaurantID().String(),
				"neighborhood": o.Neighborhood(),
				"createdAt":    o.CreatedAt().UTC().Format(time.RFC3339),
			},
		})
	}

	return nil
}
