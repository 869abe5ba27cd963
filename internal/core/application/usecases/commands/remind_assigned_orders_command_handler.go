package commands

import (
	"context"
	"time"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/domain/model/kernel"
)

// RemindAssignedOrdersCommandHandler nudges couriers sitting on an assigned
// order past the reminder threshold. Each order is reminded at most once;
// the seen-set re-arms when the order leaves the assigned state, and the
// stale-order reaper drops deleted orders through ForgetOrders.
type RemindAssignedOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher *notify.Dispatcher
	seen       *orderSeenSet
}

// NewRemindAssignedOrdersCommandHandler creates a handler for reminder
// sweeps. The handler is stateful and must be shared, not copied.
func NewRemindAssignedOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	dispatcher *notify.Dispatcher,
) *RemindAssignedOrdersCommandHandler {
	return &RemindAssignedOrdersCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		seen:       newOrderSeenSet(),
	}
}

// Handle runs one reminder sweep. Read-only: no transaction needed.
func (h *RemindAssignedOrdersCommandHandler) Handle(ctx context.Context, command RemindAssignedOrdersCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	overdue, err := uow.OrderRepository().GetAssignedAcceptedBefore(ctx, time.Now().Add(-command.OlderThan()))
	if err != nil {
		return err
	}

	// Orders no longer assigned drop out of dedup tracking here.
	overdueIDs := make([]kernel.UUID, 0, len(overdue))
	for _, o := range overdue {
		overdueIDs = append(overdueIDs, o.ID())
	}
	h.seen.retainOnly(overdueIDs)

	for _, o := range overdue {
		courierID := o.Courier()
		if courierID == nil {
			continue
		}
		if !h.seen.markIfUnseen(o.ID()) {
			continue
		}

		h.dispatcher.Notify(ctx, kernel.Identity{UserID: *courierID, Role: kernel.RoleCourier}, notify.Event{
			Name:  notify.EventOrderReminder,
			Title: "Teslimat Hatırlatması",
			Body:  "Üzerinizdeki sipariş henüz teslim edilmedi",
			Data: map[string]string{
				"orderId": o.ID().String(),
			},
		})
	}

	return nil
}

// ForgetOrders drops ids from reminder tracking after the reaper deletes
// the orders.
func (h *RemindAssignedOrdersCommandHandler) ForgetOrders(ids []kernel.UUID) {
	for _, id := range ids {
		h.seen.forget(id)
	}
}
