package commands

import (
	"context"
	"time"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/domain/model/kernel"
)

// ApproveDeliveryCommandHandler finalizes an order that was parked awaiting
// the restaurant's confirmation. Approval releases the courier from the
// order and credits their delivered count.
type ApproveDeliveryCommandHandler struct {
	uowFactory OrderCourierUoWFactory
	dispatcher *notify.Dispatcher
}

// NewApproveDeliveryCommandHandler creates a handler for delivery approvals.
func NewApproveDeliveryCommandHandler(
	uowFactory OrderCourierUoWFactory,
	dispatcher *notify.Dispatcher,
) ApproveDeliveryCommandHandler {
	return ApproveDeliveryCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle moves the order from awaiting approval to delivered, credits the
// courier, and notifies them that the restaurant signed off. Restaurants may
// only approve orders they own.
func (h ApproveDeliveryCommandHandler) Handle(ctx context.Context, command ApproveDeliveryCommand) error {
	if err := command.Validate(); err != nil {
		return err
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
		return err
	}

	actor := command.Actor()
	if actor.Role != kernel.RoleAdmin && !o.BelongsTo(actor.UserID) {
		return ErrActorMayNotTouchOrder
	}

	// Approve clears the courier reference, so capture it first.
	courierID := o.Courier()

	if err = o.Approve(time.Now()); err != nil {
		return err
	}

	if courierID != nil {
		deliverer, err := uow.CourierRepository().Get(ctx, *courierID)
		if err != nil {
			return err
		}
		deliverer.RecordDelivery()
		if err = uow.CourierRepository().Update(ctx, deliverer); err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	data := map[string]string{
		"orderId": o.ID().String(),
		"status":  o.Status().String(),
	}
	if courierID != nil {
		courierRecipient := kernel.Identity{UserID: *courierID, Role: kernel.RoleCourier}
		h.dispatcher.Notify(ctx, courierRecipient, notify.Event{
			Name:  notify.EventOrderApproved,
			Title: "Teslimat Onaylandı",
			Body:  "Restoran teslimatı onayladı",
			Data:  data,
		})
	}
	h.dispatcher.NotifyAdmins(notify.Event{Name: notify.EventOrderStatusUpdate, Data: data})

	return nil
}
