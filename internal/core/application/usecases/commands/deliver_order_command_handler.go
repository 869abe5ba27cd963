package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/domain/model/kernel"
)

// ErrActorMayNotTouchOrder is returned when the authenticated caller has no
// claim on the order it tries to modify.
var ErrActorMayNotTouchOrder = errors.New("actor may not modify this order")

// DeliverOrderCommandHandler processes a courier's delivery report. Online
// and gift-card payments complete immediately and credit the courier's
// delivered count; cash and card payments park the order until the
// restaurant approves the collected amounts.
//
// Example:
//
//	handler := NewDeliverOrderCommandHandler(uowFactory, dispatcher)
//	cmd, _ := NewDeliverOrderCommand(orderID, actor)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("delivery not recorded: %v", err)
//	}
type DeliverOrderCommandHandler struct {
	uowFactory OrderCourierUoWFactory
	dispatcher *notify.Dispatcher
}

// NewDeliverOrderCommandHandler creates a handler for delivery reports.
func NewDeliverOrderCommandHandler(
	uowFactory OrderCourierUoWFactory,
	dispatcher *notify.Dispatcher,
) DeliverOrderCommandHandler {
	return DeliverOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle marks the order delivered, credits the courier on the auto-approve
// path, and tells the restaurant whether the delivery is final or needs its
// approval. Couriers may only report orders they hold.
func (h DeliverOrderCommandHandler) Handle(ctx context.Context, command DeliverOrderCommand) error {
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
	if actor.Role != kernel.RoleAdmin && !o.HeldBy(actor.UserID) {
		return ErrActorMayNotTouchOrder
	}

	courierID := o.Courier()

	approvalNeeded, err := o.MarkDelivered(time.Now())
	if err != nil {
		return err
	}

	if !approvalNeeded && courierID != nil {
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
	restaurantRecipient := kernel.Identity{UserID: o.RestaurantID(), Role: kernel.RoleRestaurant}

	if approvalNeeded {
		h.dispatcher.Notify(ctx, restaurantRecipient, notify.Event{
			Name:  notify.EventDeliveryNeedsApproval,
			Title: "Teslimat Onayı Bekliyor",
			Body:  "Kurye teslimatı tamamladı, onayınız bekleniyor",
			Data:  data,
		})
	} else {
		h.dispatcher.Notify(ctx, restaurantRecipient, notify.Event{
			Name:  notify.EventDeliveryCompleted,
			Title: "Teslimat Tamamlandı",
			Body:  "Sipariş teslim edildi",
			Data:  data,
		})
	}
	h.dispatcher.NotifyAdmins(notify.Event{Name: notify.EventOrderStatusUpdate, Data: data})

	return nil
}
