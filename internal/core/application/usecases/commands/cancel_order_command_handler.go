package commands

import (
	"context"
	"strconv"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/domain/model/kernel"
)

// CancelOrderCommandHandler returns an assigned order to the pending pool
// and re-announces it. The courier who held the order learns it was taken
// away; eligible couriers see it as a fresh opportunity.
type CancelOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	dispatcher *notify.Dispatcher
}

// NewCancelOrderCommandHandler creates a handler for order cancellations.
func NewCancelOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	dispatcher *notify.Dispatcher,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle rolls the order back to pending and re-resolves its courier
// audience in one transaction. The previously assigned courier, the eligible
// pool, and admins are notified after commit.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) error {
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
	allowed := actor.Role == kernel.RoleAdmin ||
		o.BelongsTo(actor.UserID) ||
		o.HeldBy(actor.UserID)
	if !allowed {
		return ErrActorMayNotTouchOrder
	}

	// Cancel clears the courier reference, so capture it first.
	previousCourier := o.Courier()

	if err = o.Cancel(); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	eligible, err := resolveEligibleCouriers(ctx, uow, o.RestaurantID())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	data := map[string]string{
		"orderId": o.ID().String(),
		"status":  o.Status().String(),
	}
	if previousCourier != nil {
		h.dispatcher.Notify(ctx, kernel.Identity{UserID: *previousCourier, Role: kernel.RoleCourier},
			notify.Event{
				Name:  notify.EventOrderCancelled,
				Title: "Sipariş İptal Edildi",
				Body:  "Üzerinizdeki sipariş geri alındı",
				Data:  data,
			})
	}

	h.dispatcher.NotifyMany(ctx, courierIdentities(eligible), notify.Event{
		Name:  notify.EventNewOrder,
		Title: "Yeni Sipariş",
		Body:  newOrderBody(o),
		Data: map[string]string{
			"orderId":      o.ID().String(),
			"restaurantId": o.RestaurantID().String(),
			"neighborhood": o.Neighborhood(),
			"courierFee":   strconv.FormatInt(o.CourierFee(), 10),
		},
	})
	h.dispatcher.NotifyAdmins(notify.Event{Name: notify.EventOrderStatusUpdate, Data: data})

	return nil
}
