package commands

import (
	"context"
	"time"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignCourierCommandHandler executes an admin's direct assignment of a
// pending order to a chosen courier. Uses the same conditional claim as a
// courier accept, so a racing accept still resolves to one winner.
type AssignCourierCommandHandler struct {
	uowFactory OrderCourierUoWFactory
	dispatcher *notify.Dispatcher
}

// NewAssignCourierCommandHandler creates a handler for direct assignments.
func NewAssignCourierCommandHandler(
	uowFactory OrderCourierUoWFactory,
	dispatcher *notify.Dispatcher,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle assigns the pending order to the courier and notifies both sides.
// Returns order.ErrOrderAlreadyTaken when a courier claimed the order first.
func (h AssignCourierCommandHandler) Handle(ctx context.Context, command AssignCourierCommand) error {
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

	assignee, err := uow.CourierRepository().Get(ctx, command.CourierID())
	if err != nil {
		return err
	}
	if assignee.IsBlocked() {
		return courier.ErrCourierIsBlocked
	}

	o, err := uow.OrderRepository().AcceptPending(ctx, command.OrderID(), command.CourierID(), time.Now())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	data := map[string]string{
		"orderId":   o.ID().String(),
		"status":    o.Status().String(),
		"courierId": command.CourierID().String(),
	}
	h.dispatcher.Notify(ctx, kernel.Identity{UserID: command.CourierID(), Role: kernel.RoleCourier},
		notify.Event{
			Name:  notify.EventNewOrderAssigned,
			Title: "Size Sipariş Atandı",
			Body:  "Yönetici size bir sipariş atadı",
			Data:  data,
		})
	h.dispatcher.Notify(ctx, kernel.Identity{UserID: o.RestaurantID(), Role: kernel.RoleRestaurant},
		notify.Event{
			Name:  notify.EventOrderStatusUpdate,
			Title: "Sipariş Atandı",
			Body:  assignee.Name() + " siparişe atandı",
			Data:  data,
		})
	h.dispatcher.NotifyAdmins(notify.Event{Name: notify.EventOrderStatusUpdate, Data: data})

	return nil
}
