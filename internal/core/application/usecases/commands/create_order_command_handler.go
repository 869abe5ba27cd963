package commands

import (
	"context"
	"strconv"
	"time"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/domain/model/order"
)

// CreateOrderCommandHandler places a new order into the pending pool and
// announces it to the eligible courier audience. Eligibility is resolved by
// intersecting the restaurant's visibility preferences with each courier's
// notification preferences; the announcement then goes out best-effort, so a
// notification failure never loses the order.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, dispatcher)
//	cmd, _ := NewCreateOrderCommand(orderID, restaurantID, "Nakit", 150, 600, 0, 0, "Moda", "")
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("order not created: %v", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	dispatcher *notify.Dispatcher
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	dispatcher *notify.Dispatcher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle persists the new pending order and resolves its eligible couriers
// inside one transaction, then fans out the announcement after commit.
// Couriers are notified only after the order is durable so an accept can
// never reference an uncommitted row.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) error {
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

	fee, cash, card, gift := command.Amounts()
	newOrder, err := order.NewOrder(
		command.OrderID(),
		command.RestaurantID(),
		command.PaymentMethod(),
		fee, cash, card, gift,
		command.Neighborhood(),
		command.ImageRef(),
		time.Now(),
	)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	eligible, err := resolveEligibleCouriers(ctx, uow, command.RestaurantID())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := notify.Event{
		Name:  notify.EventNewOrder,
		Title: "Yeni Sipariş",
		Body:  newOrderBody(newOrder),
		Data: map[string]string{
			"orderId":      newOrder.ID().String(),
			"restaurantId": newOrder.RestaurantID().String(),
			"neighborhood": newOrder.Neighborhood(),
			"courierFee":   strconv.FormatInt(newOrder.CourierFee(), 10),
		},
	}
	h.dispatcher.NotifyMany(ctx, courierIdentities(eligible), event)
	h.dispatcher.NotifyAdmins(event)

	return nil
}

func newOrderBody(o *order.Order) string {
	if o.Neighborhood() == "" {
		return "Yeni sipariş var"
	}
	return o.Neighborhood() + " bölgesinde yeni sipariş var"
}
