package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// AcceptOrdersResult reports the per-order outcome of a claim. Orders lost
// to a concurrent courier land in AlreadyTaken; the client surfaces them as
// "order already taken" without retrying.
type AcceptOrdersResult struct {
	Accepted     []kernel.UUID
	AlreadyTaken []kernel.UUID
}

// AcceptOrdersCommandHandler resolves the race between couriers claiming the
// same pending order. Each claim is a conditional state transition: exactly
// one courier wins, every other claimant is told the order is already taken.
// A claim that loses some orders still keeps the ones it won.
//
// Example:
//
//	handler := NewAcceptOrdersCommandHandler(uowFactory, dispatcher)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	for _, id := range result.AlreadyTaken {
//	    log.Printf("order %s already taken", id)
//	}
type AcceptOrdersCommandHandler struct {
	uowFactory OrderCourierUoWFactory
	dispatcher *notify.Dispatcher
}

// NewAcceptOrdersCommandHandler creates a handler for courier order claims.
func NewAcceptOrdersCommandHandler(
	uowFactory OrderCourierUoWFactory,
	dispatcher *notify.Dispatcher,
) AcceptOrdersCommandHandler {
	return AcceptOrdersCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle claims each order with a conditional update that only succeeds
// while the order is still pending. Blocked couriers cannot claim at all.
// Restaurants and admins learn about each won order after commit.
func (h AcceptOrdersCommandHandler) Handle(
	ctx context.Context,
	command AcceptOrdersCommand,
) (AcceptOrdersResult, error) {
	if err := command.Validate(); err != nil {
		return AcceptOrdersResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AcceptOrdersResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	claimant, err := uow.CourierRepository().Get(ctx, command.CourierID())
	if err != nil {
		return AcceptOrdersResult{}, err
	}
	if claimant.IsBlocked() {
		return AcceptOrdersResult{}, courier.ErrCourierIsBlocked
	}

	var (
		result   AcceptOrdersResult
		accepted []*order.Order
		now      = time.Now()
	)
	for _, orderID := range command.OrderIDs() {
		won, err := uow.OrderRepository().AcceptPending(ctx, orderID, command.CourierID(), now)
		if errors.Is(err, order.ErrOrderAlreadyTaken) {
			result.AlreadyTaken = append(result.AlreadyTaken, orderID)
			continue
		}
		if err != nil {
			return AcceptOrdersResult{}, err
		}

		result.Accepted = append(result.Accepted, orderID)
		accepted = append(accepted, won)
	}

	if err := uow.Commit(ctx); err != nil {
		return AcceptOrdersResult{}, err
	}

	for _, o := range accepted {
		event := notify.Event{
			Name:  notify.EventOrderStatusUpdate,
			Title: "Sipariş Kabul Edildi",
			Body:  claimant.Name() + " siparişi kabul etti",
			Data: map[string]string{
				"orderId":   o.ID().String(),
				"status":    o.Status().String(),
				"courierId": command.CourierID().String(),
			},
		}
		restaurantRecipient := kernel.Identity{UserID: o.RestaurantID(), Role: kernel.RoleRestaurant}
		h.dispatcher.Notify(ctx, restaurantRecipient, event)
		h.dispatcher.NotifyAdmins(event)
	}

	return result, nil
}
