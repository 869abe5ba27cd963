package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDeliverOrderCommandIsNotConstructed = errors.New(
	"DeliverOrderCommand must be created via NewDeliverOrderCommand constructor",
)

// DeliverOrderCommand represents a courier reporting an assigned order as
// handed over. Whether the handover completes the order immediately or
// parks it for restaurant approval depends on the order's payment kind.
//
// Example:
//
//	cmd, err := NewDeliverOrderCommand(orderID, actor)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err
//	}
type DeliverOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Identity

	guard guard.ConstructorGuard
}

// NewDeliverOrderCommand creates a command to report a delivery.
// The actor is the authenticated caller; couriers may only deliver orders
// they hold, admins may deliver any order.
func NewDeliverOrderCommand(orderID kernel.UUID, actor kernel.Identity) (DeliverOrderCommand, error) {
	cmd := DeliverOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return DeliverOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrDeliverOrderCommandIsNotConstructed if validation fails.
func (c DeliverOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeliverOrderCommandIsNotConstructed)
}

// OrderID returns the id of the delivered order.
func (c DeliverOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the authenticated caller reporting the delivery.
func (c DeliverOrderCommand) Actor() kernel.Identity {
	return c.actor
}

func (c *DeliverOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *DeliverOrderCommand) setActor(actor kernel.Identity) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
