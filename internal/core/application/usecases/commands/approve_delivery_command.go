package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrApproveDeliveryCommandIsNotConstructed = errors.New(
	"ApproveDeliveryCommand must be created via NewApproveDeliveryCommand constructor",
)

// ApproveDeliveryCommand represents a restaurant confirming that a delivered
// order's collected amounts are correct, which finalizes the order.
type ApproveDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Identity

	guard guard.ConstructorGuard
}

// NewApproveDeliveryCommand creates a command to approve a delivery.
// Restaurants may only approve their own orders, admins may approve any.
func NewApproveDeliveryCommand(orderID kernel.UUID, actor kernel.Identity) (ApproveDeliveryCommand, error) {
	cmd := ApproveDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return ApproveDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrApproveDeliveryCommandIsNotConstructed if validation fails.
func (c ApproveDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrApproveDeliveryCommandIsNotConstructed)
}

// OrderID returns the id of the order being approved.
func (c ApproveDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the authenticated caller approving the delivery.
func (c ApproveDeliveryCommand) Actor() kernel.Identity {
	return c.actor
}

func (c *ApproveDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ApproveDeliveryCommand) setActor(actor kernel.Identity) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
