package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrAcceptOrdersCommandIsNotConstructed = errors.New(
		"AcceptOrdersCommand must be created via NewAcceptOrdersCommand constructor",
	)
	ErrNoOrdersSelected = errors.New("at least one order must be selected")
)

// AcceptOrdersCommand represents a courier claiming one or more pending
// orders in a single gesture. Each order is claimed independently: some may
// succeed while others were already taken by a faster courier.
//
// Example:
//
//	cmd, err := NewAcceptOrdersCommand(courierID, []kernel.UUID{orderA, orderB})
//	if err != nil {
//	    return err
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("accepted %d, lost %d to other couriers", len(result.Accepted), len(result.AlreadyTaken))
type AcceptOrdersCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	orderIDs  []kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptOrdersCommand creates a command for a courier to claim orders.
// Requires a valid courier id and a non-empty order id list.
func NewAcceptOrdersCommand(courierID kernel.UUID, orderIDs []kernel.UUID) (AcceptOrdersCommand, error) {
	cmd := AcceptOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setOrderIDs(orderIDs),
	); err != nil {
		return AcceptOrdersCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAcceptOrdersCommandIsNotConstructed if validation fails.
func (c AcceptOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrdersCommandIsNotConstructed)
}

// CourierID returns the claiming courier's identifier.
func (c AcceptOrdersCommand) CourierID() kernel.UUID {
	return c.courierID
}

// OrderIDs returns the ids of the orders being claimed.
func (c AcceptOrdersCommand) OrderIDs() []kernel.UUID {
	return c.orderIDs
}

func (c *AcceptOrdersCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *AcceptOrdersCommand) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) == 0 {
		return ErrNoOrdersSelected
	}
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.orderIDs = orderIDs
	return nil
}
