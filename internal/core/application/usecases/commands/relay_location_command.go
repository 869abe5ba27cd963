package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRelayLocationCommandIsNotConstructed = errors.New(
	"RelayLocationCommand must be created via NewRelayLocationCommand constructor",
)

// RelayLocationCommand carries a single position report from a courier's
// device, tied to the order being delivered. Reports arrive at device GPS
// frequency; the handler decides independently whether this one is
// persisted and whether it is broadcast.
type RelayLocationCommand struct { //nolint:recvcheck //using for validation
	courierID    kernel.UUID
	orderID      kernel.UUID
	restaurantID kernel.UUID
	point        kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewRelayLocationCommand creates a command carrying one position report.
// Coordinates outside the valid latitude/longitude ranges are rejected here,
// before the report touches any shared state.
func NewRelayLocationCommand(
	courierID, orderID, restaurantID kernel.UUID,
	lat, lng float64,
) (RelayLocationCommand, error) {
	cmd := RelayLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setOrderID(orderID),
		cmd.setRestaurantID(restaurantID),
	); err != nil {
		return RelayLocationCommand{}, err
	}

	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return RelayLocationCommand{}, err
	}
	cmd.point = point

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRelayLocationCommandIsNotConstructed if validation fails.
func (c RelayLocationCommand) Validate() error {
	return c.guard.Validate(ErrRelayLocationCommandIsNotConstructed)
}

// CourierID returns the reporting courier's identifier.
func (c RelayLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

// OrderID returns the id of the order the courier is delivering.
func (c RelayLocationCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RestaurantID returns the id of the restaurant tracking the courier.
func (c RelayLocationCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// Point returns the reported position.
func (c RelayLocationCommand) Point() kernel.GeoPoint {
	return c.point
}

func (c *RelayLocationCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *RelayLocationCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RelayLocationCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	c.restaurantID = restaurantID
	return nil
}
