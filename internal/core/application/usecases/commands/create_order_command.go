package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrPaymentMethodIsRequired = errors.New("payment method is required")
	ErrAmountIsNegative        = errors.New("amounts must not be negative")
)

// CreateOrderCommand represents a restaurant's request to place a new order
// into the pending pool. Carries the payment breakdown, the courier fee, the
// delivery neighborhood and an optional receipt image reference.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, restaurantID, "Kredi Kartı", 150, 0, 450, 0, "Kadıköy", "")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, dispatcher)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	restaurantID  kernel.UUID
	paymentMethod string
	courierFee    int64
	cashDue       int64
	cardDue       int64
	giftDue       int64
	neighborhood  string
	imageRef      string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates ids, requires a non-empty payment method and rejects negative
// amounts. Payment classification itself happens in the order aggregate.
func NewCreateOrderCommand(
	orderID, restaurantID kernel.UUID,
	paymentMethod string,
	courierFee, cashDue, cardDue, giftDue int64,
	neighborhood, imageRef string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRestaurantID(restaurantID),
		cmd.setPaymentMethod(paymentMethod),
		cmd.setAmounts(courierFee, cashDue, cardDue, giftDue),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.neighborhood = neighborhood
	cmd.imageRef = imageRef

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RestaurantID returns the placing restaurant's identifier.
func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// PaymentMethod returns the free-form payment method label.
func (c CreateOrderCommand) PaymentMethod() string {
	return c.paymentMethod
}

// Amounts returns the courier fee and the cash/card/gift payment breakdown.
func (c CreateOrderCommand) Amounts() (fee, cash, card, gift int64) {
	return c.courierFee, c.cashDue, c.cardDue, c.giftDue
}

// Neighborhood returns the delivery neighborhood label.
func (c CreateOrderCommand) Neighborhood() string {
	return c.neighborhood
}

// ImageRef returns the optional receipt image reference.
func (c CreateOrderCommand) ImageRef() string {
	return c.imageRef
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(paymentMethod string) error {
	if paymentMethod == "" {
		return ErrPaymentMethodIsRequired
	}

	c.paymentMethod = paymentMethod
	return nil
}

func (c *CreateOrderCommand) setAmounts(fee, cash, card, gift int64) error {
	for _, amount := range []int64{fee, cash, card, gift} {
		if amount < 0 {
			return ErrAmountIsNegative
		}
	}

	c.courierFee = fee
	c.cashDue = cash
	c.cardDue = card
	c.giftDue = gift
	return nil
}
