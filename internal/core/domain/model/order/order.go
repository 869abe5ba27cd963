package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrPaymentMethodIsRequired is returned when creating an order without
	// a payment method.
	ErrPaymentMethodIsRequired = errs.NewValueIsRequiredError("paymentMethod")

	// ErrOrderAlreadyTaken is the race-lost error: a conditional accept
	// matched zero rows because another courier won the order first.
	// Clients surface it as "already taken" and must not retry.
	ErrOrderAlreadyTaken = errors.New("order already taken")
)

// Order represents a delivery order. It is the aggregate root that manages
// the order lifecycle from creation through courier assignment to confirmed
// delivery.
//
// Invariants:
//   - Must have valid order and restaurant identifiers
//   - Monetary amounts are non-negative
//   - A courier reference is present exactly while the status is Assigned
//     or AwaitingApproval, and at most one courier holds the order
//   - Status transitions follow the state machine in Status
//
// The struct uses private fields to preserve these invariants; all mutation
// goes through validated methods.
type Order struct {
	id           kernel.UUID
	restaurantID kernel.UUID

	// courierID is the courier currently holding the order (nil while pending
	// or after delivery confirmation).
	courierID *kernel.UUID

	status Status

	// paymentMethod is the raw label chosen at checkout; classification is
	// derived, never stored.
	paymentMethod string

	// Monetary amounts in minor currency units.
	courierFee int64
	cashDue    int64
	cardDue    int64
	giftDue    int64

	neighborhood string
	imageRef     string

	createdAt   time.Time
	acceptedAt  *time.Time
	deliveredAt *time.Time
	approvedAt  *time.Time

	isConstructed bool
}

// NewOrder creates a Pending order for a restaurant.
//
// Parameters:
//   - id, restaurantID: valid UUIDs
//   - paymentMethod: non-empty checkout label, classified lazily
//   - courierFee, cashDue, cardDue, giftDue: non-negative amounts in minor units
//   - neighborhood, imageRef: optional metadata
//   - createdAt: creation timestamp
//
// Returns a validation error if any parameter violates an invariant.
func NewOrder(
	id kernel.UUID,
	restaurantID kernel.UUID,
	paymentMethod string,
	courierFee, cashDue, cardDue, giftDue int64,
	neighborhood, imageRef string,
	createdAt time.Time,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := restaurantID.Validate(); err != nil {
		return nil, err
	}
	if paymentMethod == "" {
		return nil, ErrPaymentMethodIsRequired
	}
	for _, amount := range []int64{courierFee, cashDue, cardDue, giftDue} {
		if amount < 0 {
			return nil, errs.NewValueIsInvalidError("amount")
		}
	}

	return &Order{
		id:            id,
		restaurantID:  restaurantID,
		status:        Pending,
		paymentMethod: paymentMethod,
		courierFee:    courierFee,
		cashDue:       cashDue,
		cardDue:       cardDue,
		giftDue:       giftDue,
		neighborhood:  neighborhood,
		imageRef:      imageRef,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence. It re-checks the
// status/courier consistency invariant so corrupted rows surface as errors
// instead of invalid aggregates.
func RestoreOrder(
	id kernel.UUID,
	restaurantID kernel.UUID,
	courierID *kernel.UUID,
	status Status,
	paymentMethod string,
	courierFee, cashDue, cardDue, giftDue int64,
	neighborhood, imageRef string,
	createdAt time.Time,
	acceptedAt, deliveredAt, approvedAt *time.Time,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := restaurantID.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		restaurantID:  restaurantID,
		courierID:     courierID,
		status:        status,
		paymentMethod: paymentMethod,
		courierFee:    courierFee,
		cashDue:       cashDue,
		cardDue:       cardDue,
		giftDue:       giftDue,
		neighborhood:  neighborhood,
		imageRef:      imageRef,
		createdAt:     createdAt,
		acceptedAt:    acceptedAt,
		deliveredAt:   deliveredAt,
		approvedAt:    approvedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order was constructed through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// RestaurantID returns the owning restaurant's identifier.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// Courier returns the identifier of the courier currently holding the
// order, or nil while no courier holds it.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// PaymentMethod returns the raw payment-method label.
func (o *Order) PaymentMethod() string {
	return o.paymentMethod
}

// PaymentKind returns the classification of the payment method.
func (o *Order) PaymentKind() PaymentKind {
	return ClassifyPayment(o.paymentMethod)
}

// CourierFee returns the courier fee in minor units.
func (o *Order) CourierFee() int64 {
	return o.courierFee
}

// Amounts returns the cash, card and gift portions in minor units.
func (o *Order) Amounts() (cash, card, gift int64) {
	return o.cashDue, o.cardDue, o.giftDue
}

// Neighborhood returns the delivery neighborhood.
func (o *Order) Neighborhood() string {
	return o.neighborhood
}

// ImageRef returns the reference of the attached order image, if any.
func (o *Order) ImageRef() string {
	return o.imageRef
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// AcceptedAt returns when a courier accepted the order, or nil.
func (o *Order) AcceptedAt() *time.Time {
	return o.acceptedAt
}

// DeliveredAt returns when the courier marked the order delivered, or nil.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// ApprovedAt returns when the delivery was confirmed, or nil.
func (o *Order) ApprovedAt() *time.Time {
	return o.approvedAt
}

// HeldBy reports whether the given courier currently holds the order.
func (o *Order) HeldBy(courierID kernel.UUID) bool {
	return o.courierID != nil && o.courierID.IsEqual(courierID)
}

// BelongsTo reports whether the given restaurant owns the order.
func (o *Order) BelongsTo(restaurantID kernel.UUID) bool {
	return o.restaurantID.IsEqual(restaurantID)
}

// Accept assigns the order to a courier.
//
// Business rules:
//   - The courier ID must be valid
//   - The order must be Pending
//
// The winner of concurrent accepts is decided by the conditional update in
// the persistence layer; this method maintains the in-memory aggregate.
func (o *Order) Accept(courierID kernel.UUID, at time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = &courierID
	o.acceptedAt = &at
	return nil
}

// MarkDelivered records the courier handing over the order.
//
// The payment kind decides the target state: prepaid methods (online, gift
// card) complete the order immediately, cash and card park it in
// AwaitingApproval. Returns true when restaurant approval is still needed.
func (o *Order) MarkDelivered(at time.Time) (approvalNeeded bool, err error) {
	autoApprove := o.PaymentKind().AutoApproves()

	newStatus, err := o.status.Deliver(autoApprove)
	if err != nil {
		return false, err
	}

	o.status = newStatus
	o.deliveredAt = &at
	if autoApprove {
		o.approvedAt = &at
		o.courierID = nil
	}
	return !autoApprove, nil
}

// Approve records the restaurant confirming a cash/card delivery.
// The order must be in AwaitingApproval.
func (o *Order) Approve(at time.Time) error {
	newStatus, err := o.status.Approve()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.approvedAt = &at
	o.courierID = nil
	return nil
}

// Cancel returns an Assigned order to the pool: the status goes back to
// Pending and the courier reference and acceptance timestamp are cleared.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = nil
	o.acceptedAt = nil
	return nil
}
