package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state
// machine with defined transitions so orders always follow the dispatch
// workflow.
//
// State transitions:
//
//	Pending ──> Assigned ──┬──> AwaitingApproval ──> Delivered
//	   ^            │      └──> Delivered
//	   └────────────┘
//	        (cancel)
//
// Status is a value object that validates transitions and provides the
// wire/string representation used in channel events.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the order was created and no courier
	// has accepted it yet.
	Pending

	// Assigned indicates the order is held by exactly one courier and is
	// in transit.
	Assigned

	// AwaitingApproval indicates the courier marked the order delivered
	// and the restaurant still has to confirm (cash and card payments).
	AwaitingApproval

	// Delivered is the final state: delivery has been confirmed, either
	// automatically (online / gift card) or by the restaurant.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "unknown",
		Pending:          "pending",
		Assigned:         "assigned",
		AwaitingApproval: "awaiting_approval",
		Delivered:        "delivered",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:          "pending",
		Assigned:         "assigned",
		AwaitingApproval: "awaiting_approval",
		Delivered:        "delivered",
	}
}

// Validate checks that the Status value is one of the defined states.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status ("pending", "assigned",
// "awaiting_approval", "delivered"). Implements fmt.Stringer and is safe to
// call on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromString parses a wire/storage status name back into a Status.
// Returns an error for names outside the defined states.
func StatusFromString(value string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == value {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid status", value),
	)
}

// IsActive reports whether the order is currently held by a courier.
// Active statuses require a courier reference; all others forbid one.
func (s Status) IsActive() bool {
	return s == Assigned || s == AwaitingApproval
}

// ValidateCanHaveCourier validates consistency between order status and
// courier assignment: only Assigned and AwaitingApproval orders carry a
// courier reference.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if courier && !s.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", s.String()),
		)
	}

	if !courier && s.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", s.String()),
		)
	}

	return nil
}

// Accept transitions the status to Assigned.
//
// Valid transitions:
//   - Pending -> Assigned
//
// The persistence layer additionally guards this transition with a
// conditional update so concurrent accepts resolve to a single winner.
func (s Status) Accept() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to accept", s.String()),
		)
	}

	return Assigned, nil
}

// Deliver transitions the status out of Assigned when the courier marks the
// order delivered. autoApprove selects the target state:
//   - Assigned -> Delivered        (online / gift-card payments)
//   - Assigned -> AwaitingApproval (cash / card payments)
func (s Status) Deliver(autoApprove bool) (Status, error) {
	if s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s.String()),
		)
	}

	if autoApprove {
		return Delivered, nil
	}
	return AwaitingApproval, nil
}

// Approve transitions the status to Delivered.
//
// Valid transitions:
//   - AwaitingApproval -> Delivered (restaurant confirmation)
func (s Status) Approve() (Status, error) {
	if s != AwaitingApproval {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to approve", s.String()),
		)
	}

	return Delivered, nil
}

// Cancel returns the status to Pending when the courier backs out.
//
// Valid transitions:
//   - Assigned -> Pending
//
// Cancellation is not terminal: the order rejoins the pool.
func (s Status) Cancel() (Status, error) {
	if s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}

	return Pending, nil
}
