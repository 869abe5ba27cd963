package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// AcceptPending atomically assigns a pending order to a courier using a
	// conditional update (WHERE status = pending). Concurrent accepts on the
	// same order resolve to exactly one winner; losers receive
	// order.ErrOrderAlreadyTaken and must not retry automatically.
	// Returns the updated aggregate on success.
	AcceptPending(ctx context.Context, id, courierID kernel.UUID, at time.Time) (*order.Order, error)

	// GetActiveByCourier retrieves the orders a courier currently holds
	// (Assigned or AwaitingApproval).
	GetActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error)

	// GetPendingCreatedBefore retrieves pending orders created before the
	// cutoff. Used by the stale-order sweep.
	GetPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)

	// GetActiveAcceptedBefore retrieves Assigned and AwaitingApproval orders
	// accepted before the cutoff. Used by the stale-order sweep.
	GetActiveAcceptedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)

	// GetAssignedAcceptedBefore retrieves Assigned orders accepted before the
	// cutoff. Used by the reminder sweep.
	GetAssignedAcceptedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)

	// Delete removes an order row. Reaper deletions are irreversible.
	Delete(ctx context.Context, id kernel.UUID) error
}
