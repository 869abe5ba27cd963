// Package queries contains read models for the dispatch workflow. Queries
// bypass the aggregates and read projection rows straight from the
// database, keeping the write-side repositories free of listing concerns.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery retrieves the orders a courier currently holds:
// everything assigned or awaiting approval, oldest first.
//
// Example:
//
//	query, err := NewGetActiveOrdersQuery(courierID)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetActiveOrdersQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query for a courier's active orders.
func NewGetActiveOrdersQuery(courierID kernel.UUID) (GetActiveOrdersQuery, error) {
	query := GetActiveOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := courierID.Validate(); err != nil {
		return GetActiveOrdersQuery{}, err
	}
	query.courierID = courierID

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetActiveOrdersQueryIsNotConstructed if validation fails.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// CourierID returns the courier whose active orders are listed.
func (q GetActiveOrdersQuery) CourierID() kernel.UUID {
	return q.courierID
}

// GetActiveOrdersQueryResponse is one active order row as the courier's
// order screen shows it.
type GetActiveOrdersQueryResponse struct {
	ID             kernel.UUID
	RestaurantID   kernel.UUID
	RestaurantName string
	Status         string
	PaymentMethod  string
	CourierFee     int64
	CashDue        int64
	CardDue        int64
	GiftDue        int64
	Neighborhood   string
	ImageRef       string
}
