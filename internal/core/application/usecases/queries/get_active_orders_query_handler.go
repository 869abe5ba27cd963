package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
)

// GetActiveOrdersQueryHandler reads a courier's in-flight orders joined with
// the restaurant name, straight from the database.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle returns the courier's assigned and awaiting-approval orders,
// oldest acceptance first.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.restaurant_id,
			r.name,
			o.status,
			o.payment_method,
			o.courier_fee,
			o.cash_due,
			o.card_due,
			o.gift_due,
			o.neighborhood,
			o.image_ref
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.courier_id = ?
		  AND o.status IN ('assigned', 'awaiting_approval')
		ORDER BY o.accepted_at
	`, query.CourierID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp         GetActiveOrdersQueryResponse
			id           uuid.UUID
			restaurantID uuid.UUID
		)

		err = rows.Scan(
			&id,
			&restaurantID,
			&resp.RestaurantName,
			&resp.Status,
			&resp.PaymentMethod,
			&resp.CourierFee,
			&resp.CashDue,
			&resp.CardDue,
			&resp.GiftDue,
			&resp.Neighborhood,
			&resp.ImageRef,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		restID, idErr := kernel.UUIDFromBytes(restaurantID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.RestaurantID = restID

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
