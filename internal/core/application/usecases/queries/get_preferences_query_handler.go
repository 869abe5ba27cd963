package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
)

// GetPreferencesQueryHandler reads one account's preference state from the
// mode column of its aggregate row plus its opt-in edge table.
type GetPreferencesQueryHandler struct {
	db *gorm.DB
}

// NewGetPreferencesQueryHandler creates a handler for preference queries.
func NewGetPreferencesQueryHandler(db *gorm.DB) GetPreferencesQueryHandler {
	return GetPreferencesQueryHandler{db: db}
}

// Handle routes the read to the courier or restaurant side of the schema.
func (h GetPreferencesQueryHandler) Handle(
	ctx context.Context,
	query GetPreferencesQuery,
) (GetPreferencesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPreferencesQueryResponse{}, err
	}

	actor := query.Actor()
	if actor.Role == kernel.RoleCourier {
		return h.courierSide(ctx, actor.UserID)
	}
	return h.restaurantSide(ctx, actor.UserID)
}

func (h GetPreferencesQueryHandler) courierSide(
	ctx context.Context,
	courierID kernel.UUID,
) (GetPreferencesQueryResponse, error) {
	var resp GetPreferencesQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT notify_mode FROM couriers WHERE id = ?
	`, courierID.String()).Row()
	if err := row.Scan(&resp.Mode); err != nil {
		return GetPreferencesQueryResponse{}, err
	}

	selected, err := h.selectedIDs(ctx, `
		SELECT restaurant_id FROM courier_selections
		WHERE courier_id = ? AND selected
	`, courierID)
	if err != nil {
		return GetPreferencesQueryResponse{}, err
	}
	resp.SelectedIDs = selected

	return resp, nil
}

func (h GetPreferencesQueryHandler) restaurantSide(
	ctx context.Context,
	restaurantID kernel.UUID,
) (GetPreferencesQueryResponse, error) {
	var resp GetPreferencesQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT visibility_mode FROM restaurants WHERE id = ?
	`, restaurantID.String()).Row()
	if err := row.Scan(&resp.Mode); err != nil {
		return GetPreferencesQueryResponse{}, err
	}

	selected, err := h.selectedIDs(ctx, `
		SELECT courier_id FROM restaurant_selections
		WHERE restaurant_id = ? AND selected
	`, restaurantID)
	if err != nil {
		return GetPreferencesQueryResponse{}, err
	}
	resp.SelectedIDs = selected

	return resp, nil
}

func (h GetPreferencesQueryHandler) selectedIDs(
	ctx context.Context,
	sql string,
	ownerID kernel.UUID,
) ([]kernel.UUID, error) {
	rows, err := h.db.WithContext(ctx).Raw(sql, ownerID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]kernel.UUID, 0)
	for rows.Next() {
		var raw uuid.UUID
		if err = rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, idErr := kernel.UUIDFromBytes(raw[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
