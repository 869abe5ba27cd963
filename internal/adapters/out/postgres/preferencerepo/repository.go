package preferencerepo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dispatch/internal/core/domain/model/kernel"
)

// GormPreferenceRepository implements PreferenceRepository using GORM.
// Edges are written with an upsert so repeated toggles stay idempotent.
type GormPreferenceRepository struct {
	db *gorm.DB
}

// NewGormPreferenceRepository creates a new GORM preference repository.
func NewGormPreferenceRepository(db *gorm.DB) *GormPreferenceRepository {
	return &GormPreferenceRepository{db: db}
}

// UpsertCourierSelection records whether a courier opted into a restaurant.
func (r *GormPreferenceRepository) UpsertCourierSelection(
	ctx context.Context,
	courierID, restaurantID kernel.UUID,
	selected bool,
) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	dto := CourierSelectionDTO{
		CourierID:    courierID.Bytes(),
		RestaurantID: restaurantID.Bytes(),
		Selected:     selected,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "courier_id"}, {Name: "restaurant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"selected"}),
		}).
		Create(&dto).Error
}

// UpsertRestaurantSelection records whether a restaurant opted into a courier.
func (r *GormPreferenceRepository) UpsertRestaurantSelection(
	ctx context.Context,
	restaurantID, courierID kernel.UUID,
	selected bool,
) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}

	dto := RestaurantSelectionDTO{
		RestaurantID: restaurantID.Bytes(),
		CourierID:    courierID.Bytes(),
		Selected:     selected,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "restaurant_id"}, {Name: "courier_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"selected"}),
		}).
		Create(&dto).Error
}

// GetRestaurantsSelectedByCourier returns the restaurant ids a courier
// opted into.
func (r *GormPreferenceRepository) GetRestaurantsSelectedByCourier(
	ctx context.Context,
	courierID kernel.UUID,
) ([]kernel.UUID, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []CourierSelectionDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "courier_id = ? AND selected = ?", courierID.Bytes(), true).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(dtos))
	for _, dto := range dtos {
		id, idErr := kernel.UUIDFromBytes(dto.RestaurantID[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetCouriersSelectedByRestaurant returns the courier ids a restaurant
// opted into.
func (r *GormPreferenceRepository) GetCouriersSelectedByRestaurant(
	ctx context.Context,
	restaurantID kernel.UUID,
) ([]kernel.UUID, error) {
	if err := restaurantID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RestaurantSelectionDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "restaurant_id = ? AND selected = ?", restaurantID.Bytes(), true).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(dtos))
	for _, dto := range dtos {
		id, idErr := kernel.UUIDFromBytes(dto.CourierID[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetCourierSelections returns, for each given courier, the restaurant ids
// it opted into. One query for the whole candidate pool.
func (r *GormPreferenceRepository) GetCourierSelections(
	ctx context.Context,
	courierIDs []kernel.UUID,
) (map[kernel.UUID][]kernel.UUID, error) {
	selections := make(map[kernel.UUID][]kernel.UUID, len(courierIDs))
	if len(courierIDs) == 0 {
		return selections, nil
	}

	rawIDs := make([]uuid.UUID, 0, len(courierIDs))
	for _, id := range courierIDs {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		rawIDs = append(rawIDs, id.Bytes())
	}

	var dtos []CourierSelectionDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "courier_id IN ? AND selected = ?", rawIDs, true).Error
	if err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		courierID, idErr := kernel.UUIDFromBytes(dto.CourierID[:])
		if idErr != nil {
			return nil, idErr
		}
		restaurantID, idErr := kernel.UUIDFromBytes(dto.RestaurantID[:])
		if idErr != nil {
			return nil, idErr
		}
		selections[courierID] = append(selections[courierID], restaurantID)
	}
	return selections, nil
}
