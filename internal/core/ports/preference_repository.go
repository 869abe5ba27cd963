package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// PreferenceRepository stores the two directional opt-in edge sets:
// courier→restaurant (notification opt-in) and restaurant→courier
// (visibility opt-in). Edges are unique per pair and only mutated through
// explicit preference-update calls.
type PreferenceRepository interface {
	// UpsertCourierSelection records whether a courier opted into a restaurant.
	UpsertCourierSelection(ctx context.Context, courierID, restaurantID kernel.UUID, selected bool) error

	// UpsertRestaurantSelection records whether a restaurant opted into a courier.
	UpsertRestaurantSelection(ctx context.Context, restaurantID, courierID kernel.UUID, selected bool) error

	// GetRestaurantsSelectedByCourier returns the restaurant ids a courier opted into.
	GetRestaurantsSelectedByCourier(ctx context.Context, courierID kernel.UUID) ([]kernel.UUID, error)

	// GetCouriersSelectedByRestaurant returns the courier ids a restaurant opted into.
	GetCouriersSelectedByRestaurant(ctx context.Context, restaurantID kernel.UUID) ([]kernel.UUID, error)

	// GetCourierSelections returns, for each given courier, the restaurant
	// ids it opted into. Bulk read for preference resolution.
	GetCourierSelections(ctx context.Context, courierIDs []kernel.UUID) (map[kernel.UUID][]kernel.UUID, error)
}
