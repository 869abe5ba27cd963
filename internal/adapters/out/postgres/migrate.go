package postgres

import (
	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/preferencerepo"
	"dispatch/internal/adapters/out/postgres/pushtokenrepo"
	"dispatch/internal/adapters/out/postgres/restaurantrepo"
	"dispatch/internal/adapters/out/postgres/sessionrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the database schema for all aggregates.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.CourierDTO{},
		&restaurantrepo.RestaurantDTO{},
		&sessionrepo.SessionDTO{},
		&preferencerepo.CourierSelectionDTO{},
		&preferencerepo.RestaurantSelectionDTO{},
		&pushtokenrepo.PushTokenDTO{},
	)
}
