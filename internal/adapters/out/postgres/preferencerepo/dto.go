// Package preferencerepo implements the two directional opt-in edge sets
// over GORM: courier→restaurant notification opt-ins and restaurant→courier
// visibility opt-ins.
package preferencerepo

import (
	"github.com/google/uuid"
)

// CourierSelectionDTO is one courier→restaurant notification opt-in edge.
type CourierSelectionDTO struct {
	CourierID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Selected     bool
}

// TableName overrides GORM's default naming to use "courier_selections".
func (CourierSelectionDTO) TableName() string {
	return "courier_selections"
}

// RestaurantSelectionDTO is one restaurant→courier visibility opt-in edge.
type RestaurantSelectionDTO struct {
	RestaurantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Selected     bool
}

// TableName overrides GORM's default naming to use "restaurant_selections".
func (RestaurantSelectionDTO) TableName() string {
	return "restaurant_selections"
}
