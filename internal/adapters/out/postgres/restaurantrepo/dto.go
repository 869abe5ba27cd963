// Package restaurantrepo implements restaurant persistence over GORM.
package restaurantrepo

import (
	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/restaurant"
)

// RestaurantDTO represents the database structure for persisting restaurant
// aggregates.
type RestaurantDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string
	VisibilityMode string
	Lat            *float64
	Lng            *float64
}

// TableName overrides GORM's default naming to use "restaurants".
func (RestaurantDTO) TableName() string {
	return "restaurants"
}

func fromDomain(aggregate *restaurant.Restaurant) RestaurantDTO {
	var lat, lng *float64
	if p := aggregate.Location(); p != nil {
		latValue, lngValue := p.Lat(), p.Lng()
		lat, lng = &latValue, &lngValue
	}

	return RestaurantDTO{
		ID:             aggregate.ID().Bytes(),
		Name:           aggregate.Name(),
		VisibilityMode: string(aggregate.VisibilityMode()),
		Lat:            lat,
		Lng:            lng,
	}
}

func toDomain(dto RestaurantDTO) (*restaurant.Restaurant, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	return restaurant.RestoreRestaurant(
		id,
		dto.Name,
		restaurant.VisibilityMode(dto.VisibilityMode),
		location,
	)
}
