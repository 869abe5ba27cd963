// Package courierrepo implements courier persistence over GORM.
package courierrepo

import (
	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierDTO represents the database structure for persisting courier
// aggregates. Location columns are nullable: a courier has no position
// until its first persisted report.
type CourierDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string
	Online         bool `gorm:"index"`
	Blocked        bool `gorm:"index"`
	NotifyMode     string
	Lat            *float64
	Lng            *float64
	DeliveredCount int
	OnlineMinutes  int
}

// TableName overrides GORM's default naming to use "couriers".
func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(aggregate *courier.Courier) CourierDTO {
	var lat, lng *float64
	if p := aggregate.Location(); p != nil {
		latValue, lngValue := p.Lat(), p.Lng()
		lat, lng = &latValue, &lngValue
	}

	return CourierDTO{
		ID:             aggregate.ID().Bytes(),
		Name:           aggregate.Name(),
		Online:         aggregate.IsOnline(),
		Blocked:        aggregate.IsBlocked(),
		NotifyMode:     string(aggregate.NotifyMode()),
		Lat:            lat,
		Lng:            lng,
		DeliveredCount: aggregate.DeliveredCount(),
		OnlineMinutes:  aggregate.OnlineMinutes(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
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

	return courier.RestoreCourier(
		id,
		dto.Name,
		dto.Online,
		dto.Blocked,
		courier.NotifyMode(dto.NotifyMode),
		location,
		dto.DeliveredCount,
		dto.OnlineMinutes,
	)
}
