// Package orderrepo implements order persistence over GORM, mapping the
// order aggregate to its relational representation and back.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order
// aggregates. Status is stored under its wire name so the conditional
// accept can match on it directly.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RestaurantID  uuid.UUID  `gorm:"type:uuid;index"`
	CourierID     *uuid.UUID `gorm:"type:uuid;index"`
	Status        string     `gorm:"index"`
	PaymentMethod string
	CourierFee    int64
	CashDue       int64
	CardDue       int64
	GiftDue       int64
	Neighborhood  string
	ImageRef      string
	CreatedAt     time.Time `gorm:"index"`
	AcceptedAt    *time.Time
	DeliveredAt   *time.Time
	ApprovedAt    *time.Time
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	cash, card, gift := aggregate.Amounts()

	return OrderDTO{
		ID:            aggregate.ID().Bytes(),
		RestaurantID:  aggregate.RestaurantID().Bytes(),
		CourierID:     courierID,
		Status:        aggregate.Status().String(),
		PaymentMethod: aggregate.PaymentMethod(),
		CourierFee:    aggregate.CourierFee(),
		CashDue:       cash,
		CardDue:       card,
		GiftDue:       gift,
		Neighborhood:  aggregate.Neighborhood(),
		ImageRef:      aggregate.ImageRef(),
		CreatedAt:     aggregate.CreatedAt(),
		AcceptedAt:    aggregate.AcceptedAt(),
		DeliveredAt:   aggregate.DeliveredAt(),
		ApprovedAt:    aggregate.ApprovedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		restaurantID,
		courierID,
		status,
		dto.PaymentMethod,
		dto.CourierFee, dto.CashDue, dto.CardDue, dto.GiftDue,
		dto.Neighborhood,
		dto.ImageRef,
		dto.CreatedAt,
		dto.AcceptedAt,
		dto.DeliveredAt,
		dto.ApprovedAt,
	)
}
