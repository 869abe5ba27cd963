package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// CourierLocationCache holds the latest courier positions for live readers.
// Writes are best-effort: a cache failure never fails the location relay,
// the throttled persisted write remains authoritative.
type CourierLocationCache interface {
	// SetLocation stores the courier's latest position.
	SetLocation(ctx context.Context, courierID kernel.UUID, p kernel.GeoPoint) error

	// GetLocation returns the courier's latest cached position.
	GetLocation(ctx context.Context, courierID kernel.UUID) (kernel.GeoPoint, error)
}
