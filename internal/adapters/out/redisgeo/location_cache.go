// Package redisgeo caches the latest courier positions in Redis. The GEO
// set supports proximity reads, the side keys carry the exact last point.
package redisgeo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	courierGeoKey    = "dispatch:couriers:geo"
	lastPointKeyTmpl = "dispatch:couriers:%s:last_point"

	// Couriers that stop reporting should drop out of the cache on their own.
	lastPointTTL = 15 * time.Minute
)

// LocationCache implements ports.CourierLocationCache on a Redis client.
type LocationCache struct {
	client *redis.Client
}

// NewLocationCache creates a cache bound to an existing Redis client.
func NewLocationCache(client *redis.Client) *LocationCache {
	return &LocationCache{client: client}
}

// SetLocation stores the courier's position in the GEO set and in the
// per-courier last-point hash. The hash preserves full float precision,
// which the GEO encoding does not.
func (c *LocationCache) SetLocation(ctx context.Context, courierID kernel.UUID, p kernel.GeoPoint) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	pipe := c.client.Pipeline()
	pipe.GeoAdd(ctx, courierGeoKey, &redis.GeoLocation{
		Name:      courierID.String(),
		Longitude: p.Lng(),
		Latitude:  p.Lat(),
	})
	lastPointKey := fmt.Sprintf(lastPointKeyTmpl, courierID.String())
	pipe.HSet(ctx, lastPointKey, map[string]any{
		"lat": strconv.FormatFloat(p.Lat(), 'f', -1, 64),
		"lng": strconv.FormatFloat(p.Lng(), 'f', -1, 64),
	})
	pipe.Expire(ctx, lastPointKey, lastPointTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache courier location: %w", err)
	}
	return nil
}

// GetLocation returns the courier's last cached position. Returns an
// ObjectNotFoundError when the courier never reported or its entry expired.
func (c *LocationCache) GetLocation(ctx context.Context, courierID kernel.UUID) (kernel.GeoPoint, error) {
	if err := courierID.Validate(); err != nil {
		return kernel.GeoPoint{}, err
	}

	fields, err := c.client.HGetAll(ctx, fmt.Sprintf(lastPointKeyTmpl, courierID.String())).Result()
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("read courier location: %w", err)
	}
	if len(fields) == 0 {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("courier location", courierID.String())
	}

	lat, err := strconv.ParseFloat(fields["lat"], 64)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("parse cached latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(fields["lng"], 64)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("parse cached longitude: %w", err)
	}

	return kernel.NewGeoPoint(lat, lng)
}

// Forget evicts a courier from the GEO set and drops its last point. Used
// when a courier goes offline.
func (c *LocationCache) Forget(ctx context.Context, courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	pipe := c.client.Pipeline()
	pipe.ZRem(ctx, courierGeoKey, courierID.String())
	pipe.Del(ctx, fmt.Sprintf(lastPointKeyTmpl, courierID.String()))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("evict courier location: %w", err)
	}
	return nil
}
