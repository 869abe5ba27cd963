// Package restaurant contains the Restaurant aggregate. The restaurant's
// courier-visibility mode is the restaurant-side half of the bidirectional
// preference filter used when broadcasting new orders.
package restaurant

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// VisibilityMode controls which couriers see the restaurant's new orders.
type VisibilityMode string

const (
	// VisibleToAllCouriers broadcasts new orders to every non-blocked courier.
	VisibleToAllCouriers VisibilityMode = "all_couriers"

	// VisibleToSelectedCouriers limits broadcasts to couriers the restaurant
	// explicitly selected.
	VisibleToSelectedCouriers VisibilityMode = "selected_couriers"
)

// Validate checks the mode against the known set.
func (m VisibilityMode) Validate() error {
	switch m {
	case VisibleToAllCouriers, VisibleToSelectedCouriers:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"visibilityMode is invalid",
			fmt.Errorf("%q is not a valid visibility mode", string(m)),
		)
	}
}

var (
	// ErrNameIsRequired is returned when attempting to create a restaurant without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrRestaurantIsNotConstructed is returned when using an improperly initialized Restaurant.
	ErrRestaurantIsNotConstructed = errors.New("Restaurant must be created via NewRestaurant or RestoreRestaurant")
)

// Restaurant represents a restaurant account placing orders for dispatch.
type Restaurant struct {
	id             kernel.UUID
	name           string
	visibilityMode VisibilityMode

	// location is the pickup position, nil when never set.
	location *kernel.GeoPoint

	isConstructed bool
}

// NewRestaurant creates a restaurant with the default VisibleToAllCouriers mode.
func NewRestaurant(id kernel.UUID, name string) (*Restaurant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameIsRequired
	}

	return &Restaurant{
		id:             id,
		name:           name,
		visibilityMode: VisibleToAllCouriers,
		isConstructed:  true,
	}, nil
}

// RestoreRestaurant reconstructs a restaurant from persistence.
func RestoreRestaurant(
	id kernel.UUID,
	name string,
	visibilityMode VisibilityMode,
	location *kernel.GeoPoint,
) (*Restaurant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameIsRequired
	}
	if err := visibilityMode.Validate(); err != nil {
		return nil, err
	}

	return &Restaurant{
		id:             id,
		name:           name,
		visibilityMode: visibilityMode,
		location:       location,
		isConstructed:  true,
	}, nil
}

// Validate ensures the Restaurant was properly constructed.
func (r *Restaurant) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRestaurantIsNotConstructed
	}
	return nil
}

// ID returns the restaurant's unique identifier.
func (r *Restaurant) ID() kernel.UUID {
	return r.id
}

// Name returns the restaurant's display name.
func (r *Restaurant) Name() string {
	return r.name
}

// VisibilityMode returns the restaurant's courier-visibility mode.
func (r *Restaurant) VisibilityMode() VisibilityMode {
	return r.visibilityMode
}

// Location returns the pickup position, or nil when never set.
func (r *Restaurant) Location() *kernel.GeoPoint {
	return r.location
}

// SetVisibilityMode changes the courier-visibility mode.
func (r *Restaurant) SetVisibilityMode(mode VisibilityMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	r.visibilityMode = mode
	return nil
}

// SetLocation updates the pickup position.
func (r *Restaurant) SetLocation(p kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.location = &p
	return nil
}
