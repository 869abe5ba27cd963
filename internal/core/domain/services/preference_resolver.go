package services

import (
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/restaurant"
)

// PreferenceResolver is a domain service that computes which couriers are
// eligible to receive a restaurant's new order. Eligibility is the
// intersection of two independent opt-in directions:
//
//  1. restaurant side: in VisibleToSelectedCouriers mode only couriers the
//     restaurant selected are considered, otherwise every non-blocked courier;
//  2. courier side: a courier in NotifySelectedRestaurants mode is kept only
//     if it selected this restaurant.
//
// Fallback: when the restaurant is in selected mode but its selection is
// empty, the resolver falls back to all non-blocked couriers instead of
// delivering to nobody. New orders must never be orphaned by a half-finished
// preference setup; product wants this reviewed, see DESIGN notes.
//
// Example:
//
//	resolver := services.NewPreferenceResolver()
//	eligible := resolver.EligibleCouriers(rest, couriers, selectedByRestaurant, selectedByCourier)
//	for _, c := range eligible {
//	    // broadcast new_order to c
//	}
type PreferenceResolver struct{}

// NewPreferenceResolver creates a PreferenceResolver instance.
func NewPreferenceResolver() PreferenceResolver {
	return PreferenceResolver{}
}

// EligibleCouriers returns the delivery-eligible subset of couriers for an
// order of the given restaurant.
//
// Parameters:
//   - rest: the restaurant placing the order
//   - couriers: the full candidate pool (typically all couriers)
//   - selectedByRestaurant: courier ids the restaurant opted into
//   - selectedByCourier: for each courier id, the restaurant ids that courier opted into
//
// Blocked couriers never receive orders regardless of any selection.
func (PreferenceResolver) EligibleCouriers(
	rest *restaurant.Restaurant,
	couriers []*courier.Courier,
	selectedByRestaurant []kernel.UUID,
	selectedByCourier map[kernel.UUID][]kernel.UUID,
) []*courier.Courier {
	candidates := restaurantSide(rest, couriers, selectedByRestaurant)

	eligible := make([]*courier.Courier, 0, len(candidates))
	for _, c := range candidates {
		if courierSide(c, rest.ID(), selectedByCourier[c.ID()]) {
			eligible = append(eligible, c)
		}
	}
	return eligible
}

// restaurantSide applies the restaurant's visibility mode, including the
// empty-selection fallback.
func restaurantSide(
	rest *restaurant.Restaurant,
	couriers []*courier.Courier,
	selected []kernel.UUID,
) []*courier.Courier {
	unblocked := make([]*courier.Courier, 0, len(couriers))
	for _, c := range couriers {
		if !c.IsBlocked() {
			unblocked = append(unblocked, c)
		}
	}

	if rest.VisibilityMode() == restaurant.VisibleToAllCouriers || len(selected) == 0 {
		return unblocked
	}

	keep := make(map[kernel.UUID]struct{}, len(selected))
	for _, id := range selected {
		keep[id] = struct{}{}
	}

	filtered := make([]*courier.Courier, 0, len(unblocked))
	for _, c := range unblocked {
		if _, ok := keep[c.ID()]; ok {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// courierSide applies the courier's notification mode.
func courierSide(c *courier.Courier, restaurantID kernel.UUID, selected []kernel.UUID) bool {
	if c.NotifyMode() == courier.NotifyAllRestaurants {
		return true
	}
	for _, id := range selected {
		if id.IsEqual(restaurantID) {
			return true
		}
	}
	return false
}
