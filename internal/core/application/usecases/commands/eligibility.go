package commands

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

// resolveEligibleCouriers loads the candidate pool and both opt-in edge sets
// and runs them through the preference resolver. Shared by every operation
// that (re)introduces an order into the pending pool.
func resolveEligibleCouriers(
	ctx context.Context,
	uow DispatchUoW,
	restaurantID kernel.UUID,
) ([]*courier.Courier, error) {
	rest, err := uow.RestaurantRepository().Get(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	couriers, err := uow.CourierRepository().GetAllUnblocked(ctx)
	if err != nil {
		return nil, err
	}

	prefRepo := uow.PreferenceRepository()
	selectedByRestaurant, err := prefRepo.GetCouriersSelectedByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	courierIDs := make([]kernel.UUID, 0, len(couriers))
	for _, c := range couriers {
		courierIDs = append(courierIDs, c.ID())
	}
	selectedByCourier, err := prefRepo.GetCourierSelections(ctx, courierIDs)
	if err != nil {
		return nil, err
	}

	resolver := services.NewPreferenceResolver()
	return resolver.EligibleCouriers(rest, couriers, selectedByRestaurant, selectedByCourier), nil
}

// courierIdentities maps couriers to notification recipients.
func courierIdentities(couriers []*courier.Courier) []kernel.Identity {
	identities := make([]kernel.Identity, 0, len(couriers))
	for _, c := range couriers {
		identities = append(identities, kernel.Identity{UserID: c.ID(), Role: kernel.RoleCourier})
	}
	return identities
}
