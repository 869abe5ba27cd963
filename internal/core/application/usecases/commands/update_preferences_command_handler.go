package commands

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/restaurant"
)

// UpdatePreferencesCommandHandler applies one side's targeting preference
// changes: the mode flag on the owning aggregate and the opt-in edges in the
// preference store, in one transaction. The change takes effect on the next
// order announcement; pending announcements are not recomputed.
type UpdatePreferencesCommandHandler struct {
	uowFactory PreferenceUoWFactory
}

// NewUpdatePreferencesCommandHandler creates a handler for preference updates.
func NewUpdatePreferencesCommandHandler(uowFactory PreferenceUoWFactory) UpdatePreferencesCommandHandler {
	return UpdatePreferencesCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle routes the update to the courier or restaurant side based on the
// actor's role.
func (h UpdatePreferencesCommandHandler) Handle(ctx context.Context, command UpdatePreferencesCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	actor := command.Actor()
	switch actor.Role {
	case kernel.RoleCourier:
		if err := h.applyCourierSide(ctx, uow, command); err != nil {
			return err
		}
	case kernel.RoleRestaurant:
		if err := h.applyRestaurantSide(ctx, uow, command); err != nil {
			return err
		}
	default:
		return ErrPreferenceActorRole
	}

	return uow.Commit(ctx)
}

func (h UpdatePreferencesCommandHandler) applyCourierSide(
	ctx context.Context,
	uow PreferenceUoW,
	command UpdatePreferencesCommand,
) error {
	courierID := command.Actor().UserID

	if mode := command.Mode(); mode != "" {
		c, err := uow.CourierRepository().Get(ctx, courierID)
		if err != nil {
			return err
		}
		if err = c.SetNotifyMode(courier.NotifyMode(mode)); err != nil {
			return err
		}
		if err = uow.CourierRepository().Update(ctx, c); err != nil {
			return err
		}
	}

	prefRepo := uow.PreferenceRepository()
	for _, restaurantID := range command.Selects() {
		if err := prefRepo.UpsertCourierSelection(ctx, courierID, restaurantID, true); err != nil {
			return err
		}
	}
	for _, restaurantID := range command.Removals() {
		if err := prefRepo.UpsertCourierSelection(ctx, courierID, restaurantID, false); err != nil {
			return err
		}
	}
	return nil
}

func (h UpdatePreferencesCommandHandler) applyRestaurantSide(
	ctx context.Context,
	uow PreferenceUoW,
	command UpdatePreferencesCommand,
) error {
	restaurantID := command.Actor().UserID

	if mode := command.Mode(); mode != "" {
		r, err := uow.RestaurantRepository().Get(ctx, restaurantID)
		if err != nil {
			return err
		}
		if err = r.SetVisibilityMode(restaurant.VisibilityMode(mode)); err != nil {
			return err
		}
		if err = uow.RestaurantRepository().Update(ctx, r); err != nil {
			return err
		}
	}

	prefRepo := uow.PreferenceRepository()
	for _, courierID := range command.Selects() {
		if err := prefRepo.UpsertRestaurantSelection(ctx, restaurantID, courierID, true); err != nil {
			return err
		}
	}
	for _, courierID := range command.Removals() {
		if err := prefRepo.UpsertRestaurantSelection(ctx, restaurantID, courierID, false); err != nil {
			return err
		}
	}
	return nil
}
