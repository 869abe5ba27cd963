package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCourier(t *testing.T, name string, mode courier.NotifyMode) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name)
	require.NoError(t, err)
	require.NoError(t, c.SetNotifyMode(mode))
	return c
}

func ids(couriers []*courier.Courier) []string {
	out := make([]string, 0, len(couriers))
	for _, c := range couriers {
		out = append(out, c.Name())
	}
	return out
}

func TestEligibleCouriers_BidirectionalFilter(t *testing.T) {
	// Restaurant R is visible to all couriers. C1 listens to everyone,
	// C2 only listens to restaurants it selected and has not selected R.
	rest, err := restaurant.NewRestaurant(kernel.NewUUID(), "R")
	require.NoError(t, err)

	c1 := mustCourier(t, "C1", courier.NotifyAllRestaurants)
	c2 := mustCourier(t, "C2", courier.NotifySelectedRestaurants)

	eligible := services.NewPreferenceResolver().EligibleCouriers(
		rest,
		[]*courier.Courier{c1, c2},
		nil,
		map[kernel.UUID][]kernel.UUID{},
	)

	assert.Equal(t, []string{"C1"}, ids(eligible))
}

func TestEligibleCouriers_CourierOptedIn(t *testing.T) {
	rest, err := restaurant.NewRestaurant(kernel.NewUUID(), "R")
	require.NoError(t, err)

	c2 := mustCourier(t, "C2", courier.NotifySelectedRestaurants)

	eligible := services.NewPreferenceResolver().EligibleCouriers(
		rest,
		[]*courier.Courier{c2},
		nil,
		map[kernel.UUID][]kernel.UUID{c2.ID(): {rest.ID()}},
	)

	assert.Equal(t, []string{"C2"}, ids(eligible))
}

func TestEligibleCouriers_RestaurantSelectionApplied(t *testing.T) {
	rest, err := restaurant.NewRestaurant(kernel.NewUUID(), "R")
	require.NoError(t, err)
	require.NoError(t, rest.SetVisibilityMode(restaurant.VisibleToSelectedCouriers))

	chosen := mustCourier(t, "chosen", courier.NotifyAllRestaurants)
	other := mustCourier(t, "other", courier.NotifyAllRestaurants)

	eligible := services.NewPreferenceResolver().EligibleCouriers(
		rest,
		[]*courier.Courier{chosen, other},
		[]kernel.UUID{chosen.ID()},
		nil,
	)

	assert.Equal(t, []string{"chosen"}, ids(eligible))
}

func TestEligibleCouriers_EmptySelectionFallsBackToAll(t *testing.T) {
	// Selected mode with zero selected couriers must not deliver to nobody.
	rest, err := restaurant.NewRestaurant(kernel.NewUUID(), "R")
	require.NoError(t, err)
	require.NoError(t, rest.SetVisibilityMode(restaurant.VisibleToSelectedCouriers))

	c1 := mustCourier(t, "C1", courier.NotifyAllRestaurants)
	c2 := mustCourier(t, "C2", courier.NotifyAllRestaurants)

	eligible := services.NewPreferenceResolver().EligibleCouriers(
		rest,
		[]*courier.Courier{c1, c2},
		nil,
		nil,
	)

	assert.Len(t, eligible, 2)
}

func TestEligibleCouriers_BlockedCouriersExcluded(t *testing.T) {
	rest, err := restaurant.NewRestaurant(kernel.NewUUID(), "R")
	require.NoError(t, err)

	ok := mustCourier(t, "ok", courier.NotifyAllRestaurants)
	blocked := mustCourier(t, "blocked", courier.NotifyAllRestaurants)
	blocked.Block()

	eligible := services.NewPreferenceResolver().EligibleCouriers(
		rest,
		[]*courier.Courier{ok, blocked},
		[]kernel.UUID{ok.ID(), blocked.ID()},
		nil,
	)

	assert.Equal(t, []string{"ok"}, ids(eligible))
}
