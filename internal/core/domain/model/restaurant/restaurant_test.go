package restaurant_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/restaurant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRestaurant(t *testing.T) {
	id := kernel.NewUUID()
	r, err := restaurant.NewRestaurant(id, "Lezzet Durağı")
	require.NoError(t, err)

	assert.True(t, r.ID().IsEqual(id))
	assert.Equal(t, restaurant.VisibleToAllCouriers, r.VisibilityMode())
	assert.Nil(t, r.Location())
	require.NoError(t, r.Validate())
}

func TestNewRestaurant_InvalidInput(t *testing.T) {
	_, err := restaurant.NewRestaurant(kernel.UUID{}, "Lezzet")
	require.Error(t, err)

	_, err = restaurant.NewRestaurant(kernel.NewUUID(), "")
	require.ErrorIs(t, err, restaurant.ErrNameIsRequired)
}

func TestRestaurant_SetVisibilityMode(t *testing.T) {
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Lezzet")
	require.NoError(t, err)

	require.NoError(t, r.SetVisibilityMode(restaurant.VisibleToSelectedCouriers))
	assert.Equal(t, restaurant.VisibleToSelectedCouriers, r.VisibilityMode())

	require.Error(t, r.SetVisibilityMode("nobody"))
}

func TestRestaurant_SetLocation(t *testing.T) {
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Lezzet")
	require.NoError(t, err)

	p, err := kernel.NewGeoPoint(40.9909, 29.0303)
	require.NoError(t, err)
	require.NoError(t, r.SetLocation(p))
	require.NotNil(t, r.Location())
	assert.True(t, r.Location().IsEqual(p))
}

func TestRestoreRestaurant_InvalidMode(t *testing.T) {
	_, err := restaurant.RestoreRestaurant(kernel.NewUUID(), "Lezzet", "bogus", nil)
	require.Error(t, err)
}

func TestRestaurant_ZeroValueFailsValidation(t *testing.T) {
	var r restaurant.Restaurant
	require.ErrorIs(t, r.Validate(), restaurant.ErrRestaurantIsNotConstructed)
}
