package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
)

func TestNewGetActiveOrdersQuery_Valid(t *testing.T) {
	courierID := kernel.NewUUID()
	query, err := queries.NewGetActiveOrdersQuery(courierID)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.True(t, courierID.IsEqual(query.CourierID()))
}

func TestGetActiveOrdersQuery_ZeroValueFailsValidation(t *testing.T) {
	var query queries.GetActiveOrdersQuery
	require.ErrorIs(t, query.Validate(), queries.ErrGetActiveOrdersQueryIsNotConstructed)
}

func TestNewGetPreferencesQuery_AdminRejected(t *testing.T) {
	admin := kernel.Identity{UserID: kernel.NewUUID(), Role: kernel.RoleAdmin}
	_, err := queries.NewGetPreferencesQuery(admin)
	require.Error(t, err)
}

func TestNewGetPreferencesQuery_CourierAccepted(t *testing.T) {
	actor := kernel.Identity{UserID: kernel.NewUUID(), Role: kernel.RoleCourier}
	query, err := queries.NewGetPreferencesQuery(actor)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, actor, query.Actor())
}
