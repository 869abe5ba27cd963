package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetPreferencesQueryIsNotConstructed = errors.New(
	"GetPreferencesQuery must be created via NewGetPreferencesQuery constructor",
)

// GetPreferencesQuery retrieves one account's targeting preferences: its
// mode flag plus the counterpart ids it opted into. Works for couriers
// (notification preferences) and restaurants (visibility preferences).
type GetPreferencesQuery struct { //nolint:recvcheck //using for validation
	actor kernel.Identity

	guard guard.ConstructorGuard
}

// NewGetPreferencesQuery creates a query for an account's preferences.
// Admins hold no preferences.
func NewGetPreferencesQuery(actor kernel.Identity) (GetPreferencesQuery, error) {
	query := GetPreferencesQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := actor.Validate(); err != nil {
		return GetPreferencesQuery{}, err
	}
	if actor.Role == kernel.RoleAdmin {
		return GetPreferencesQuery{}, errors.New("admins hold no preferences")
	}
	query.actor = actor

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetPreferencesQueryIsNotConstructed if validation fails.
func (q GetPreferencesQuery) Validate() error {
	return q.guard.Validate(ErrGetPreferencesQueryIsNotConstructed)
}

// Actor returns the account whose preferences are read.
func (q GetPreferencesQuery) Actor() kernel.Identity {
	return q.actor
}

// GetPreferencesQueryResponse carries one side's preference state. For a
// courier, Mode is the notify mode and SelectedIDs the opted-into
// restaurants; for a restaurant, Mode is the visibility mode and
// SelectedIDs the opted-into couriers.
type GetPreferencesQueryResponse struct {
	Mode        string
	SelectedIDs []kernel.UUID
}
