package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Role names the kind of account acting on the system. Presence tracking,
// sessions and notification routing are all keyed by (user id, role) so the
// same person may hold e.g. a courier and a restaurant account.
type Role string

const (
	RoleCourier    Role = "courier"
	RoleRestaurant Role = "restaurant"
	RoleAdmin      Role = "admin"
)

// Validate checks the role against the known set.
func (r Role) Validate() error {
	switch r {
	case RoleCourier, RoleRestaurant, RoleAdmin:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%q is not a valid role", string(r)))
	}
}

// String returns the wire name of the role.
func (r Role) String() string {
	return string(r)
}

// Identity is the (user id, role) pair that uniquely names an account for
// presence, session and notification purposes. It is a comparable value
// object and may be used as a map key.
type Identity struct {
	UserID UUID
	Role   Role
}

// NewIdentity creates a validated Identity.
func NewIdentity(userID UUID, role Role) (Identity, error) {
	if err := userID.Validate(); err != nil {
		return Identity{}, err
	}
	if err := role.Validate(); err != nil {
		return Identity{}, err
	}
	return Identity{UserID: userID, Role: role}, nil
}

// Validate re-checks both parts of the identity.
func (i Identity) Validate() error {
	if err := i.UserID.Validate(); err != nil {
		return err
	}
	return i.Role.Validate()
}

// String renders "role:<uuid>", the form used in log lines.
func (i Identity) String() string {
	return fmt.Sprintf("%s:%s", i.Role, i.UserID)
}
