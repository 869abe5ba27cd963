package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// Recognized push token platforms.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// PushToken is the registered push-delivery address of an account. The
// (user id, role) pair is the unique key; the latest registration wins.
type PushToken struct {
	Identity kernel.Identity
	Token    string
	Platform string
	Active   bool
}

// PushTokenRepository defines the persistence contract for push tokens.
type PushTokenRepository interface {
	// Upsert stores the token for the identity, replacing any previous
	// registration.
	Upsert(ctx context.Context, token PushToken) error

	// GetActive retrieves the active token of an identity. Returns an
	// ObjectNotFoundError when the identity never registered or deactivated
	// its token.
	GetActive(ctx context.Context, identity kernel.Identity) (PushToken, error)

	// Deactivate disables the identity's token without deleting the row.
	Deactivate(ctx context.Context, identity kernel.Identity) error
}
