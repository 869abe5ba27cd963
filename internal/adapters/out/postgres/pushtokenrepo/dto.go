// Package pushtokenrepo implements push token persistence over GORM.
package pushtokenrepo

import (
	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// PushTokenDTO represents the database structure for push delivery
// addresses. (UserID, Role) is the key: one token per account, latest
// registration wins.
type PushTokenDTO struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role     string    `gorm:"primaryKey"`
	Token    string
	Platform string
	Active   bool
}

// TableName overrides GORM's default naming to use "push_tokens".
func (PushTokenDTO) TableName() string {
	return "push_tokens"
}

func fromPort(token ports.PushToken) PushTokenDTO {
	return PushTokenDTO{
		UserID:   token.Identity.UserID.Bytes(),
		Role:     token.Identity.Role.String(),
		Token:    token.Token,
		Platform: token.Platform,
		Active:   token.Active,
	}
}

func toPort(dto PushTokenDTO) (ports.PushToken, error) {
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return ports.PushToken{}, err
	}

	identity, err := kernel.NewIdentity(userID, kernel.Role(dto.Role))
	if err != nil {
		return ports.PushToken{}, err
	}

	return ports.PushToken{
		Identity: identity,
		Token:    dto.Token,
		Platform: dto.Platform,
		Active:   dto.Active,
	}, nil
}
