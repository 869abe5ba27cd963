// Package sessionrepo implements session persistence over GORM.
package sessionrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
)

// SessionDTO represents the database structure for persisting sessions.
// TokenID carries the token's jti claim and is how the transport layer finds
// the session backing a presented token.
type SessionDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TokenID      uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	UserID       uuid.UUID `gorm:"type:uuid;index:idx_sessions_identity"`
	Role         string    `gorm:"index:idx_sessions_identity"`
	ConnectionID *string
	Device       string
	IP           string
	Active       bool `gorm:"index"`
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// TableName overrides GORM's default naming to use "sessions".
func (SessionDTO) TableName() string {
	return "sessions"
}

func fromDomain(aggregate *session.Session) SessionDTO {
	identity := aggregate.Identity()

	return SessionDTO{
		ID:           aggregate.ID().Bytes(),
		TokenID:      aggregate.TokenID().Bytes(),
		UserID:       identity.UserID.Bytes(),
		Role:         identity.Role.String(),
		ConnectionID: aggregate.ConnectionID(),
		Device:       aggregate.Device(),
		IP:           aggregate.IP(),
		Active:       aggregate.IsActive(),
		CreatedAt:    aggregate.CreatedAt(),
		ExpiresAt:    aggregate.ExpiresAt(),
	}
}

func toDomain(dto SessionDTO) (*session.Session, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	tokenID, err := kernel.UUIDFromBytes(dto.TokenID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	identity, err := kernel.NewIdentity(userID, kernel.Role(dto.Role))
	if err != nil {
		return nil, err
	}

	return session.RestoreSession(
		id,
		tokenID,
		identity,
		dto.ConnectionID,
		dto.Device,
		dto.IP,
		dto.Active,
		dto.CreatedAt,
		dto.ExpiresAt,
	)
}
