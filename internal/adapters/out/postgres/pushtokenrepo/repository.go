package pushtokenrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// GormPushTokenRepository implements PushTokenRepository using GORM.
type GormPushTokenRepository struct {
	db *gorm.DB
}

// NewGormPushTokenRepository creates a new GORM push token repository.
func NewGormPushTokenRepository(db *gorm.DB) *GormPushTokenRepository {
	return &GormPushTokenRepository{db: db}
}

// Upsert stores the token for the identity, replacing any previous
// registration.
func (r *GormPushTokenRepository) Upsert(ctx context.Context, token ports.PushToken) error {
	if err := token.Identity.Validate(); err != nil {
		return err
	}

	dto := fromPort(token)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "role"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "platform", "active"}),
		}).
		Create(&dto).Error
}

// GetActive retrieves the active token of an identity.
func (r *GormPushTokenRepository) GetActive(
	ctx context.Context,
	identity kernel.Identity,
) (ports.PushToken, error) {
	if err := identity.Validate(); err != nil {
		return ports.PushToken{}, err
	}

	var dto PushTokenDTO
	err := r.db.WithContext(ctx).
		First(&dto, "user_id = ? AND role = ? AND active = ?",
			identity.UserID.Bytes(), identity.Role.String(), true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.PushToken{}, errs.NewObjectNotFoundError("push token", identity.String())
		}
		return ports.PushToken{}, err
	}

	return toPort(dto)
}

// Deactivate disables the identity's token without deleting the row.
func (r *GormPushTokenRepository) Deactivate(ctx context.Context, identity kernel.Identity) error {
	if err := identity.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&PushTokenDTO{}).
		Where("user_id = ? AND role = ?", identity.UserID.Bytes(), identity.Role.String()).
		Update("active", false).Error
}
