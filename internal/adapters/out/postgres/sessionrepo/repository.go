package sessionrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/pkg/errs"
)

// GormSessionRepository implements SessionRepository using GORM.
type GormSessionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSessionRepository creates a new GORM session repository.
func NewGormSessionRepository(db *gorm.DB, tracker aggregateTracker) *GormSessionRepository {
	return &GormSessionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new session to the database.
func (r *GormSessionRepository) Add(ctx context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing session to the database. Select("*") keeps the
// active flag and the nullable connection binding in the update set.
func (r *GormSessionRepository) Update(ctx context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&SessionDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByTokenID retrieves the session carrying the given token id.
func (r *GormSessionRepository) GetByTokenID(ctx context.Context, tokenID kernel.UUID) (*session.Session, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, err
	}

	var dto SessionDTO
	if err := r.db.WithContext(ctx).First(&dto, "token_id = ?", tokenID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("session", tokenID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByIdentity retrieves all active sessions for an identity.
func (r *GormSessionRepository) GetActiveByIdentity(
	ctx context.Context,
	identity kernel.Identity,
) ([]*session.Session, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	var dtos []SessionDTO
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ? AND active = ?",
			identity.UserID.Bytes(), identity.Role.String(), true).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// InvalidateAllFor flips active=false on every active session of the
// identity and returns the sessions as they were before invalidation, so
// the caller can force-logout any bound connection.
func (r *GormSessionRepository) InvalidateAllFor(
	ctx context.Context,
	identity kernel.Identity,
) ([]*session.Session, error) {
	evicted, err := r.GetActiveByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	if len(evicted) == 0 {
		return evicted, nil
	}

	err = r.db.WithContext(ctx).
		Model(&SessionDTO{}).
		Where("user_id = ? AND role = ? AND active = ?",
			identity.UserID.Bytes(), identity.Role.String(), true).
		Update("active", false).Error
	if err != nil {
		return nil, err
	}

	return evicted, nil
}

func toDomainSlice(dtos []SessionDTO) ([]*session.Session, error) {
	sessions := make([]*session.Session, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
