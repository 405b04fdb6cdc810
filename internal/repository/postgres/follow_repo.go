package postgres

import (
	"context"

	"github.com/coeus-hk/feeds/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *followRepository {
	return &followRepository{db: db}
}

// Create inserts the edge. Re-following is a no-op thanks to the composite
// primary key and DO NOTHING, so the call is idempotent.
func (r *followRepository) Create(ctx context.Context, follow *domain.Follow) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow).Error
}

func (r *followRepository) Delete(ctx context.Context, userUUID, feedOwnerUUID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Follow{}, "user_uuid = ? AND feed_owner_uuid = ?", userUUID, feedOwnerUUID).Error
}

func (r *followRepository) Get(ctx context.Context, userUUID, feedOwnerUUID uuid.UUID) (*domain.Follow, error) {
	var follow domain.Follow
	err := r.db.WithContext(ctx).
		First(&follow, "user_uuid = ? AND feed_owner_uuid = ?", userUUID, feedOwnerUUID).Error
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *followRepository) ListByFollower(ctx context.Context, userUUID uuid.UUID) ([]domain.Follow, error) {
	var follows []domain.Follow
	err := r.db.WithContext(ctx).
		Where("user_uuid = ?", userUUID).
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return follows, nil
}

func (r *followRepository) ListByFeedOwner(ctx context.Context, feedOwnerUUID uuid.UUID) ([]domain.Follow, error) {
	var follows []domain.Follow
	err := r.db.WithContext(ctx).
		Where("feed_owner_uuid = ?", feedOwnerUUID).
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return follows, nil
}
