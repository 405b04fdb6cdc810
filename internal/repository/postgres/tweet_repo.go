package postgres

import (
	"context"

	"github.com/coeus-hk/feeds/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) *tweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

func (r *tweetRepository) GetByID(ctx context.Context, id int64) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := r.db.WithContext(ctx).First(&tweet, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *tweetRepository) ListByAuthor(ctx context.Context, authorUUID uuid.UUID, beforeID int64, limit int) ([]domain.Tweet, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Tweet{}).
		Where("user_uuid = ?", authorUUID)
	return r.list(query, beforeID, limit)
}

func (r *tweetRepository) ListByAuthors(ctx context.Context, authorUUIDs []uuid.UUID, beforeID int64, limit int) ([]domain.Tweet, int64, error) {
	if len(authorUUIDs) == 0 {
		return []domain.Tweet{}, 0, nil
	}
	query := r.db.WithContext(ctx).Model(&domain.Tweet{}).
		Where("user_uuid IN ?", authorUUIDs)
	return r.list(query, beforeID, limit)
}

// list applies the cursor and limit, returning the page plus the total number
// of matching rows (the count ignores the limit).
func (r *tweetRepository) list(query *gorm.DB, beforeID int64, limit int) ([]domain.Tweet, int64, error) {
	if beforeID > 0 {
		query = query.Where("id <= ?", beforeID)
	}
	// Reusable session so Count and Find each run on a clean statement.
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var tweets []domain.Tweet
	err := query.
		Order("tweet_datetime DESC, id DESC").
		Limit(limit).
		Find(&tweets).Error
	if err != nil {
		return nil, 0, err
	}
	return tweets, count, nil
}
