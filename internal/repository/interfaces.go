package repository

import (
	"context"

	"github.com/coeus-hk/feeds/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUUID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, user *domain.User) error
}

type FollowRepository interface {
	Create(ctx context.Context, follow *domain.Follow) error
	Delete(ctx context.Context, userUUID, feedOwnerUUID uuid.UUID) error
	Get(ctx context.Context, userUUID, feedOwnerUUID uuid.UUID) (*domain.Follow, error)
	ListByFollower(ctx context.Context, userUUID uuid.UUID) ([]domain.Follow, error)
	ListByFeedOwner(ctx context.Context, feedOwnerUUID uuid.UUID) ([]domain.Follow, error)
}

type TweetRepository interface {
	Create(ctx context.Context, tweet *domain.Tweet) error
	GetByID(ctx context.Context, id int64) (*domain.Tweet, error)
	ListByAuthor(ctx context.Context, authorUUID uuid.UUID, beforeID int64, limit int) ([]domain.Tweet, int64, error)
	ListByAuthors(ctx context.Context, authorUUIDs []uuid.UUID, beforeID int64, limit int) ([]domain.Tweet, int64, error)
}

type Repositories struct {
	User   UserRepository
	Follow FollowRepository
	Tweet  TweetRepository
}
