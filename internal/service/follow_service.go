package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coeus-hk/feeds/internal/cache"
	"github.com/coeus-hk/feeds/internal/domain"
	"github.com/coeus-hk/feeds/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

// DefaultListTTL is the freshness window for cached follow-list snapshots.
const DefaultListTTL = 5 * time.Second

// FollowService manages the directed follow graph. List reads accept a
// freshness window; within it a stale snapshot may be served instead of
// hitting storage.
type FollowService struct {
	repo  repository.FollowRepository
	store cache.Store
}

func NewFollowService(repo repository.FollowRepository, store cache.Store) *FollowService {
	return &FollowService{
		repo:  repo,
		store: store,
	}
}

type followList struct {
	Edges []domain.Follow `json:"edges"`
	Count int64           `json:"count"`
}

// Create inserts the edge userUUID -> feedOwnerUUID. Following twice is a
// no-op; following yourself is rejected.
func (s *FollowService) Create(ctx context.Context, userUUID, feedOwnerUUID uuid.UUID) (*domain.Follow, error) {
	if userUUID == feedOwnerUUID {
		return nil, ErrSelfFollow
	}

	follow := &domain.Follow{
		UserUUID:      userUUID,
		FeedOwnerUUID: feedOwnerUUID,
	}
	if err := s.repo.Create(ctx, follow); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userUUID, feedOwnerUUID)
	return follow, nil
}

// Remove deletes the edge if present; removing an absent edge is not an error.
func (s *FollowService) Remove(ctx context.Context, userUUID, feedOwnerUUID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userUUID, feedOwnerUUID); err != nil {
		return err
	}
	s.invalidate(ctx, userUUID, feedOwnerUUID)
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, userUUID, feedOwnerUUID uuid.UUID, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("follow:%s:%s", userUUID, feedOwnerUUID)
	return cache.Fetch(ctx, s.store, key, ttl, func(ctx context.Context) (bool, error) {
		_, err := s.repo.Get(ctx, userUUID, feedOwnerUUID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	})
}

// ListFollows returns all outgoing edges of userUUID and their count.
func (s *FollowService) ListFollows(ctx context.Context, userUUID uuid.UUID, ttl time.Duration) ([]domain.Follow, int64, error) {
	result, err := cache.Fetch(ctx, s.store, followsKey(userUUID), ttl,
		func(ctx context.Context) (followList, error) {
			edges, err := s.repo.ListByFollower(ctx, userUUID)
			if err != nil {
				return followList{}, err
			}
			return followList{Edges: edges, Count: int64(len(edges))}, nil
		})
	if err != nil {
		return nil, 0, err
	}
	return result.Edges, result.Count, nil
}

// ListFollowers returns all incoming edges of feedOwnerUUID and their count.
func (s *FollowService) ListFollowers(ctx context.Context, feedOwnerUUID uuid.UUID, ttl time.Duration) ([]domain.Follow, int64, error) {
	result, err := cache.Fetch(ctx, s.store, followersKey(feedOwnerUUID), ttl,
		func(ctx context.Context) (followList, error) {
			edges, err := s.repo.ListByFeedOwner(ctx, feedOwnerUUID)
			if err != nil {
				return followList{}, err
			}
			return followList{Edges: edges, Count: int64(len(edges))}, nil
		})
	if err != nil {
		return nil, 0, err
	}
	return result.Edges, result.Count, nil
}

// invalidate drops the snapshots a follow mutation makes wrong, so the
// mutating user sees their own change immediately.
func (s *FollowService) invalidate(ctx context.Context, userUUID, feedOwnerUUID uuid.UUID) {
	s.store.Delete(ctx, followsKey(userUUID))
	s.store.Delete(ctx, followersKey(feedOwnerUUID))
	s.store.Delete(ctx, fmt.Sprintf("follow:%s:%s", userUUID, feedOwnerUUID))
}

func followsKey(userUUID uuid.UUID) string {
	return "follows:" + userUUID.String()
}

func followersKey(feedOwnerUUID uuid.UUID) string {
	return "followers:" + feedOwnerUUID.String()
}
