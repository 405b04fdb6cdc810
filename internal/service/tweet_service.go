package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coeus-hk/feeds/internal/cache"
	"github.com/coeus-hk/feeds/internal/domain"
	"github.com/coeus-hk/feeds/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DefaultFeedLimit caps a single-author page, DefaultTimelineLimit the
	// merged multi-author page.
	DefaultFeedLimit     = 20
	DefaultTimelineLimit = 50

	// Tweet list snapshots go stale within seconds; a single tweet is
	// immutable once created, so its lookup can be cached for hours.
	tweetListTTL = 5 * time.Second
	tweetByIDTTL = 12 * time.Hour
)

// TweetService stores tweets and serves recency-ordered, cursor-paginated
// queries by one author or a set of authors.
type TweetService struct {
	repo  repository.TweetRepository
	store cache.Store
}

func NewTweetService(repo repository.TweetRepository, store cache.Store) *TweetService {
	return &TweetService{
		repo:  repo,
		store: store,
	}
}

type tweetList struct {
	Tweets []domain.Tweet `json:"tweets"`
	Count  int64          `json:"count"`
}

func (s *TweetService) Create(ctx context.Context, tweet *domain.Tweet) (*domain.Tweet, error) {
	if err := s.repo.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// FindTweets lists one author's tweets, newest first. A beforeID > 0 restricts
// the page to id <= beforeID; count is the total of matching tweets, not the
// page size.
func (s *TweetService) FindTweets(ctx context.Context, authorUUID uuid.UUID, beforeID int64, limit int) ([]domain.Tweet, int64, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	key := fmt.Sprintf("tweets:%s:%d:%d", authorUUID, beforeID, limit)
	result, err := cache.Fetch(ctx, s.store, key, tweetListTTL,
		func(ctx context.Context) (tweetList, error) {
			tweets, count, err := s.repo.ListByAuthor(ctx, authorUUID, beforeID, limit)
			if err != nil {
				return tweetList{}, err
			}
			return tweetList{Tweets: tweets, Count: count}, nil
		})
	if err != nil {
		return nil, 0, err
	}
	return result.Tweets, result.Count, nil
}

// FindTweetsMultipleUsers is the timeline fan-out query: FindTweets
// generalized to a set of authors. An empty set yields an empty page.
func (s *TweetService) FindTweetsMultipleUsers(ctx context.Context, authorUUIDs []uuid.UUID, beforeID int64, limit int) ([]domain.Tweet, int64, error) {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}
	if len(authorUUIDs) == 0 {
		return []domain.Tweet{}, 0, nil
	}
	key := fmt.Sprintf("tweets:multi:%s:%d:%d", joinUUIDs(authorUUIDs), beforeID, limit)
	result, err := cache.Fetch(ctx, s.store, key, tweetListTTL,
		func(ctx context.Context) (tweetList, error) {
			tweets, count, err := s.repo.ListByAuthors(ctx, authorUUIDs, beforeID, limit)
			if err != nil {
				return tweetList{}, err
			}
			return tweetList{Tweets: tweets, Count: count}, nil
		})
	if err != nil {
		return nil, 0, err
	}
	return result.Tweets, result.Count, nil
}

// FindTweet is a point lookup, (nil, nil) when absent.
func (s *TweetService) FindTweet(ctx context.Context, id int64) (*domain.Tweet, error) {
	key := fmt.Sprintf("tweet:%d", id)
	return cache.Fetch(ctx, s.store, key, tweetByIDTTL,
		func(ctx context.Context) (*domain.Tweet, error) {
			tweet, err := s.repo.GetByID(ctx, id)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return tweet, err
		})
}

func joinUUIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
