package service

import (
	"context"
	"errors"

	"github.com/coeus-hk/feeds/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound          = errors.New("user does not exist")
	ErrNotFollowingFeedOwner = errors.New("not following feed owner")
)

// FeedService composes the follow graph and the tweet store into the feed
// flows. The acting user is always an already-authenticated record resolved
// by the transport layer.
type FeedService struct {
	users   *UserService
	follows *FollowService
	tweets  *TweetService
}

func NewFeedService(users *UserService, follows *FollowService, tweets *TweetService) *FeedService {
	return &FeedService{
		users:   users,
		follows: follows,
		tweets:  tweets,
	}
}

// PostTweet creates a tweet on the acting user's own feed.
func (s *FeedService) PostTweet(ctx context.Context, actor *domain.User, content string) (*domain.Tweet, error) {
	tweet := &domain.Tweet{
		UserUUID: actor.UUID,
		Content:  content,
	}
	return s.tweets.Create(ctx, tweet)
}

// GetTimeline merges the feeds the acting user follows, newest first.
func (s *FeedService) GetTimeline(ctx context.Context, actor *domain.User, beforeID int64) ([]domain.Tweet, int64, error) {
	edges, _, err := s.follows.ListFollows(ctx, actor.UUID, DefaultListTTL)
	if err != nil {
		return nil, 0, err
	}

	feedOwners := make([]uuid.UUID, len(edges))
	for i, edge := range edges {
		feedOwners[i] = edge.FeedOwnerUUID
	}

	return s.tweets.FindTweetsMultipleUsers(ctx, feedOwners, beforeID, DefaultTimelineLimit)
}

// GetUserFeed returns the target user's tweets. Viewing someone else's feed
// requires following them; the self view is always allowed.
func (s *FeedService) GetUserFeed(ctx context.Context, actor *domain.User, targetUsername string, beforeID int64) ([]domain.Tweet, int64, error) {
	target, err := s.users.FindByUsername(ctx, targetUsername)
	if err != nil {
		return nil, 0, err
	}
	if target == nil {
		return nil, 0, ErrUserNotFound
	}

	if actor.UUID != target.UUID {
		// Authorization check reads the graph fresh, not a cached snapshot.
		following, err := s.follows.IsFollowing(ctx, actor.UUID, target.UUID, 0)
		if err != nil {
			return nil, 0, err
		}
		if !following {
			return nil, 0, ErrNotFollowingFeedOwner
		}
	}

	return s.tweets.FindTweets(ctx, target.UUID, beforeID, DefaultFeedLimit)
}

// Follow subscribes the acting user to the target's feed.
func (s *FeedService) Follow(ctx context.Context, actor *domain.User, targetUsername string) (*domain.Follow, error) {
	target, err := s.users.FindByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	return s.follows.Create(ctx, actor.UUID, target.UUID)
}

// Unfollow removes the subscription; unfollowing a feed that was never
// followed is not an error.
func (s *FeedService) Unfollow(ctx context.Context, actor *domain.User, targetUsername string) error {
	target, err := s.users.FindByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	return s.follows.Remove(ctx, actor.UUID, target.UUID)
}

// Following resolves the profiles the acting user follows.
func (s *FeedService) Following(ctx context.Context, actor *domain.User) ([]*domain.User, int64, error) {
	edges, count, err := s.follows.ListFollows(ctx, actor.UUID, 0)
	if err != nil {
		return nil, 0, err
	}

	profiles := make([]*domain.User, 0, len(edges))
	for _, edge := range edges {
		profile, err := s.users.FindByUUID(ctx, edge.FeedOwnerUUID)
		if err != nil {
			return nil, 0, err
		}
		if profile != nil {
			profiles = append(profiles, profile)
		}
	}
	return profiles, count, nil
}

// Followers resolves the profiles following the acting user.
func (s *FeedService) Followers(ctx context.Context, actor *domain.User) ([]*domain.User, int64, error) {
	edges, count, err := s.follows.ListFollowers(ctx, actor.UUID, 0)
	if err != nil {
		return nil, 0, err
	}

	profiles := make([]*domain.User, 0, len(edges))
	for _, edge := range edges {
		profile, err := s.users.FindByUUID(ctx, edge.UserUUID)
		if err != nil {
			return nil, 0, err
		}
		if profile != nil {
			profiles = append(profiles, profile)
		}
	}
	return profiles, count, nil
}
