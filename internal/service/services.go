package service

import (
	"github.com/coeus-hk/feeds/internal/cache"
	"github.com/coeus-hk/feeds/internal/config"
	"github.com/coeus-hk/feeds/internal/hash"
	"github.com/coeus-hk/feeds/internal/repository"
)

type Services struct {
	User   *UserService
	Auth   *AuthService
	Follow *FollowService
	Tweet  *TweetService
	Feed   *FeedService
}

func NewServices(repos *repository.Repositories, store cache.Store, cfg *config.Config) *Services {
	users := NewUserService(repos.User, hash.NewHasher(), store)
	follows := NewFollowService(repos.Follow, store)
	tweets := NewTweetService(repos.Tweet, store)

	return &Services{
		User:   users,
		Auth:   NewAuthService(users, cfg),
		Follow: follows,
		Tweet:  tweets,
		Feed:   NewFeedService(users, follows, tweets),
	}
}
