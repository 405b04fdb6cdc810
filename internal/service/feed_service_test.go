package service_test

import (
	"context"
	"testing"

	"github.com/coeus-hk/feeds/internal/cache"
	"github.com/coeus-hk/feeds/internal/repository/postgres"
	"github.com/coeus-hk/feeds/internal/service"
	"github.com/coeus-hk/feeds/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedService(testDB *testutil.TestDB) *service.Services {
	repos := postgres.NewRepositories(testDB.DB)
	return service.NewServices(repos, cache.NewMemory(), testutil.TestConfig())
}

func TestFeedService_PostTweet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services := newFeedService(testDB)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	tweet, err := services.Feed.PostTweet(ctx, author, "my first tweet")
	require.NoError(t, err)
	assert.Equal(t, author.UUID, tweet.UserUUID)
	assert.Equal(t, "my first tweet", tweet.Content)
	assert.Greater(t, tweet.ID, int64(0))
}

func TestFeedService_GetTimeline(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services := newFeedService(testDB)
	ctx := context.Background()

	reader, _ := testutil.NewUserBuilder().WithUsername("reader").Build(t, testDB.DB)
	followedA, _ := testutil.NewUserBuilder().WithUsername("followed_a").Build(t, testDB.DB)
	followedB, _ := testutil.NewUserBuilder().WithUsername("followed_b").Build(t, testDB.DB)
	stranger, _ := testutil.NewUserBuilder().WithUsername("stranger").Build(t, testDB.DB)

	testutil.CreateFollow(t, testDB.DB, reader, followedA)
	testutil.CreateFollow(t, testDB.DB, reader, followedB)

	testutil.SeedTweets(t, testDB.DB, followedA, 2)
	testutil.SeedTweets(t, testDB.DB, followedB, 2)
	testutil.SeedTweets(t, testDB.DB, stranger, 5)

	tweets, count, err := services.Feed.GetTimeline(ctx, reader, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	require.Len(t, tweets, 4)

	for i := 1; i < len(tweets); i++ {
		assert.True(t, !tweets[i-1].TweetDatetime.Before(tweets[i].TweetDatetime))
	}
	for _, tweet := range tweets {
		assert.NotEqual(t, stranger.UUID, tweet.UserUUID)
	}
}

func TestFeedService_GetTimeline_NoFollows(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services := newFeedService(testDB)
	ctx := context.Background()

	loner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	tweets, count, err := services.Feed.GetTimeline(ctx, loner, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, tweets)
}

func TestFeedService_GetUserFeed_Authorization(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services := newFeedService(testDB)
	ctx := context.Background()

	viewer, _ := testutil.NewUserBuilder().WithUsername("viewer").Build(t, testDB.DB)
	followed, _ := testutil.NewUserBuilder().WithUsername("followed").Build(t, testDB.DB)
	unfollowed, _ := testutil.NewUserBuilder().WithUsername("unfollowed").Build(t, testDB.DB)

	testutil.CreateFollow(t, testDB.DB, viewer, followed)
	testutil.SeedTweets(t, testDB.DB, followed, 3)
	testutil.SeedTweets(t, testDB.DB, unfollowed, 3)
	testutil.SeedTweets(t, testDB.DB, viewer, 1)

	// Followed feed is readable.
	tweets, count, err := services.Feed.GetUserFeed(ctx, viewer, "followed", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Len(t, tweets, 3)

	// Non-followed feed is forbidden.
	_, _, err = services.Feed.GetUserFeed(ctx, viewer, "unfollowed", 0)
	assert.ErrorIs(t, err, service.ErrNotFollowingFeedOwner)

	// Self view works without a follow edge.
	tweets, count, err = services.Feed.GetUserFeed(ctx, viewer, "viewer", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Len(t, tweets, 1)

	// Unknown target.
	_, _, err = services.Feed.GetUserFeed(ctx, viewer, "ghost", 0)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestFeedService_FollowUnfollow(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services := newFeedService(testDB)
	ctx := context.Background()

	actor, _ := testutil.NewUserBuilder().WithUsername("actor").Build(t, testDB.DB)
	target, _ := testutil.NewUserBuilder().WithUsername("target").Build(t, testDB.DB)

	follow, err := services.Feed.Follow(ctx, actor, "target")
	require.NoError(t, err)
	assert.Equal(t, actor.UUID, follow.UserUUID)
	assert.Equal(t, target.UUID, follow.FeedOwnerUUID)

	_, err = services.Feed.Follow(ctx, actor, "ghost")
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	_, err = services.Feed.Follow(ctx, actor, "actor")
	assert.ErrorIs(t, err, service.ErrSelfFollow)

	require.NoError(t, services.Feed.Unfollow(ctx, actor, "target"))

	following, err := services.Follow.IsFollowing(ctx, actor.UUID, target.UUID, 0)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFeedService_FollowingAndFollowers(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services := newFeedService(testDB)
	ctx := context.Background()

	actor, _ := testutil.NewUserBuilder().WithUsername("hub").Build(t, testDB.DB)
	alice, _ := testutil.NewUserBuilder().WithUsername("alice").Build(t, testDB.DB)
	bob, _ := testutil.NewUserBuilder().WithUsername("bob").Build(t, testDB.DB)

	testutil.CreateFollow(t, testDB.DB, actor, alice)
	testutil.CreateFollow(t, testDB.DB, actor, bob)
	testutil.CreateFollow(t, testDB.DB, alice, actor)

	following, count, err := services.Feed.Following(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, following, 2)

	usernames := []string{following[0].Username, following[1].Username}
	assert.ElementsMatch(t, []string{"alice", "bob"}, usernames)

	followers, count, err := services.Feed.Followers(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)
}
