package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/coeus-hk/feeds/internal/domain"
	"github.com/coeus-hk/feeds/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tweetListBody struct {
	Tweets []domain.Tweet `json:"tweets"`
	Count  int64          `json:"count"`
}

func doAuthed(t *testing.T, method, url string, body interface{}, token string) *http.Response {
	t.Helper()

	req := testutil.AuthenticatedRequest(t, method, url, body, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestFeedsCreateTweet(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	resp := doAuthed(t, http.MethodPost, ts.URL("/feeds"), map[string]string{
		"content": "hello from the api",
	}, token)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var tweet domain.Tweet
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tweet))
	assert.Equal(t, user.UUID, tweet.UserUUID)
	assert.Equal(t, "hello from the api", tweet.Content)
	assert.Greater(t, tweet.ID, int64(0))
}

func TestFeedsCreateTweet_TooLong(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	resp := doAuthed(t, http.MethodPost, ts.URL("/feeds"), map[string]string{
		"content": strings.Repeat("x", domain.MaxTweetLength+1),
	}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFeedsCreateTweet_Unauthenticated(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := postJSON(t, ts.URL("/feeds"), map[string]string{"content": "nope"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFeedsTimeline(t *testing.T) {
	ts := testutil.NewTestServer(t)

	reader, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	followed, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	testutil.CreateFollow(t, ts.DB.DB, reader, followed)
	testutil.SeedTweets(t, ts.DB.DB, followed, 3)
	testutil.SeedTweets(t, ts.DB.DB, stranger, 2)

	resp := doAuthed(t, http.MethodGet, ts.URL("/feeds"), nil, token)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body tweetListBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(3), body.Count)
	require.Len(t, body.Tweets, 3)
	for _, tweet := range body.Tweets {
		assert.Equal(t, followed.UUID, tweet.UserUUID)
	}
}

func TestFeedsTimeline_Cursor(t *testing.T) {
	ts := testutil.NewTestServer(t)

	reader, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	followed, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	testutil.CreateFollow(t, ts.DB.DB, reader, followed)
	seeded := testutil.SeedTweets(t, ts.DB.DB, followed, 5)

	url := fmt.Sprintf("%s?b=%d", ts.URL("/feeds"), seeded[1].ID)
	resp := doAuthed(t, http.MethodGet, url, nil, token)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body tweetListBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(2), body.Count)
	for _, tweet := range body.Tweets {
		assert.LessOrEqual(t, tweet.ID, seeded[1].ID)
	}
}

func TestFeedsTimeline_BadCursor(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	resp := doAuthed(t, http.MethodGet, ts.URL("/feeds?b=oops"), nil, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFeedsUserFeed(t *testing.T) {
	ts := testutil.NewTestServer(t)

	viewer, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	followed, _ := testutil.NewUserBuilder().WithUsername("followed").Build(t, ts.DB.DB)
	unfollowed, _ := testutil.NewUserBuilder().WithUsername("unfollowed").Build(t, ts.DB.DB)

	testutil.CreateFollow(t, ts.DB.DB, viewer, followed)
	testutil.SeedTweets(t, ts.DB.DB, followed, 2)
	testutil.SeedTweets(t, ts.DB.DB, unfollowed, 2)

	resp := doAuthed(t, http.MethodGet, ts.URL("/feeds/user/followed"), nil, token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body tweetListBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(2), body.Count)

	resp = doAuthed(t, http.MethodGet, ts.URL("/feeds/user/unfollowed"), nil, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doAuthed(t, http.MethodGet, ts.URL("/feeds/user/ghost"), nil, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFeedsFollowAndUnfollow(t *testing.T) {
	ts := testutil.NewTestServer(t)

	actor, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	target, _ := testutil.NewUserBuilder().WithUsername("target").Build(t, ts.DB.DB)

	resp := doAuthed(t, http.MethodPut, ts.URL("/feeds/user/target"), nil, token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var follow domain.Follow
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&follow))
	assert.Equal(t, actor.UUID, follow.UserUUID)
	assert.Equal(t, target.UUID, follow.FeedOwnerUUID)

	// Following the target unlocks their feed.
	resp = doAuthed(t, http.MethodGet, ts.URL("/feeds/user/target"), nil, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doAuthed(t, http.MethodDelete, ts.URL("/feeds/user/target"), nil, token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var unfollowBody map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&unfollowBody))
	assert.True(t, unfollowBody["success"])

	resp = doAuthed(t, http.MethodGet, ts.URL("/feeds/user/target"), nil, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestFeedsFollow_SelfAndMissing(t *testing.T) {
	ts := testutil.NewTestServer(t)

	actor, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	resp := doAuthed(t, http.MethodPut, ts.URL("/feeds/user/"+actor.Username), nil, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doAuthed(t, http.MethodPut, ts.URL("/feeds/user/ghost"), nil, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFeedsFollowingAndFollowers(t *testing.T) {
	ts := testutil.NewTestServer(t)

	actor, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	alice, _ := testutil.NewUserBuilder().WithUsername("alice").Build(t, ts.DB.DB)
	bob, _ := testutil.NewUserBuilder().WithUsername("bob").Build(t, ts.DB.DB)

	testutil.CreateFollow(t, ts.DB.DB, actor, alice)
	testutil.CreateFollow(t, ts.DB.DB, actor, bob)
	testutil.CreateFollow(t, ts.DB.DB, alice, actor)

	resp := doAuthed(t, http.MethodGet, ts.URL("/feeds/following"), nil, token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var followingBody struct {
		Following []domain.User `json:"following"`
		Count     int64         `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&followingBody))
	assert.Equal(t, int64(2), followingBody.Count)

	usernames := make([]string, 0, len(followingBody.Following))
	for _, u := range followingBody.Following {
		usernames = append(usernames, u.Username)
	}
	assert.ElementsMatch(t, []string{"alice", "bob"}, usernames)

	resp = doAuthed(t, http.MethodGet, ts.URL("/feeds/followers"), nil, token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var followersBody struct {
		Followers []domain.User `json:"followers"`
		Count     int64         `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&followersBody))
	assert.Equal(t, int64(1), followersBody.Count)
	require.Len(t, followersBody.Followers, 1)
	assert.Equal(t, "alice", followersBody.Followers[0].Username)
}
