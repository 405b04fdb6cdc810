package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/coeus-hk/feeds/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	commonName string
	username   string
	email      string
	password   string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		commonName: fmt.Sprintf("Test User %s", suffix),
		username:   fmt.Sprintf("testuser_%s", suffix),
		email:      fmt.Sprintf("testuser_%s@example.com", suffix),
		password:   "testpassword123",
	}
}

// WithCommonName sets the display name
func (b *UserBuilder) WithCommonName(name string) *UserBuilder {
	b.commonName = name
	return b
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		UUID:           uuid.New(),
		CommonName:     b.commonName,
		Username:       b.username,
		Email:          b.email,
		HashedPassword: string(hashedPassword),
		UserStatus:     domain.UserStatusActive,
		SignupDatetime: time.Now(),
		LastUpdate:     time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndLogin registers the user through the API and returns the user with
// a session token obtained from the password endpoint.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	reqBody, _ := json.Marshal(map[string]string{
		"username": user.Username,
		"password": password,
	})

	resp, err := http.Post(ts.URL("/auth/password"), "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var loginResp struct {
		Status string `json:"status"`
		Token  string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return user, loginResp.Token
}

// TweetBuilder creates test tweets
type TweetBuilder struct {
	author   *domain.User
	content  string
	datetime time.Time
}

// NewTweetBuilder creates a new TweetBuilder with default values
func NewTweetBuilder() *TweetBuilder {
	return &TweetBuilder{
		content:  "hello world",
		datetime: time.Now(),
	}
}

// WithAuthor sets the tweet author
func (b *TweetBuilder) WithAuthor(author *domain.User) *TweetBuilder {
	b.author = author
	return b
}

// WithContent sets the tweet content
func (b *TweetBuilder) WithContent(content string) *TweetBuilder {
	b.content = content
	return b
}

// WithDatetime sets the creation timestamp explicitly, for deterministic ordering
func (b *TweetBuilder) WithDatetime(ts time.Time) *TweetBuilder {
	b.datetime = ts
	return b
}

// Build creates the tweet in the database
func (b *TweetBuilder) Build(t *testing.T, db *gorm.DB) *domain.Tweet {
	t.Helper()

	if b.author == nil {
		author, _ := NewUserBuilder().Build(t, db)
		b.author = author
	}

	tweet := &domain.Tweet{
		UserUUID:      b.author.UUID,
		Content:       b.content,
		TweetDatetime: b.datetime,
	}

	if err := db.Create(tweet).Error; err != nil {
		t.Fatalf("failed to create tweet: %v", err)
	}

	return tweet
}

// SeedTweets creates count tweets for the author with strictly increasing timestamps
func SeedTweets(t *testing.T, db *gorm.DB, author *domain.User, count int) []*domain.Tweet {
	t.Helper()

	base := time.Now().Add(-time.Duration(count) * time.Minute)
	tweets := make([]*domain.Tweet, count)
	for i := 0; i < count; i++ {
		tweets[i] = NewTweetBuilder().
			WithAuthor(author).
			WithContent(fmt.Sprintf("tweet %d from %s", i, author.Username)).
			WithDatetime(base.Add(time.Duration(i) * time.Minute)).
			Build(t, db)
	}
	return tweets
}

// CreateFollow inserts a follow edge directly into the database
func CreateFollow(t *testing.T, db *gorm.DB, follower, feedOwner *domain.User) *domain.Follow {
	t.Helper()

	follow := &domain.Follow{
		UserUUID:      follower.UUID,
		FeedOwnerUUID: feedOwner.UUID,
	}
	if err := db.Create(follow).Error; err != nil {
		t.Fatalf("failed to create follow: %v", err)
	}
	return follow
}

// AuthenticatedRequest creates an HTTP request with a bearer token
func AuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
