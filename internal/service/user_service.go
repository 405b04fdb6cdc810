package service

import (
	"context"
	"errors"
	"time"

	"github.com/coeus-hk/feeds/internal/cache"
	"github.com/coeus-hk/feeds/internal/domain"
	"github.com/coeus-hk/feeds/internal/hash"
	"github.com/coeus-hk/feeds/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUsernameExists = errors.New("username is already taken")
	ErrEmailExists    = errors.New("email is already registered with another user")
)

// User profiles change rarely, so lookups by uuid may be cached aggressively.
const userByUUIDTTL = 24 * time.Hour

// UserService is the user directory: CRUD over user records plus credential
// authentication. Negative lookups return (nil, nil), never an error.
type UserService struct {
	repo   repository.UserRepository
	hasher *hash.Hasher
	store  cache.Store
}

func NewUserService(repo repository.UserRepository, hasher *hash.Hasher, store cache.Store) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		store:  store,
	}
}

type CreateUserInput struct {
	CommonName string
	Username   string
	Email      string
	Password   string
}

// Create registers a new user. Username is checked before email, so a request
// that collides on both reports the username conflict.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	existing, err := s.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	existing, err = s.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		UUID:           uuid.New(),
		CommonName:     input.CommonName,
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: hashedPassword,
		UserStatus:     domain.UserStatusActive,
		SignupDatetime: time.Now(),
		LastUpdate:     time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the checks above; the
		// unique constraints still hold, map the violation to the right
		// conflict error.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if taken, lookupErr := s.FindByUsername(ctx, input.Username); lookupErr == nil && taken != nil {
				return nil, ErrUsernameExists
			}
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return user, err
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return user, err
}

// FindByUUID serves profile resolution on the hot follower/following paths and
// is cached for a day. The cached copy round-trips through JSON, so it carries
// the public profile fields only.
func (s *UserService) FindByUUID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return cache.Fetch(ctx, s.store, "user:uuid:"+id.String(), userByUUIDTTL,
		func(ctx context.Context) (*domain.User, error) {
			user, err := s.repo.GetByUUID(ctx, id)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return user, err
		})
}

func (s *UserService) FindAll(ctx context.Context) ([]*domain.User, error) {
	return s.repo.GetAll(ctx)
}

// Delete removes the user and clears the identity field on the returned record
// as a deletion witness.
func (s *UserService) Delete(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := s.repo.Delete(ctx, user); err != nil {
		return nil, err
	}
	user.UUID = uuid.Nil
	return user, nil
}

// Authenticate returns the user record when the password matches, (nil, nil)
// otherwise. Unknown username and wrong password are indistinguishable here.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Compare(password, user.HashedPassword) {
		return nil, nil
	}
	return user, nil
}
