package service

import (
	"context"
	"errors"
	"time"

	"github.com/coeus-hk/feeds/internal/config"
	"github.com/coeus-hk/feeds/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService issues and validates stateless session tokens. There is no
// server-side revocation list: expiry bounds a token's lifetime, and deleting
// or renaming a user invalidates outstanding tokens lazily because validation
// re-resolves the user on every call.
type AuthService struct {
	users *UserService
	cfg   *config.Config
}

func NewAuthService(users *UserService, cfg *config.Config) *AuthService {
	return &AuthService{
		users: users,
		cfg:   cfg,
	}
}

type tokenData struct {
	UUID       string `json:"uuid"`
	CommonName string `json:"commonName"`
	Username   string `json:"username"`
	Email      string `json:"email"`
}

type tokenClaims struct {
	Data tokenData `json:"data"`
	jwt.RegisteredClaims
}

// Authenticate checks the credentials against the user directory and returns
// a signed token carrying an identity snapshot. Bad credentials yield an
// empty token, not an error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}

	now := time.Now()
	claims := tokenClaims{
		Data: tokenData{
			UUID:       user.UUID.String(),
			CommonName: user.CommonName,
			Username:   user.Username,
			Email:      user.Email,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken verifies signature and expiry, then resolves the embedded
// username against the live directory. The payload is trusted for lookup
// only. Any verification failure, and a user that no longer exists, yield
// (nil, nil).
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, nil
	}

	return s.users.FindByUsername(ctx, claims.Data.Username)
}
