package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/coeus-hk/feeds/internal/domain"
	"github.com/coeus-hk/feeds/internal/service"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const userKey contextKey = "authUser"

// AuthCookieName is the cookie carrying the session token.
const AuthCookieName = "authToken"

// ExtractToken pulls the session token out of the request. A bearer header
// takes precedence over the access_token query/form parameters, which take
// precedence over the auth cookie.
func ExtractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	if token := r.URL.Query().Get("access_token"); token != "" {
		return token
	}
	if token := r.PostFormValue("access_token"); token != "" {
		return token
	}
	if cookie, err := r.Cookie(AuthCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Auth resolves the request's token to a live user record and stores it in
// the request context; requests without a valid token get a 401.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				http.Error(w, "Authorization required", http.StatusUnauthorized)
				return
			}

			user, err := authService.ValidateToken(r.Context(), token)
			if err != nil {
				log.WithError(err).Error("token validation failed")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if user == nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the authenticated user stored by Auth.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}
