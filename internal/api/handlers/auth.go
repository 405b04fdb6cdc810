package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/coeus-hk/feeds/internal/api/middleware"
	"github.com/coeus-hk/feeds/internal/config"
	"github.com/coeus-hk/feeds/internal/service"
	log "github.com/sirupsen/logrus"
)

type AuthHandler struct {
	auth *service.AuthService
	cfg  *config.Config
}

func NewAuthHandler(auth *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

type PasswordAuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type PasswordAuthResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
}

// Password authenticates with username/password and returns the session
// token both in the body and as an HTTP-only cookie.
func (h *AuthHandler) Password(w http.ResponseWriter, r *http.Request) {
	var req PasswordAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	token, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		log.WithError(err).Error("authentication failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if token == "" {
		http.Error(w, "Incorrect username/password", http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		MaxAge:   int(h.cfg.JWTExpiresIn.Seconds()),
		HttpOnly: true,
		Secure:   true,
		Domain:   h.cfg.CookieDomain,
		Path:     "/",
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PasswordAuthResponse{
		Status: "authorized",
		Token:  token,
	})
}

// Token echoes the authenticated user back; the auth middleware has already
// validated the token and resolved the live record.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
