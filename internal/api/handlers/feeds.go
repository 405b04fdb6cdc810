package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/coeus-hk/feeds/internal/api/middleware"
	"github.com/coeus-hk/feeds/internal/domain"
	"github.com/coeus-hk/feeds/internal/service"
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type FeedsHandler struct {
	feeds *service.FeedService
}

func NewFeedsHandler(feeds *service.FeedService) *FeedsHandler {
	return &FeedsHandler{feeds: feeds}
}

type CreateTweetRequest struct {
	Content string `json:"content"`
}

type TweetListResponse struct {
	Tweets []domain.Tweet `json:"tweets"`
	Count  int64          `json:"count"`
}

func (h *FeedsHandler) CreateTweet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Content == "" || len([]rune(req.Content)) > domain.MaxTweetLength {
		http.Error(w, "content must be between 1 and 140 characters", http.StatusBadRequest)
		return
	}

	tweet, err := h.feeds.PostTweet(r.Context(), user, req.Content)
	if err != nil {
		log.WithError(err).Error("tweet creation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tweet)
}

func (h *FeedsHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	beforeID, ok := parseBeforeID(w, r)
	if !ok {
		return
	}

	tweets, count, err := h.feeds.GetTimeline(r.Context(), user, beforeID)
	if err != nil {
		log.WithError(err).Error("timeline query failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TweetListResponse{Tweets: tweets, Count: count})
}

func (h *FeedsHandler) GetUserFeed(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	beforeID, ok := parseBeforeID(w, r)
	if !ok {
		return
	}

	username := chi.URLParam(r, "username")
	tweets, count, err := h.feeds.GetUserFeed(r.Context(), user, username, beforeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			http.Error(w, "User does not exist", http.StatusNotFound)
		case errors.Is(err, service.ErrNotFollowingFeedOwner):
			http.Error(w, "Not following feed owner", http.StatusForbidden)
		default:
			log.WithError(err).Error("user feed query failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TweetListResponse{Tweets: tweets, Count: count})
}

func (h *FeedsHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	following, count, err := h.feeds.Following(r.Context(), user)
	if err != nil {
		log.WithError(err).Error("following query failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"following": following,
		"count":     count,
	})
}

func (h *FeedsHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	followers, count, err := h.feeds.Followers(r.Context(), user)
	if err != nil {
		log.WithError(err).Error("followers query failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"followers": followers,
		"count":     count,
	})
}

func (h *FeedsHandler) Follow(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")
	follow, err := h.feeds.Follow(r.Context(), user, username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			http.Error(w, "User does not exist", http.StatusNotFound)
		case errors.Is(err, service.ErrSelfFollow):
			http.Error(w, "Cannot follow yourself", http.StatusBadRequest)
		default:
			log.WithError(err).Error("follow failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(follow)
}

func (h *FeedsHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")
	if err := h.feeds.Unfollow(r.Context(), user, username); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			http.Error(w, "User does not exist", http.StatusNotFound)
		default:
			log.WithError(err).Error("unfollow failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// parseBeforeID reads the pagination cursor from the `b` query parameter.
// It writes a 400 and returns false when the parameter is not a number.
func parseBeforeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("b")
	if raw == "" {
		return 0, true
	}
	beforeID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || beforeID < 0 {
		http.Error(w, "Invalid cursor", http.StatusBadRequest)
		return 0, false
	}
	return beforeID, true
}
