package api

import (
	"net/http"

	"github.com/coeus-hk/feeds/internal/api/handlers"
	"github.com/coeus-hk/feeds/internal/api/middleware"
	"github.com/coeus-hk/feeds/internal/config"
	"github.com/coeus-hk/feeds/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	usersHandler := handlers.NewUsersHandler(services.User)
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	feedsHandler := handlers.NewFeedsHandler(services.Feed)

	// Registration and public profiles
	r.Route("/users", func(r chi.Router) {
		r.Post("/", usersHandler.Create)
		r.Get("/", usersHandler.List)
		r.Get("/{username}", usersHandler.Get)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/password", authHandler.Password)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Get("/token", authHandler.Token)
			r.Post("/token", authHandler.Token)
		})
	})

	r.Route("/feeds", func(r chi.Router) {
		r.Use(middleware.Auth(services.Auth))

		r.Post("/", feedsHandler.CreateTweet)
		r.Get("/", feedsHandler.GetTimeline)
		r.Get("/following", feedsHandler.GetFollowing)
		r.Get("/followers", feedsHandler.GetFollowers)
		r.Get("/user/{username}", feedsHandler.GetUserFeed)
		r.Put("/user/{username}", feedsHandler.Follow)
		r.Delete("/user/{username}", feedsHandler.Unfollow)
	})

	return r
}
