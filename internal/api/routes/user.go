package routes

import (
	"Cignito/internal/api/handlers/user"
	"Cignito/internal/core/follows"
	"Cignito/internal/core/users"

	"github.com/go-chi/chi/v5"
)

// RegisterUserRoutes registers profile and follow endpoints.
// Profile creation is open but rate limited: the identity itself is issued upstream.
func RegisterUserRoutes(r chi.Router, userService users.UserService, followService follows.Service, g Guards) {
	h := user.NewHandler(userService, followService)

	g.Limited(r).Post("/api/users", h.HandleCreate)

	g.Read(r).Get("/api/users/{id}", h.HandleGet)
	g.Read(r).Get("/api/users/by-username/{username}", h.HandleGetByUsername)
	g.Read(r).Get("/api/users/{id}/follow-stats", h.HandleFollowStats)
	g.Read(r).Get("/api/users/{id}/followers", h.HandleFollowers)
	g.Read(r).Get("/api/users/{id}/following", h.HandleFollowing)
	// Anonymous callers get 401 from the service
	g.Read(r).Get("/api/feed", h.HandleFeed)

	g.Mutation(r).Post("/api/users/{id}/follow", h.HandleFollow)
	g.Mutation(r).Delete("/api/users/{id}/follow", h.HandleUnfollow)
}
