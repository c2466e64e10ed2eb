package routes

import (
	statsHandler "Cignito/internal/api/handlers/stats"
	"Cignito/internal/core/stats"

	"github.com/go-chi/chi/v5"
)

// RegisterStatsRoutes registers the leaderboard and platform counters
func RegisterStatsRoutes(r chi.Router, service stats.Service) {
	h := statsHandler.NewHandler(service)

	r.Get("/api/leaderboard", h.HandleLeaderboard)
	r.Get("/api/stats", h.HandlePlatform)
}
