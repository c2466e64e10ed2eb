package stats

import (
	"log"
	"net/http"
	"strconv"

	"Cignito/internal/api/handlers"
	"Cignito/internal/core/stats"
)

// Handler serves the leaderboard and platform stats
type Handler struct {
	service stats.Service
}

// NewHandler creates a new stats handler
func NewHandler(service stats.Service) *Handler {
	return &Handler{service: service}
}

// HandleLeaderboard returns the top users by reputation
// GET /api/leaderboard?limit=10
func (h *Handler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			handlers.WriteError(w, http.StatusBadRequest, handlers.CodeInvalidRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Printf("Failed to load leaderboard: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, handlers.CodePersistence, "Something went wrong. Please try again.")
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": entries})
}

// HandlePlatform returns site-wide counters
// GET /api/stats
func (h *Handler) HandlePlatform(w http.ResponseWriter, r *http.Request) {
	platform, err := h.service.PlatformStats(r.Context())
	if err != nil {
		log.Printf("Failed to load platform stats: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, handlers.CodePersistence, "Something went wrong. Please try again.")
		return
	}
	handlers.WriteJSON(w, http.StatusOK, platform)
}
