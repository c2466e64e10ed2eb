package routes

import (
	"Cignito/internal/api/handlers/vote"
	"Cignito/internal/core/reputation"

	"github.com/go-chi/chi/v5"
)

// RegisterVoteRoutes registers voting and acceptance endpoints.
// These are the only routes that move reputation.
func RegisterVoteRoutes(r chi.Router, service reputation.Service, g Guards) {
	h := vote.NewHandler(service)

	g.Read(r).Get("/api/bugs/{id}/votes", h.HandleBugTally)
	g.Read(r).Get("/api/solutions/{id}/votes", h.HandleSolutionTally)

	g.Mutation(r).Post("/api/bugs/{id}/vote", h.HandleVoteBug)
	g.Mutation(r).Post("/api/solutions/{id}/vote", h.HandleVoteSolution)
	g.Mutation(r).Post("/api/solutions/{id}/accept", h.HandleAccept)
}
