package routes

import (
	"Cignito/internal/api/handlers/comments"
	commentsCore "Cignito/internal/core/comments"

	"github.com/go-chi/chi/v5"
)

// RegisterCommentRoutes registers comment endpoints
func RegisterCommentRoutes(r chi.Router, service commentsCore.Service, g Guards) {
	h := comments.NewHandler(service)

	g.Read(r).Get("/api/bugs/{id}/comments", h.HandleListForBug)
	g.Read(r).Get("/api/solutions/{id}/comments", h.HandleListForSolution)

	g.Mutation(r).Post("/api/comments", h.HandleCreate)
	g.Mutation(r).Delete("/api/comments/{id}", h.HandleDelete)
}
