package routes

import (
	"Cignito/internal/api/handlers/bug"
	"Cignito/internal/core/bugs"

	"github.com/go-chi/chi/v5"
)

// RegisterBugRoutes registers bug report endpoints
func RegisterBugRoutes(r chi.Router, service bugs.Service, g Guards) {
	h := bug.NewHandler(service)

	g.Read(r).Get("/api/bugs", h.HandleList)
	g.Read(r).Get("/api/bugs/{id}", h.HandleGet)
	g.Read(r).Get("/api/bugs/slug/{slug}", h.HandleGetBySlug)
	g.Read(r).Get("/api/users/{id}/bugs", h.HandleListByAuthor)
	g.Read(r).Get("/api/tags", h.HandleListTags)

	g.Mutation(r).Post("/api/bugs", h.HandleCreate)
	g.Mutation(r).Patch("/api/bugs/{id}", h.HandleUpdate)
	g.Mutation(r).Patch("/api/bugs/{id}/status", h.HandleUpdateStatus)
	g.Mutation(r).Delete("/api/bugs/{id}", h.HandleDelete)
}
