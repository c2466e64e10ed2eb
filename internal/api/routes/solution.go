package routes

import (
	"Cignito/internal/api/handlers/solution"
	"Cignito/internal/core/solutions"

	"github.com/go-chi/chi/v5"
)

// RegisterSolutionRoutes registers solution endpoints
func RegisterSolutionRoutes(r chi.Router, service solutions.Service, g Guards) {
	h := solution.NewHandler(service)

	g.Read(r).Get("/api/bugs/{id}/solutions", h.HandleListByBug)
	g.Read(r).Get("/api/solutions/{id}", h.HandleGet)

	g.Mutation(r).Post("/api/bugs/{id}/solutions", h.HandleCreate)
	g.Mutation(r).Delete("/api/solutions/{id}", h.HandleDelete)
}
