package solution

import (
	"errors"
	"log"
	"net/http"

	"Cignito/internal/api/handlers"
	"Cignito/internal/api/middleware"
	"Cignito/internal/core/bugs"
	"Cignito/internal/core/solutions"

	"github.com/go-chi/chi/v5"
)

// Handler serves the solution endpoints. Acceptance is served by the vote handler.
type Handler struct {
	service solutions.Service
}

// NewHandler creates a new solution handler
func NewHandler(service solutions.Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate proposes a fix for a bug
// POST /api/bugs/{id}/solutions
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req solutions.CreateSolutionRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	solution, err := h.service.CreateSolution(r.Context(), middleware.GetUserID(r), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusCreated, map[string]interface{}{"solution": solution})
}

// HandleListByBug returns a bug's solutions, accepted first
// GET /api/bugs/{id}/solutions
func (h *Handler) HandleListByBug(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListByBug(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"solutions": list})
}

// HandleGet returns one solution
// GET /api/solutions/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	solution, err := h.service.GetSolution(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, solution)
}

// HandleDelete removes a solution. Author only.
// DELETE /api/solutions/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSolution(r.Context(), middleware.GetUserID(r), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, nil)
}

func handleServiceError(w http.ResponseWriter, err error) {
	if handlers.WriteValidationError(w, err) {
		return
	}

	switch {
	case errors.Is(err, solutions.ErrAuthorRequired):
		handlers.WriteError(w, http.StatusUnauthorized, handlers.CodeUnauthenticated, "Sign in to continue")
	case errors.Is(err, solutions.ErrNotAuthorized):
		handlers.WriteError(w, http.StatusForbidden, handlers.CodeUnauthorized, err.Error())
	case solutions.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, handlers.CodeNotFound, "Solution not found")
	case bugs.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, handlers.CodeNotFound, "Bug not found")
	default:
		log.Printf("Solution handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, handlers.CodePersistence, "Something went wrong. Please try again.")
	}
}
