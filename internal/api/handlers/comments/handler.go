package comments

import (
	"errors"
	"log"
	"net/http"

	"Cignito/internal/api/handlers"
	"Cignito/internal/api/middleware"
	"Cignito/internal/core/bugs"
	"Cignito/internal/core/comments"
	"Cignito/internal/core/solutions"

	"github.com/go-chi/chi/v5"
)

// Handler serves the comment endpoints
type Handler struct {
	service comments.Service
}

// NewHandler creates a new comment handler
func NewHandler(service comments.Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate comments on a bug or a solution
// POST /api/comments
//
// Request body: { "content": "...", "bugId": "..." } or { "content": "...", "solutionId": "..." }
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req comments.CreateCommentRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.CreateComment(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusCreated, map[string]interface{}{"comment": comment})
}

// HandleDelete removes a comment. Author only.
// DELETE /api/comments/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteComment(r.Context(), middleware.GetUserID(r), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, nil)
}

// HandleListForBug returns a bug's comments, oldest first
// GET /api/bugs/{id}/comments
func (h *Handler) HandleListForBug(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListForBug(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": list})
}

// HandleListForSolution returns a solution's comments, oldest first
// GET /api/solutions/{id}/comments
func (h *Handler) HandleListForSolution(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListForSolution(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": list})
}

func handleServiceError(w http.ResponseWriter, err error) {
	if handlers.WriteValidationError(w, err) {
		return
	}

	switch {
	case comments.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, handlers.CodeInvalidRequest, err.Error())
	case errors.Is(err, comments.ErrAuthorRequired):
		handlers.WriteError(w, http.StatusUnauthorized, handlers.CodeUnauthenticated, "Sign in to continue")
	case errors.Is(err, comments.ErrNotAuthorized):
		handlers.WriteError(w, http.StatusForbidden, handlers.CodeUnauthorized, err.Error())
	case comments.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, handlers.CodeNotFound, "Comment not found")
	case bugs.IsNotFound(err), solutions.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, handlers.CodeNotFound, err.Error())
	default:
		log.Printf("Comment handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, handlers.CodePersistence, "Something went wrong. Please try again.")
	}
}
