package vote

import (
	"context"
	"net/http"

	"Cignito/internal/api/handlers"
	"Cignito/internal/api/middleware"
	"Cignito/internal/core/reputation"
	"Cignito/internal/validation"

	"github.com/go-chi/chi/v5"
)

// Handler serves the reputation ledger endpoints
type Handler struct {
	service reputation.Service
}

// NewHandler creates a new vote handler
func NewHandler(service reputation.Service) *Handler {
	return &Handler{service: service}
}

type castFunc func(ctx context.Context, voterID, targetID string, voteType reputation.VoteType) (*reputation.CastResult, error)

// HandleVoteBug casts, switches or retracts a vote on a bug
// POST /api/bugs/{id}/vote
//
// Request body: { "voteType": "UPVOTE" | "DOWNVOTE" }
func (h *Handler) HandleVoteBug(w http.ResponseWriter, r *http.Request) {
	h.cast(w, r, h.service.VoteBug)
}

// HandleVoteSolution casts, switches or retracts a vote on a solution
// POST /api/solutions/{id}/vote
func (h *Handler) HandleVoteSolution(w http.ResponseWriter, r *http.Request) {
	h.cast(w, r, h.service.VoteSolution)
}

func (h *Handler) cast(w http.ResponseWriter, r *http.Request, fn castFunc) {
	var req reputation.CastVoteRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		handlers.WriteInvalidRequest(w, err)
		return
	}

	result, err := fn(r.Context(), middleware.GetUserID(r), chi.URLParam(r, "id"), req.VoteType)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"action": result.Action,
		"delta":  result.Delta,
		"tally":  result.Tally,
		"vote":   result.Vote,
	})
}

// HandleAccept accepts a solution on behalf of the bug author
// POST /api/solutions/{id}/accept
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	solution, err := h.service.AcceptSolution(r.Context(), middleware.GetUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"solution": solution,
	})
}
