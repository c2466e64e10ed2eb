package vote

import (
	"net/http"

	"Cignito/internal/api/handlers"
	"Cignito/internal/api/middleware"
	"Cignito/internal/core/reputation"

	"github.com/go-chi/chi/v5"
)

// TallyResponse is the vote summary of one target. MyVote is only set for
// signed-in callers who have voted.
type TallyResponse struct {
	reputation.Tally
	MyVote *reputation.VoteType `json:"myVote"`
}

// HandleBugTally returns the votes on a bug
// GET /api/bugs/{id}/votes
func (h *Handler) HandleBugTally(w http.ResponseWriter, r *http.Request) {
	h.tally(w, r, reputation.KindBug)
}

// HandleSolutionTally returns the votes on a solution
// GET /api/solutions/{id}/votes
func (h *Handler) HandleSolutionTally(w http.ResponseWriter, r *http.Request) {
	h.tally(w, r, reputation.KindSolution)
}

func (h *Handler) tally(w http.ResponseWriter, r *http.Request, kind reputation.TargetKind) {
	targetID := chi.URLParam(r, "id")

	tally, err := h.service.Tally(r.Context(), targetID, kind)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := TallyResponse{Tally: tally}
	vote, err := h.service.UserVote(r.Context(), middleware.GetUserID(r), targetID, kind)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if vote != nil {
		resp.MyVote = &vote.Type
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}
