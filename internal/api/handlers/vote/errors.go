package vote

import (
	"errors"
	"log"
	"net/http"

	"Cignito/internal/api/handlers"
	"Cignito/internal/core/reputation"
)

// handleServiceError converts ledger errors to the result envelope.
// Persistence failures are logged by the ledger; the client only sees the code.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reputation.ErrUnauthenticated):
		handlers.WriteError(w, http.StatusUnauthorized, handlers.CodeUnauthenticated, "Sign in to continue")
	case errors.Is(err, reputation.ErrSelfVote):
		handlers.WriteError(w, http.StatusForbidden, handlers.CodeSelfVoteForbidden, "You cannot vote on your own content")
	case errors.Is(err, reputation.ErrNotAuthorized):
		handlers.WriteError(w, http.StatusForbidden, handlers.CodeUnauthorized, "Only the bug author can accept a solution")
	case errors.Is(err, reputation.ErrTargetNotFound):
		handlers.WriteError(w, http.StatusNotFound, handlers.CodeNotFound, "Bug or solution not found")
	case errors.Is(err, reputation.ErrInvalidVoteType), errors.Is(err, reputation.ErrInvalidKind):
		handlers.WriteError(w, http.StatusBadRequest, handlers.CodeInvalidRequest, err.Error())
	default:
		if !errors.Is(err, reputation.ErrPersistence) {
			log.Printf("Vote handler error: %v", err)
		}
		handlers.WriteError(w, http.StatusInternalServerError, handlers.CodePersistence, "Something went wrong. Please try again.")
	}
}
