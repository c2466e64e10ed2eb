package bug

import (
	"errors"
	"log"
	"net/http"

	"Cignito/internal/api/handlers"
	"Cignito/internal/core/bugs"
)

// handleServiceError converts bug service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	if handlers.WriteValidationError(w, err) {
		return
	}

	switch {
	case errors.Is(err, bugs.ErrAuthorRequired):
		handlers.WriteError(w, http.StatusUnauthorized, handlers.CodeUnauthenticated, "Sign in to continue")
	case errors.Is(err, bugs.ErrNotAuthorized):
		handlers.WriteError(w, http.StatusForbidden, handlers.CodeUnauthorized, err.Error())
	case bugs.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, handlers.CodeNotFound, "Bug not found")
	case bugs.IsConflict(err):
		handlers.WriteError(w, http.StatusConflict, handlers.CodeConflict, err.Error())
	case errors.Is(err, bugs.ErrInvalidStatus), errors.Is(err, bugs.ErrInvalidCursor):
		handlers.WriteError(w, http.StatusBadRequest, handlers.CodeInvalidRequest, err.Error())
	default:
		log.Printf("Bug handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, handlers.CodePersistence, "Something went wrong. Please try again.")
	}
}
