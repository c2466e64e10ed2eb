package user

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"Cignito/internal/api/handlers"
	"Cignito/internal/api/middleware"
	"Cignito/internal/core/follows"
	"Cignito/internal/core/users"

	"github.com/go-chi/chi/v5"
)

// Handler serves user profiles and follow edges
type Handler struct {
	userService   users.UserService
	followService follows.Service
}

// NewHandler creates a new user handler
func NewHandler(userService users.UserService, followService follows.Service) *Handler {
	return &Handler{userService: userService, followService: followService}
}

// ProfileResponse is a user page. Email is only shown to the user themselves.
type ProfileResponse struct {
	*users.User
	Stats       follows.Stats `json:"followStats"`
	IsFollowing bool          `json:"isFollowing"`
}

// HandleCreate registers a profile for an identity verified upstream
// POST /api/users
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req users.CreateUserRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusCreated, map[string]interface{}{"user": user})
}

// HandleGet returns a profile with follow counts
// GET /api/users/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.writeProfile(w, r, user)
}

// HandleGetByUsername returns a profile by username
// GET /api/users/by-username/{username}
func (h *Handler) HandleGetByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.writeProfile(w, r, user)
}

func (h *Handler) writeProfile(w http.ResponseWriter, r *http.Request, user *users.User) {
	viewer := middleware.GetUserID(r)

	stats, err := h.followService.Stats(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	following, err := h.followService.IsFollowing(r.Context(), viewer, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	profile := *user
	if viewer != user.ID {
		profile.Email = ""
	}
	handlers.WriteJSON(w, http.StatusOK, ProfileResponse{User: &profile, Stats: stats, IsFollowing: following})
}

// HandleFollow follows a user
// POST /api/users/{id}/follow
func (h *Handler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	if err := h.followService.Follow(r.Context(), middleware.GetUserID(r), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, nil)
}

// HandleUnfollow removes a follow edge
// DELETE /api/users/{id}/follow
func (h *Handler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	if err := h.followService.Unfollow(r.Context(), middleware.GetUserID(r), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, nil)
}

// HandleFollowStats returns follower and following counts
// GET /api/users/{id}/follow-stats
func (h *Handler) HandleFollowStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.followService.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, stats)
}

// HandleFollowers lists who follows a user, most recent first
// GET /api/users/{id}/followers
func (h *Handler) HandleFollowers(w http.ResponseWriter, r *http.Request) {
	list, err := h.followService.Followers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": list})
}

// HandleFollowing lists who a user follows, most recent first
// GET /api/users/{id}/following
func (h *Handler) HandleFollowing(w http.ResponseWriter, r *http.Request) {
	list, err := h.followService.Following(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": list})
}

// HandleFeed returns recent bugs and solutions by users the caller follows
// GET /api/feed?limit=20
func (h *Handler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			handlers.WriteError(w, http.StatusBadRequest, handlers.CodeInvalidRequest, "limit must be a number")
			return
		}
		limit = n
	}

	feed, err := h.followService.Feed(r.Context(), middleware.GetUserID(r), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"activity": feed})
}

func handleServiceError(w http.ResponseWriter, err error) {
	if handlers.WriteValidationError(w, err) {
		return
	}

	switch {
	case errors.Is(err, follows.ErrFollowerRequired):
		handlers.WriteError(w, http.StatusUnauthorized, handlers.CodeUnauthenticated, "Sign in to continue")
	case errors.Is(err, follows.ErrSelfFollow):
		handlers.WriteError(w, http.StatusBadRequest, handlers.CodeInvalidRequest, err.Error())
	case errors.Is(err, users.ErrUserNotFound):
		handlers.WriteError(w, http.StatusNotFound, handlers.CodeNotFound, "User not found")
	case errors.Is(err, follows.ErrNotFollowing):
		handlers.WriteError(w, http.StatusNotFound, handlers.CodeNotFound, err.Error())
	case users.IsConflict(err), follows.IsConflict(err):
		handlers.WriteError(w, http.StatusConflict, handlers.CodeConflict, err.Error())
	default:
		log.Printf("User handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, handlers.CodePersistence, "Something went wrong. Please try again.")
	}
}
