package bug

import (
	"log"
	"net/http"
	"strconv"

	"Cignito/internal/api/handlers"
	"Cignito/internal/api/middleware"
	"Cignito/internal/core/bugs"

	"github.com/go-chi/chi/v5"
)

// Handler serves the bug endpoints
type Handler struct {
	service bugs.Service
}

// NewHandler creates a new bug handler
func NewHandler(service bugs.Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate reports a new bug
// POST /api/bugs
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req bugs.CreateBugRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	bug, err := h.service.CreateBug(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusCreated, map[string]interface{}{"bug": bug})
}

// HandleGet returns a bug by id and counts the view
// GET /api/bugs/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	bug, err := h.service.GetBug(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.recordView(r, bug.ID)
	handlers.WriteJSON(w, http.StatusOK, bug)
}

// HandleGetBySlug returns a bug by its URL slug and counts the view
// GET /api/bugs/slug/{slug}
func (h *Handler) HandleGetBySlug(w http.ResponseWriter, r *http.Request) {
	bug, err := h.service.GetBugBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.recordView(r, bug.ID)
	handlers.WriteJSON(w, http.StatusOK, bug)
}

// View counting never fails the read
func (h *Handler) recordView(r *http.Request, bugID string) {
	if err := h.service.RecordView(r.Context(), bugID, middleware.GetUserID(r)); err != nil {
		log.Printf("Failed to record view for bug %s: %v", bugID, err)
	}
}

// HandleList returns a page of bugs, newest first
// GET /api/bugs?status=OPEN&language=go&tag=concurrency&author=...&cursor=...&limit=20
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("author"))
}

// HandleListByAuthor returns a page of one user's bugs
// GET /api/users/{id}/bugs
func (h *Handler) HandleListByAuthor(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, authorID string) {
	q := r.URL.Query()
	req := bugs.ListBugsRequest{
		Status:   bugs.Status(q.Get("status")),
		Language: q.Get("language"),
		Tag:      q.Get("tag"),
		AuthorID: authorID,
		Cursor:   q.Get("cursor"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			handlers.WriteError(w, http.StatusBadRequest, handlers.CodeInvalidRequest, "limit must be a number")
			return
		}
		req.Limit = limit
	}

	resp, err := h.service.ListBugs(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// HandleListTags returns every tag with its bug count, most used first
// GET /api/tags
func (h *Handler) HandleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}

// HandleUpdate edits a bug's content and tags. Author only.
// PATCH /api/bugs/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req bugs.UpdateBugRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	bug, err := h.service.UpdateBug(r.Context(), middleware.GetUserID(r), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, map[string]interface{}{"bug": bug})
}

type updateStatusRequest struct {
	Status bugs.Status `json:"status"`
}

// HandleUpdateStatus moves a bug between states. Author only.
// PATCH /api/bugs/{id}/status
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	bug, err := h.service.UpdateBugStatus(r.Context(), middleware.GetUserID(r), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, map[string]interface{}{"bug": bug})
}

// HandleDelete removes a bug with its solutions, comments and votes. Author only.
// DELETE /api/bugs/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBug(r.Context(), middleware.GetUserID(r), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, nil)
}
