package bugs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"Cignito/internal/core/ids"
	"Cignito/internal/live"
	"Cignito/internal/validation"
)

const defaultListLimit = 20

type bugService struct {
	repo        Repository
	revalidator live.Revalidator
	logger      *slog.Logger
}

// NewService creates a new bug service
func NewService(repo Repository, revalidator live.Revalidator, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if revalidator == nil {
		revalidator = live.Noop{}
	}
	return &bugService{
		repo:        repo,
		revalidator: revalidator,
		logger:      logger,
	}
}

// CreateBug validates the report, derives its slug and stores it as OPEN
func (s *bugService) CreateBug(ctx context.Context, authorID string, req CreateBugRequest) (*Bug, error) {
	if authorID == "" {
		return nil, ErrAuthorRequired
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Language = strings.TrimSpace(req.Language)
	req.Framework = strings.TrimSpace(req.Framework)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	slug := Slugify(req.Title)
	if slug == "" {
		return nil, &validation.Error{Field: "title", Reason: "slug"}
	}

	severity := req.Severity
	if severity == "" {
		severity = SeverityMedium
	}

	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	bug := &Bug{
		ID:          ids.New(),
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
		CodeSnippet: req.CodeSnippet,
		Language:    req.Language,
		Framework:   req.Framework,
		Severity:    severity,
		Status:      StatusOpen,
		AuthorID:    authorID,
		Tags:        tags,
	}

	if err := s.repo.Create(ctx, bug); err != nil {
		if !errors.Is(err, ErrSlugTaken) {
			s.logger.Error("failed to create bug", "error", err, "author", authorID)
		}
		return nil, err
	}

	s.logger.Info("bug created", "bug", bug.ID, "slug", bug.Slug, "author", authorID)
	s.revalidator.Revalidate(ctx, live.HomePath, live.BugPath(bug.Slug))

	return bug, nil
}

func (s *bugService) GetBug(ctx context.Context, id string) (*Bug, error) {
	if id == "" {
		return nil, ErrBugNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *bugService) GetBugBySlug(ctx context.Context, slug string) (*Bug, error) {
	if slug == "" {
		return nil, ErrBugNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

// UpdateBug lets the author edit a report. Severity falls back to the current
// value when omitted.
func (s *bugService) UpdateBug(ctx context.Context, callerID, bugID string, req UpdateBugRequest) (*Bug, error) {
	if callerID == "" {
		return nil, ErrAuthorRequired
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Language = strings.TrimSpace(req.Language)
	req.Framework = strings.TrimSpace(req.Framework)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	bug, err := s.authorize(ctx, callerID, bugID)
	if err != nil {
		return nil, err
	}

	bug.Title = req.Title
	bug.Description = req.Description
	bug.CodeSnippet = req.CodeSnippet
	bug.Language = req.Language
	bug.Framework = req.Framework
	if req.Severity != "" {
		bug.Severity = req.Severity
	}
	if req.Tags != nil {
		if bug.Tags, err = normalizeTags(req.Tags); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, bug); err != nil {
		if !IsNotFound(err) {
			s.logger.Error("failed to update bug", "error", err, "bug", bugID)
		}
		return nil, err
	}

	s.logger.Info("bug updated", "bug", bugID, "author", callerID)
	s.revalidator.Revalidate(ctx, live.HomePath, live.BugPath(bug.Slug))
	return bug, nil
}

// UpdateBugStatus lets the bug's author move it between states
func (s *bugService) UpdateBugStatus(ctx context.Context, callerID, bugID string, status Status) (*Bug, error) {
	if callerID == "" {
		return nil, ErrAuthorRequired
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	bug, err := s.authorize(ctx, callerID, bugID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, bugID, status); err != nil {
		return nil, fmt.Errorf("failed to update bug status: %w", err)
	}
	bug.Status = status

	s.revalidator.Revalidate(ctx, live.BugPath(bug.Slug))
	return bug, nil
}

// DeleteBug removes a bug and everything attached to it
func (s *bugService) DeleteBug(ctx context.Context, callerID, bugID string) error {
	if callerID == "" {
		return ErrAuthorRequired
	}

	bug, err := s.authorize(ctx, callerID, bugID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, bugID); err != nil {
		s.logger.Error("failed to delete bug", "error", err, "bug", bugID)
		return fmt.Errorf("failed to delete bug: %w", err)
	}

	s.logger.Info("bug deleted", "bug", bugID, "author", callerID)
	s.revalidator.Revalidate(ctx, live.HomePath, live.BugPath(bug.Slug))
	return nil
}

func (s *bugService) ListBugs(ctx context.Context, req ListBugsRequest) (*ListBugsResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Limit <= 0 {
		req.Limit = defaultListLimit
	}

	list, cursor, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Bug{}
	}
	return &ListBugsResponse{Bugs: list, Cursor: cursor}, nil
}

// RecordView counts a view at most once per signed-in viewer
func (s *bugService) RecordView(ctx context.Context, bugID, viewerID string) error {
	if bugID == "" {
		return ErrBugNotFound
	}
	if _, err := s.repo.RecordView(ctx, bugID, viewerID); err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

func (s *bugService) ListTags(ctx context.Context) ([]*Tag, error) {
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []*Tag{}
	}
	return tags, nil
}

// normalizeTags trims names, drops duplicates by slug and keeps input order
func normalizeTags(names []string) ([]Tag, error) {
	tags := make([]Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		slug := Slugify(name)
		if slug == "" {
			return nil, &validation.Error{Field: "tags", Reason: "slug"}
		}
		if seen[slug] {
			continue
		}
		seen[slug] = true
		tags = append(tags, Tag{ID: ids.New(), Name: name, Slug: slug})
	}
	return tags, nil
}

func (s *bugService) authorize(ctx context.Context, callerID, bugID string) (*Bug, error) {
	bug, err := s.GetBug(ctx, bugID)
	if err != nil {
		return nil, err
	}
	if bug.AuthorID != callerID {
		return nil, ErrNotAuthorized
	}
	return bug, nil
}
