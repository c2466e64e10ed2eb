package solutions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/ids"
	"Cignito/internal/live"
	"Cignito/internal/validation"
)

type solutionService struct {
	repo        Repository
	bugRepo     bugs.Repository
	revalidator live.Revalidator
	logger      *slog.Logger
}

// NewService creates a new solution service
func NewService(repo Repository, bugRepo bugs.Repository, revalidator live.Revalidator, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if revalidator == nil {
		revalidator = live.Noop{}
	}
	return &solutionService{
		repo:        repo,
		bugRepo:     bugRepo,
		revalidator: revalidator,
		logger:      logger,
	}
}

// CreateSolution attaches a proposed fix to an existing bug
func (s *solutionService) CreateSolution(ctx context.Context, authorID, bugID string, req CreateSolutionRequest) (*Solution, error) {
	if authorID == "" {
		return nil, ErrAuthorRequired
	}

	req.Content = strings.TrimSpace(req.Content)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	bug, err := s.bugRepo.GetByID(ctx, bugID)
	if err != nil {
		return nil, err
	}

	solution := &Solution{
		ID:          ids.New(),
		Content:     req.Content,
		CodeSnippet: req.CodeSnippet,
		BugID:       bug.ID,
		AuthorID:    authorID,
	}

	if err := s.repo.Create(ctx, solution); err != nil {
		s.logger.Error("failed to create solution", "error", err, "bug", bugID, "author", authorID)
		return nil, fmt.Errorf("failed to create solution: %w", err)
	}

	s.logger.Info("solution created", "solution", solution.ID, "bug", bug.ID, "author", authorID)
	s.revalidator.Revalidate(ctx, live.BugPath(bug.Slug))

	return solution, nil
}

func (s *solutionService) GetSolution(ctx context.Context, id string) (*Solution, error) {
	if id == "" {
		return nil, ErrSolutionNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *solutionService) ListByBug(ctx context.Context, bugID string) ([]*Solution, error) {
	if _, err := s.bugRepo.GetByID(ctx, bugID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListByBug(ctx, bugID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Solution{}
	}
	return list, nil
}

// DeleteSolution removes a solution authored by the caller
func (s *solutionService) DeleteSolution(ctx context.Context, callerID, id string) error {
	if callerID == "" {
		return ErrAuthorRequired
	}

	solution, err := s.GetSolution(ctx, id)
	if err != nil {
		return err
	}
	if solution.AuthorID != callerID {
		return ErrNotAuthorized
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete solution", "error", err, "solution", id)
		return fmt.Errorf("failed to delete solution: %w", err)
	}

	s.logger.Info("solution deleted", "solution", id, "bug", solution.BugID)

	if bug, err := s.bugRepo.GetByID(ctx, solution.BugID); err == nil {
		s.revalidator.Revalidate(ctx, live.BugPath(bug.Slug))
	}
	return nil
}
