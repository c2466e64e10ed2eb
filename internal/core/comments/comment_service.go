package comments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/ids"
	"Cignito/internal/core/solutions"
	"Cignito/internal/live"
	"Cignito/internal/validation"

	"github.com/rivo/uniseg"
)

type commentService struct {
	repo         Repository
	bugRepo      bugs.Repository
	solutionRepo solutions.Repository
	revalidator  live.Revalidator
	logger       *slog.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(repo Repository, bugRepo bugs.Repository, solutionRepo solutions.Repository, revalidator live.Revalidator, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if revalidator == nil {
		revalidator = live.Noop{}
	}
	return &commentService{
		repo:         repo,
		bugRepo:      bugRepo,
		solutionRepo: solutionRepo,
		revalidator:  revalidator,
		logger:       logger,
	}
}

// CreateComment attaches a comment to a bug or a solution
func (s *commentService) CreateComment(ctx context.Context, authorID string, req CreateCommentRequest) (*Comment, error) {
	if authorID == "" {
		return nil, ErrAuthorRequired
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrContentEmpty
	}
	if uniseg.GraphemeClusterCount(content) > maxCommentGraphemes {
		return nil, ErrContentTooLong
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	paths, err := s.pathsFor(ctx, req.BugID, req.SolutionID)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:         ids.New(),
		Content:    content,
		AuthorID:   authorID,
		BugID:      req.BugID,
		SolutionID: req.SolutionID,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		s.logger.Error("failed to create comment", "error", err, "author", authorID)
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.revalidator.Revalidate(ctx, paths...)
	return comment, nil
}

// DeleteComment removes a comment authored by the caller
func (s *commentService) DeleteComment(ctx context.Context, callerID, id string) error {
	if callerID == "" {
		return ErrAuthorRequired
	}

	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.AuthorID != callerID {
		return ErrNotAuthorized
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if paths, err := s.pathsFor(ctx, comment.BugID, comment.SolutionID); err == nil {
		s.revalidator.Revalidate(ctx, paths...)
	}
	return nil
}

func (s *commentService) ListForBug(ctx context.Context, bugID string) ([]*Comment, error) {
	if _, err := s.bugRepo.GetByID(ctx, bugID); err != nil {
		return nil, err
	}
	return nonNil(s.repo.ListByBug(ctx, bugID))
}

func (s *commentService) ListForSolution(ctx context.Context, solutionID string) ([]*Comment, error) {
	if _, err := s.solutionRepo.GetByID(ctx, solutionID); err != nil {
		return nil, err
	}
	return nonNil(s.repo.ListBySolution(ctx, solutionID))
}

// pathsFor resolves the comment target and the pages that render it
func (s *commentService) pathsFor(ctx context.Context, bugID, solutionID string) ([]string, error) {
	if solutionID != "" {
		sol, err := s.solutionRepo.GetByID(ctx, solutionID)
		if err != nil {
			return nil, err
		}
		bug, err := s.bugRepo.GetByID(ctx, sol.BugID)
		if err != nil {
			return nil, err
		}
		return []string{live.BugPath(bug.Slug), live.SolutionPath(bug.Slug, sol.ID)}, nil
	}

	bug, err := s.bugRepo.GetByID(ctx, bugID)
	if err != nil {
		return nil, err
	}
	return []string{live.BugPath(bug.Slug)}, nil
}

func nonNil(list []*Comment, err error) ([]*Comment, error) {
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Comment{}
	}
	return list, nil
}
