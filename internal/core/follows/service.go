package follows

import (
	"context"
	"fmt"
	"log/slog"

	"Cignito/internal/core/users"
	"Cignito/internal/live"
	"Cignito/internal/validation"
)

type followService struct {
	repo        Repository
	userRepo    users.UserRepository
	revalidator live.Revalidator
	logger      *slog.Logger
}

// NewService creates a new follow service
func NewService(repo Repository, userRepo users.UserRepository, revalidator live.Revalidator, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if revalidator == nil {
		revalidator = live.Noop{}
	}
	return &followService{
		repo:        repo,
		userRepo:    userRepo,
		revalidator: revalidator,
		logger:      logger,
	}
}

// Follow creates an edge from followerID to followingID
func (s *followService) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" {
		return ErrFollowerRequired
	}
	if followerID == followingID {
		return ErrSelfFollow
	}

	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, &Follow{FollowerID: followerID, FollowingID: followingID}); err != nil {
		if IsConflict(err) {
			return err
		}
		return fmt.Errorf("failed to follow user: %w", err)
	}

	s.logger.Debug("user followed", "follower", followerID, "following", followingID)
	s.revalidator.Revalidate(ctx, live.UserPath(followingID), live.UserPath(followerID))
	return nil
}

// Unfollow removes the edge from followerID to followingID
func (s *followService) Unfollow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" {
		return ErrFollowerRequired
	}

	if err := s.repo.Delete(ctx, followerID, followingID); err != nil {
		return err
	}

	s.revalidator.Revalidate(ctx, live.UserPath(followingID), live.UserPath(followerID))
	return nil
}

func (s *followService) Stats(ctx context.Context, userID string) (Stats, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return Stats{}, err
	}
	return s.repo.Stats(ctx, userID)
}

// IsFollowing is false for anonymous callers
func (s *followService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || followingID == "" {
		return false, nil
	}
	return s.repo.Exists(ctx, followerID, followingID)
}

func (s *followService) Followers(ctx context.Context, userID string) ([]*Profile, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	list, err := s.repo.Followers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return nonNil(list), nil
}

func (s *followService) Following(ctx context.Context, userID string) ([]*Profile, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	list, err := s.repo.Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return nonNil(list), nil
}

// Feed returns the caller's activity feed. A limit of zero means
// DefaultFeedLimit and larger limits are capped at MaxFeedLimit.
func (s *followService) Feed(ctx context.Context, userID string, limit int) ([]*Activity, error) {
	if userID == "" {
		return nil, ErrFollowerRequired
	}
	switch {
	case limit < 0:
		return nil, &validation.Error{Field: "limit", Reason: "min", Param: "1"}
	case limit == 0:
		limit = DefaultFeedLimit
	case limit > MaxFeedLimit:
		limit = MaxFeedLimit
	}

	feed, err := s.repo.Feed(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	if feed == nil {
		feed = []*Activity{}
	}
	return feed, nil
}

func nonNil(list []*Profile) []*Profile {
	if list == nil {
		return []*Profile{}
	}
	return list
}
