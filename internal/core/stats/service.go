package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"Cignito/internal/cache"
	"Cignito/internal/core/bugs"

	"github.com/sourcegraph/conc/pool"
)

// DefaultTTL matches the leaderboard page refresh window
const DefaultTTL = 5 * time.Minute

type statsService struct {
	repo   Repository
	cache  cache.Cache
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
	ttl    time.Duration
}

// NewService creates a stats service. Days for streaks are computed in UTC.
func NewService(repo Repository, c cache.Cache, ttl time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &statsService{
		repo:   repo,
		cache:  c,
		logger: logger,
		loc:    time.UTC,
		now:    time.Now,
		ttl:    ttl,
	}
}

// Leaderboard returns the top limit users, capped at MaxLeaderboard
func (s *statsService) Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > MaxLeaderboard {
		limit = MaxLeaderboard
	}

	var entries []*LeaderboardEntry
	if !s.fromCache(ctx, LeaderboardCacheKey, &entries) {
		var err error
		entries, err = s.buildLeaderboard(ctx)
		if err != nil {
			return nil, err
		}
		s.toCache(ctx, LeaderboardCacheKey, entries)
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *statsService) buildLeaderboard(ctx context.Context) ([]*LeaderboardEntry, error) {
	entries, err := s.repo.TopUsers(ctx, MaxLeaderboard)
	if err != nil {
		return nil, fmt.Errorf("failed to load top users: %w", err)
	}
	if len(entries) == 0 {
		return []*LeaderboardEntry{}, nil
	}

	userIDs := make([]string, len(entries))
	for i, e := range entries {
		userIDs[i] = e.ID
	}

	now := s.now()
	today := startOfDay(now, s.loc)
	since := today.AddDate(0, 0, -(maxStreakDays - 1))

	times, err := s.repo.SolutionTimes(ctx, userIDs, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load solution activity: %w", err)
	}

	for _, e := range entries {
		e.SolvedToday = countSince(times[e.ID], today)
		e.Streak = Streak(times[e.ID], now, s.loc)
	}
	return entries, nil
}

// PlatformStats returns site-wide counters, running the counts concurrently
func (s *statsService) PlatformStats(ctx context.Context) (*Platform, error) {
	var cached Platform
	if s.fromCache(ctx, PlatformCacheKey, &cached) {
		return &cached, nil
	}

	now := s.now()
	out := &Platform{GeneratedAt: now}

	// Each task writes a distinct field
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		n, err := s.repo.CountBugs(ctx, bugs.StatusOpen)
		out.OpenBugs = n
		return wrap("open bugs", err)
	})
	p.Go(func(ctx context.Context) error {
		n, err := s.repo.CountSolvedSince(ctx, now.Add(-24*time.Hour))
		out.SolvedToday = n
		return wrap("solved bugs", err)
	})
	p.Go(func(ctx context.Context) error {
		n, err := s.repo.CountUsers(ctx)
		out.TotalUsers = n
		return wrap("users", err)
	})
	p.Go(func(ctx context.Context) error {
		n, err := s.repo.CountSolutions(ctx)
		out.TotalSolutions = n
		return wrap("solutions", err)
	})
	p.Go(func(ctx context.Context) error {
		n, err := s.repo.CountBugs(ctx, "")
		out.TotalBugs = n
		return wrap("bugs", err)
	})
	p.Go(func(ctx context.Context) error {
		h, err := s.repo.AverageResponseHours(ctx, responseSample)
		out.AvgResponseHours = h
		return wrap("response time", err)
	})

	if err := p.Wait(); err != nil {
		s.logger.Error("failed to compute platform stats", "error", err)
		return nil, err
	}

	s.toCache(ctx, PlatformCacheKey, out)
	return out, nil
}

func (s *statsService) fromCache(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *statsService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to count %s: %w", what, err)
	}
	return nil
}
