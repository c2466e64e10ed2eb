package stats

import (
	"context"
	"time"

	"Cignito/internal/core/bugs"
)

// Repository defines the aggregate queries behind the read models
type Repository interface {
	// TopUsers returns users by reputation with solution and bug counts filled
	TopUsers(ctx context.Context, limit int) ([]*LeaderboardEntry, error)

	// SolutionTimes returns creation times of each user's solutions since the given time
	SolutionTimes(ctx context.Context, userIDs []string, since time.Time) (map[string][]time.Time, error)

	// CountBugs counts bugs with status, or all bugs when status is empty
	CountBugs(ctx context.Context, status bugs.Status) (int, error)

	// CountSolvedSince counts SOLVED bugs updated at or after since
	CountSolvedSince(ctx context.Context, since time.Time) (int, error)

	CountUsers(ctx context.Context) (int, error)
	CountSolutions(ctx context.Context) (int, error)

	// AverageResponseHours averages the delay between bug and solution over
	// the sample most recent solutions. Zero when there are none.
	AverageResponseHours(ctx context.Context, sample int) (float64, error)
}

// Service serves the leaderboard and platform stats through a TTL cache
type Service interface {
	Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error)
	PlatformStats(ctx context.Context) (*Platform, error)
}
