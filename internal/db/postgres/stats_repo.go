package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/stats"

	"github.com/lib/pq"
)

type postgresStatsRepo struct {
	db *sql.DB
}

// NewStatsRepository creates the aggregate query repository behind the
// leaderboard and platform stats
func NewStatsRepository(db *sql.DB) stats.Repository {
	return &postgresStatsRepo{db: db}
}

// TopUsers ranks users by reputation, ties broken by id
func (r *postgresStatsRepo) TopUsers(ctx context.Context, limit int) ([]*stats.LeaderboardEntry, error) {
	query := `
		SELECT
			u.id, u.name, u.username, u.image, u.reputation,
			(SELECT COUNT(*) FROM solutions s WHERE s.author_id = u.id),
			(SELECT COUNT(*) FROM bugs b WHERE b.author_id = u.id)
		FROM users u
		ORDER BY u.reputation DESC, u.id ASC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*stats.LeaderboardEntry
	for rows.Next() {
		e := &stats.LeaderboardEntry{}
		if err := rows.Scan(&e.ID, &e.Name, &e.Username, &e.Image, &e.Reputation,
			&e.Solutions, &e.Bugs); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top users: %w", err)
	}
	return result, nil
}

// SolutionTimes groups solution creation times by author
func (r *postgresStatsRepo) SolutionTimes(ctx context.Context, userIDs []string, since time.Time) (map[string][]time.Time, error) {
	result := make(map[string][]time.Time, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT author_id, created_at
		FROM solutions
		WHERE author_id = ANY($1) AND created_at >= $2
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(userIDs), since)
	if err != nil {
		return nil, fmt.Errorf("failed to query solution times: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var authorID string
		var createdAt time.Time
		if err := rows.Scan(&authorID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan solution time: %w", err)
		}
		result[authorID] = append(result[authorID], createdAt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating solution times: %w", err)
	}
	return result, nil
}

func (r *postgresStatsRepo) CountBugs(ctx context.Context, status bugs.Status) (int, error) {
	if status == "" {
		return r.count(ctx, `SELECT COUNT(*) FROM bugs`)
	}
	return r.count(ctx, `SELECT COUNT(*) FROM bugs WHERE status = $1`, status)
}

func (r *postgresStatsRepo) CountSolvedSince(ctx context.Context, since time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM bugs WHERE status = $1 AND updated_at >= $2`,
		bugs.StatusSolved, since)
}

func (r *postgresStatsRepo) CountUsers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *postgresStatsRepo) CountSolutions(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM solutions`)
}

// AverageResponseHours averages bug-to-solution delay over recent solutions
func (r *postgresStatsRepo) AverageResponseHours(ctx context.Context, sample int) (float64, error) {
	query := `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (recent.created_at - recent.bug_created_at)) / 3600), 0)
		FROM (
			SELECT s.created_at, b.created_at AS bug_created_at
			FROM solutions s
			JOIN bugs b ON b.id = s.bug_id
			ORDER BY s.created_at DESC
			LIMIT $1
		) recent`

	var hours float64
	if err := r.db.QueryRowContext(ctx, query, sample).Scan(&hours); err != nil {
		return 0, fmt.Errorf("failed to average response time: %w", err)
	}
	return hours, nil
}

func (r *postgresStatsRepo) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}
