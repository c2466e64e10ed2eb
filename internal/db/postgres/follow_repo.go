package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/follows"
	"Cignito/internal/core/solutions"
	"Cignito/internal/core/users"
)

type postgresFollowRepo struct {
	db *sql.DB
}

// NewFollowRepository creates a new PostgreSQL follow repository
func NewFollowRepository(db *sql.DB) follows.Repository {
	return &postgresFollowRepo{db: db}
}

// Create inserts a follow edge
func (r *postgresFollowRepo) Create(ctx context.Context, follow *follows.Follow) error {
	query := `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, follow.FollowerID, follow.FollowingID).Scan(&follow.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "follows_pkey") {
			return follows.ErrAlreadyFollowing
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

// Delete removes a follow edge
func (r *postgresFollowRepo) Delete(ctx context.Context, followerID, followingID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return requireRow(result, follows.ErrNotFollowing)
}

// Exists reports whether followerID follows followingID
func (r *postgresFollowRepo) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`,
		followerID, followingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

// Stats counts followers and followings of a user
func (r *postgresFollowRepo) Stats(ctx context.Context, userID string) (follows.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE following_id = $1),
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1)`

	var stats follows.Stats
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&stats.Followers, &stats.Following); err != nil {
		return follows.Stats{}, fmt.Errorf("failed to count follows: %w", err)
	}
	return stats, nil
}

// Followers lists the users following userID
func (r *postgresFollowRepo) Followers(ctx context.Context, userID string) ([]*follows.Profile, error) {
	return r.listProfiles(ctx, "f.follower_id", "f.following_id", userID)
}

// Following lists the users userID follows
func (r *postgresFollowRepo) Following(ctx context.Context, userID string) ([]*follows.Profile, error) {
	return r.listProfiles(ctx, "f.following_id", "f.follower_id", userID)
}

// listProfiles joins users on one end of the edge and filters on the other.
// Both column names are constants chosen by the callers above.
func (r *postgresFollowRepo) listProfiles(ctx context.Context, joinCol, whereCol, userID string) ([]*follows.Profile, error) {
	query := `
		SELECT
			u.id, u.name, u.username, u.image, u.reputation, f.created_at,
			(SELECT COUNT(*) FROM bugs b WHERE b.author_id = u.id),
			(SELECT COUNT(*) FROM solutions s WHERE s.author_id = u.id)
		FROM follows f
		JOIN users u ON u.id = ` + joinCol + `
		WHERE ` + whereCol + ` = $1
		ORDER BY f.created_at DESC, u.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*follows.Profile
	for rows.Next() {
		p := &follows.Profile{}
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Username, &p.Image, &p.Reputation, &p.FollowedAt,
			&p.BugCount, &p.SolutionCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan follow profile: %w", err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follow profiles: %w", err)
	}
	return result, nil
}

// Feed reads up to limit bugs and limit solutions by followed users, then
// merges them and keeps the newest limit entries
func (r *postgresFollowRepo) Feed(ctx context.Context, userID string, limit int) ([]*follows.Activity, error) {
	const followed = `(SELECT following_id FROM follows WHERE follower_id = $1)`

	bugRows, err := r.db.QueryContext(ctx,
		bugSelect+` WHERE b.author_id IN `+followed+` ORDER BY b.created_at DESC, b.id DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed bugs: %w", err)
	}
	defer func() { _ = bugRows.Close() }()

	var (
		feed    []*follows.Activity
		reports []*bugs.Bug
	)
	for bugRows.Next() {
		bug, err := scanBug(bugRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed bug: %w", err)
		}
		reports = append(reports, bug)
		feed = append(feed, &follows.Activity{Type: follows.ActivityBug, CreatedAt: bug.CreatedAt, Bug: bug})
	}
	if err = bugRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed bugs: %w", err)
	}
	if err := loadBugTags(ctx, r.db, reports...); err != nil {
		return nil, err
	}

	solutionRows, err := r.db.QueryContext(ctx, `
		SELECT
			s.id, s.content, s.code_snippet, s.bug_id, s.author_id, s.is_accepted,
			s.created_at, s.updated_at,
			u.name, u.username, u.image, u.reputation,
			b.title, b.slug
		FROM solutions s
		JOIN users u ON u.id = s.author_id
		JOIN bugs b ON b.id = s.bug_id
		WHERE s.author_id IN `+followed+`
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed solutions: %w", err)
	}
	defer func() { _ = solutionRows.Close() }()

	for solutionRows.Next() {
		solution := &solutions.Solution{}
		author := &users.Author{}
		bug := &bugs.Bug{}
		if err := solutionRows.Scan(
			&solution.ID, &solution.Content, &solution.CodeSnippet, &solution.BugID,
			&solution.AuthorID, &solution.IsAccepted, &solution.CreatedAt, &solution.UpdatedAt,
			&author.Name, &author.Username, &author.Image, &author.Reputation,
			&bug.Title, &bug.Slug,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feed solution: %w", err)
		}
		author.ID = solution.AuthorID
		solution.Author = author
		bug.ID = solution.BugID
		feed = append(feed, &follows.Activity{
			Type:      follows.ActivitySolution,
			CreatedAt: solution.CreatedAt,
			Bug:       bug,
			Solution:  solution,
		})
	}
	if err = solutionRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed solutions: %w", err)
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}
