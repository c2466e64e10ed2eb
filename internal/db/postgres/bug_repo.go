package postgres

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/reputation"
	"Cignito/internal/core/users"

	"github.com/lib/pq"
)

type postgresBugRepo struct {
	db *sql.DB
}

// NewBugRepository creates a new PostgreSQL bug repository
func NewBugRepository(db *sql.DB) bugs.Repository {
	return &postgresBugRepo{db: db}
}

const bugSelect = `
	SELECT
		b.id, b.title, b.slug, b.description, b.code_snippet,
		b.language, b.framework, b.severity, b.status, b.views,
		b.author_id, b.created_at, b.updated_at,
		u.name, u.username, u.image, u.reputation,
		(SELECT COUNT(*) FROM solutions s WHERE s.bug_id = b.id)
	FROM bugs b
	JOIN users u ON u.id = b.author_id`

func scanBug(row interface{ Scan(...any) error }) (*bugs.Bug, error) {
	bug := &bugs.Bug{}
	author := &users.Author{}
	err := row.Scan(
		&bug.ID, &bug.Title, &bug.Slug, &bug.Description, &bug.CodeSnippet,
		&bug.Language, &bug.Framework, &bug.Severity, &bug.Status, &bug.Views,
		&bug.AuthorID, &bug.CreatedAt, &bug.UpdatedAt,
		&author.Name, &author.Username, &author.Image, &author.Reputation,
		&bug.SolutionCount,
	)
	if err != nil {
		return nil, err
	}
	author.ID = bug.AuthorID
	bug.Author = author
	return bug, nil
}

// Create inserts a new bug and links its tags
func (r *postgresBugRepo) Create(ctx context.Context, bug *bugs.Bug) error {
	query := `
		INSERT INTO bugs (
			id, title, slug, description, code_snippet,
			language, framework, severity, status, author_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, query,
			bug.ID, bug.Title, bug.Slug, bug.Description, bug.CodeSnippet,
			bug.Language, bug.Framework, bug.Severity, bug.Status, bug.AuthorID,
		).Scan(&bug.CreatedAt, &bug.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err, "bugs_slug_key") {
				return bugs.ErrSlugTaken
			}
			return fmt.Errorf("failed to insert bug: %w", err)
		}
		return linkTags(ctx, tx, bug)
	})
}

// Update stores the editable fields and replaces the bug's tags
func (r *postgresBugRepo) Update(ctx context.Context, bug *bugs.Bug) error {
	query := `
		UPDATE bugs
		SET title = $2, description = $3, code_snippet = $4,
		    language = $5, framework = $6, severity = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, query,
			bug.ID, bug.Title, bug.Description, bug.CodeSnippet,
			bug.Language, bug.Framework, bug.Severity,
		).Scan(&bug.UpdatedAt)
		if err == sql.ErrNoRows {
			return bugs.ErrBugNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to update bug: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM bug_tags WHERE bug_id = $1`, bug.ID); err != nil {
			return fmt.Errorf("failed to clear bug tags: %w", err)
		}
		return linkTags(ctx, tx, bug)
	})
}

// linkTags creates missing tags and links all of bug.Tags to the bug.
// Tag ids are replaced with the stored ones.
func linkTags(ctx context.Context, tx *sql.Tx, bug *bugs.Bug) error {
	for i := range bug.Tags {
		tag := &bug.Tags[i]
		// The no-op update makes RETURNING yield the existing row's id
		err := tx.QueryRowContext(ctx, `
			INSERT INTO tags (id, name, slug) VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
			RETURNING id, name`,
			tag.ID, tag.Name, tag.Slug,
		).Scan(&tag.ID, &tag.Name)
		if err != nil {
			return fmt.Errorf("failed to upsert tag %q: %w", tag.Slug, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bug_tags (bug_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			bug.ID, tag.ID); err != nil {
			return fmt.Errorf("failed to link tag %q: %w", tag.Slug, err)
		}
	}
	if bug.Tags == nil {
		bug.Tags = []bugs.Tag{}
	}
	return nil
}

// loadTags fills Tags on every bug with one query
func (r *postgresBugRepo) loadTags(ctx context.Context, list ...*bugs.Bug) error {
	return loadBugTags(ctx, r.db, list...)
}

func loadBugTags(ctx context.Context, db *sql.DB, list ...*bugs.Bug) error {
	if len(list) == 0 {
		return nil
	}

	byID := make(map[string]*bugs.Bug, len(list))
	ids := make([]string, len(list))
	for i, b := range list {
		b.Tags = []bugs.Tag{}
		byID[b.ID] = b
		ids[i] = b.ID
	}

	rows, err := db.QueryContext(ctx, `
		SELECT bt.bug_id, t.id, t.name, t.slug
		FROM bug_tags bt
		JOIN tags t ON t.id = bt.tag_id
		WHERE bt.bug_id = ANY($1)
		ORDER BY t.name`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load bug tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var bugID string
		var tag bugs.Tag
		if err := rows.Scan(&bugID, &tag.ID, &tag.Name, &tag.Slug); err != nil {
			return fmt.Errorf("failed to scan bug tag: %w", err)
		}
		if b, ok := byID[bugID]; ok {
			b.Tags = append(b.Tags, tag)
		}
	}
	return rows.Err()
}

// GetByID retrieves a bug with its author and solution count
func (r *postgresBugRepo) GetByID(ctx context.Context, id string) (*bugs.Bug, error) {
	bug, err := scanBug(r.db.QueryRowContext(ctx, bugSelect+` WHERE b.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, bugs.ErrBugNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bug: %w", err)
	}
	if err := r.loadTags(ctx, bug); err != nil {
		return nil, err
	}
	return bug, nil
}

// GetBySlug retrieves a bug by its URL slug
func (r *postgresBugRepo) GetBySlug(ctx context.Context, slug string) (*bugs.Bug, error) {
	bug, err := scanBug(r.db.QueryRowContext(ctx, bugSelect+` WHERE b.slug = $1`, slug))
	if err == sql.ErrNoRows {
		return nil, bugs.ErrBugNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bug by slug: %w", err)
	}
	if err := r.loadTags(ctx, bug); err != nil {
		return nil, err
	}
	return bug, nil
}

// UpdateStatus sets the bug status
func (r *postgresBugRepo) UpdateStatus(ctx context.Context, id string, status bugs.Status) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bugs SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update bug status: %w", err)
	}
	return requireRow(result, bugs.ErrBugNotFound)
}

// Delete removes the bug. Solutions, comments, votes, views and tag links go
// with it through ON DELETE CASCADE. Stored reputation is left untouched: what
// the removed votes and bonuses contributed is moved to retained_reputation so
// a replay of the remaining events still balances.
func (r *postgresBugRepo) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var authorID string
		err := tx.QueryRowContext(ctx, `SELECT author_id FROM bugs WHERE id = $1 FOR UPDATE`, id).Scan(&authorID)
		if err == sql.ErrNoRows {
			return bugs.ErrBugNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock bug: %w", err)
		}

		// Solution votes lock the solution row, so holding all of them keeps
		// new votes out until the cascade has run.
		if err := lockRows(ctx, tx, `SELECT id FROM solutions WHERE bug_id = $1 FOR UPDATE`, id); err != nil {
			return fmt.Errorf("failed to lock solutions: %w", err)
		}

		retainBugVotes := `
			UPDATE users
			SET retained_reputation = retained_reputation +
			    $3 * (SELECT COALESCE(SUM(value), 0) FROM votes WHERE bug_id = $1)
			WHERE id = $2`
		if _, err := tx.ExecContext(ctx, retainBugVotes, id, authorID, reputation.BugVoteMagnitude); err != nil {
			return fmt.Errorf("failed to retain bug vote reputation: %w", err)
		}

		retainSolutions := `
			UPDATE users u
			SET retained_reputation = u.retained_reputation + agg.earned
			FROM (
				SELECT s.author_id,
				       SUM(COALESCE(v.total, 0) * $2 + s.bonus_awards * $3) AS earned
				FROM solutions s
				LEFT JOIN (
					SELECT solution_id, SUM(value) AS total FROM votes
					WHERE solution_id IS NOT NULL GROUP BY solution_id
				) v ON v.solution_id = s.id
				WHERE s.bug_id = $1
				GROUP BY s.author_id
			) agg
			WHERE u.id = agg.author_id`
		if _, err := tx.ExecContext(ctx, retainSolutions, id,
			reputation.SolutionVoteMagnitude, reputation.AcceptanceBonus); err != nil {
			return fmt.Errorf("failed to retain solution reputation: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM bugs WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete bug: %w", err)
		}
		return nil
	})
}

// List returns a page of bugs newest first using keyset pagination
func (r *postgresBugRepo) List(ctx context.Context, req bugs.ListBugsRequest) ([]*bugs.Bug, string, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if req.Status != "" {
		where = append(where, "b.status = "+arg(req.Status))
	}
	if req.Language != "" {
		where = append(where, "LOWER(b.language) = LOWER("+arg(req.Language)+")")
	}
	if req.AuthorID != "" {
		where = append(where, "b.author_id = "+arg(req.AuthorID))
	}
	if req.Tag != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM bug_tags bt JOIN tags t ON t.id = bt.tag_id
			WHERE bt.bug_id = b.id AND t.slug = `+arg(req.Tag)+`)`)
	}
	if req.Cursor != "" {
		createdAt, id, err := decodeCursor(req.Cursor)
		if err != nil {
			return nil, "", err
		}
		where = append(where, fmt.Sprintf("(b.created_at, b.id) < (%s, %s)", arg(createdAt), arg(id)))
	}

	query := bugSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	// Fetch one extra row to know whether another page exists
	query += " ORDER BY b.created_at DESC, b.id DESC LIMIT " + arg(req.Limit+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list bugs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*bugs.Bug
	for rows.Next() {
		bug, err := scanBug(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan bug: %w", err)
		}
		result = append(result, bug)
	}
	if err = rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating bugs: %w", err)
	}

	var next string
	if len(result) > req.Limit {
		result = result[:req.Limit]
		last := result[len(result)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}
	if err := r.loadTags(ctx, result...); err != nil {
		return nil, "", err
	}
	return result, next, nil
}

// RecordView bumps the view counter once per signed-in viewer
func (r *postgresBugRepo) RecordView(ctx context.Context, bugID, viewerID string) (bool, error) {
	counted := false
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM bugs WHERE id = $1)`, bugID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check bug: %w", err)
		}
		if !exists {
			return bugs.ErrBugNotFound
		}

		if viewerID != "" {
			result, err := tx.ExecContext(ctx,
				`INSERT INTO bug_views (bug_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				bugID, viewerID)
			if err != nil {
				return fmt.Errorf("failed to record bug view: %w", err)
			}
			if n, err := result.RowsAffected(); err != nil || n == 0 {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `UPDATE bugs SET views = views + 1 WHERE id = $1`, bugID); err != nil {
			return fmt.Errorf("failed to increment views: %w", err)
		}
		counted = true
		return nil
	})
	return counted, err
}

// ListTags returns every tag with the number of bugs using it
func (r *postgresBugRepo) ListTags(ctx context.Context) ([]*bugs.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, COUNT(bt.bug_id) AS bug_count
		FROM tags t
		LEFT JOIN bug_tags bt ON bt.tag_id = t.id
		GROUP BY t.id
		ORDER BY bug_count DESC, t.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*bugs.Tag
	for rows.Next() {
		tag := &bugs.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.BugCount); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		result = append(result, tag)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return result, nil
}

func encodeCursor(createdAt time.Time, id string) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", bugs.ErrInvalidCursor
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return time.Time{}, "", bugs.ErrInvalidCursor
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, "", bugs.ErrInvalidCursor
	}
	return createdAt, id, nil
}
