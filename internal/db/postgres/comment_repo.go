package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Cignito/internal/core/comments"
	"Cignito/internal/core/users"
)

type postgresCommentRepo struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) comments.Repository {
	return &postgresCommentRepo{db: db}
}

const commentSelect = `
	SELECT
		c.id, c.content, c.author_id, COALESCE(c.bug_id, ''), COALESCE(c.solution_id, ''),
		c.created_at,
		u.name, u.username, u.image, u.reputation
	FROM comments c
	JOIN users u ON u.id = c.author_id`

func scanComment(row interface{ Scan(...any) error }) (*comments.Comment, error) {
	comment := &comments.Comment{}
	author := &users.Author{}
	err := row.Scan(
		&comment.ID, &comment.Content, &comment.AuthorID, &comment.BugID, &comment.SolutionID,
		&comment.CreatedAt,
		&author.Name, &author.Username, &author.Image, &author.Reputation,
	)
	if err != nil {
		return nil, err
	}
	author.ID = comment.AuthorID
	comment.Author = author
	return comment, nil
}

// Create inserts a new comment on a bug or a solution
func (r *postgresCommentRepo) Create(ctx context.Context, comment *comments.Comment) error {
	query := `
		INSERT INTO comments (id, content, author_id, bug_id, solution_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		comment.ID, comment.Content, comment.AuthorID,
		nullIfEmpty(comment.BugID), nullIfEmpty(comment.SolutionID),
	).Scan(&comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment with its author
func (r *postgresCommentRepo) GetByID(ctx context.Context, id string) (*comments.Comment, error) {
	comment, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, comments.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// Delete removes a comment
func (r *postgresCommentRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return requireRow(result, comments.ErrCommentNotFound)
}

// ListByBug returns a bug's comments oldest first
func (r *postgresCommentRepo) ListByBug(ctx context.Context, bugID string) ([]*comments.Comment, error) {
	return r.list(ctx, `c.bug_id = $1`, bugID)
}

// ListBySolution returns a solution's comments oldest first
func (r *postgresCommentRepo) ListBySolution(ctx context.Context, solutionID string) ([]*comments.Comment, error) {
	return r.list(ctx, `c.solution_id = $1`, solutionID)
}

func (r *postgresCommentRepo) list(ctx context.Context, filter, id string) ([]*comments.Comment, error) {
	query := commentSelect + ` WHERE ` + filter + ` ORDER BY c.created_at ASC, c.id ASC`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*comments.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		result = append(result, comment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}
