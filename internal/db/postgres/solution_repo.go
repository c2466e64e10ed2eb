package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Cignito/internal/core/reputation"
	"Cignito/internal/core/solutions"
	"Cignito/internal/core/users"
)

type postgresSolutionRepo struct {
	db *sql.DB
}

// NewSolutionRepository creates a new PostgreSQL solution repository
func NewSolutionRepository(db *sql.DB) solutions.Repository {
	return &postgresSolutionRepo{db: db}
}

const solutionSelect = `
	SELECT
		s.id, s.content, s.code_snippet, s.bug_id, s.author_id, s.is_accepted,
		s.created_at, s.updated_at,
		u.name, u.username, u.image, u.reputation
	FROM solutions s
	JOIN users u ON u.id = s.author_id`

func scanSolution(row interface{ Scan(...any) error }) (*solutions.Solution, error) {
	solution := &solutions.Solution{}
	author := &users.Author{}
	err := row.Scan(
		&solution.ID, &solution.Content, &solution.CodeSnippet, &solution.BugID,
		&solution.AuthorID, &solution.IsAccepted, &solution.CreatedAt, &solution.UpdatedAt,
		&author.Name, &author.Username, &author.Image, &author.Reputation,
	)
	if err != nil {
		return nil, err
	}
	author.ID = solution.AuthorID
	solution.Author = author
	return solution, nil
}

// Create inserts a new solution
func (r *postgresSolutionRepo) Create(ctx context.Context, solution *solutions.Solution) error {
	query := `
		INSERT INTO solutions (id, content, code_snippet, bug_id, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING is_accepted, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		solution.ID, solution.Content, solution.CodeSnippet, solution.BugID, solution.AuthorID,
	).Scan(&solution.IsAccepted, &solution.CreatedAt, &solution.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert solution: %w", err)
	}
	return nil
}

// GetByID retrieves a solution with its author
func (r *postgresSolutionRepo) GetByID(ctx context.Context, id string) (*solutions.Solution, error) {
	solution, err := scanSolution(r.db.QueryRowContext(ctx, solutionSelect+` WHERE s.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, solutions.ErrSolutionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get solution: %w", err)
	}
	return solution, nil
}

// ListByBug returns the accepted solution first, then newest first
func (r *postgresSolutionRepo) ListByBug(ctx context.Context, bugID string) ([]*solutions.Solution, error) {
	query := solutionSelect + ` WHERE s.bug_id = $1 ORDER BY s.is_accepted DESC, s.created_at DESC, s.id DESC`

	rows, err := r.db.QueryContext(ctx, query, bugID)
	if err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*solutions.Solution
	for rows.Next() {
		solution, err := scanSolution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan solution: %w", err)
		}
		result = append(result, solution)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating solutions: %w", err)
	}
	return result, nil
}

// Delete removes the solution; votes and comments cascade. The author's stored
// reputation is kept and what the solution earned moves to retained_reputation.
func (r *postgresSolutionRepo) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var authorID string
		var bonusAwards int
		err := tx.QueryRowContext(ctx,
			`SELECT author_id, bonus_awards FROM solutions WHERE id = $1 FOR UPDATE`, id,
		).Scan(&authorID, &bonusAwards)
		if err == sql.ErrNoRows {
			return solutions.ErrSolutionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock solution: %w", err)
		}

		var voteSum int
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(value), 0) FROM votes WHERE solution_id = $1`, id,
		).Scan(&voteSum); err != nil {
			return fmt.Errorf("failed to sum solution votes: %w", err)
		}

		earned := voteSum*reputation.SolutionVoteMagnitude + bonusAwards*reputation.AcceptanceBonus
		if earned != 0 {
			if _, err := tx.ExecContext(ctx,
				`UPDATE users SET retained_reputation = retained_reputation + $2 WHERE id = $1`,
				authorID, earned); err != nil {
				return fmt.Errorf("failed to retain solution reputation: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM solutions WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete solution: %w", err)
		}
		return nil
	})
}
