package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/reputation"
	"Cignito/internal/core/solutions"
)

// queryer is the subset of *sql.DB and *sql.Tx the ledger queries need
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type postgresLedgerStore struct {
	db *sql.DB
}

// NewLedgerStore creates the PostgreSQL store behind the reputation ledger.
// Every unit of work runs in one transaction with the target row locked.
func NewLedgerStore(db *sql.DB) reputation.Store {
	return &postgresLedgerStore{db: db}
}

// voteColumn is the votes column referencing a target of kind
func voteColumn(kind reputation.TargetKind) (string, error) {
	switch kind {
	case reputation.KindBug:
		return "bug_id", nil
	case reputation.KindSolution:
		return "solution_id", nil
	}
	return "", reputation.ErrInvalidKind
}

// InTx runs fn inside a transaction
func (s *postgresLedgerStore) InTx(ctx context.Context, fn func(tx reputation.Tx) error) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&ledgerTx{tx: tx})
	})
}

// Tally counts votes on a target outside of any transaction
func (s *postgresLedgerStore) Tally(ctx context.Context, targetID string, kind reputation.TargetKind) (reputation.Tally, error) {
	return tallyVotes(ctx, s.db, targetID, kind)
}

// GetUserVote returns the user's vote on a target
func (s *postgresLedgerStore) GetUserVote(ctx context.Context, userID, targetID string, kind reputation.TargetKind) (*reputation.Vote, error) {
	return getVote(ctx, s.db, userID, targetID, kind, false)
}

// Sources aggregates, per user, the vote sums on their bugs and solutions, the
// acceptance bonuses paid on their solutions and what deleted content earned
func (s *postgresLedgerStore) Sources(ctx context.Context) ([]reputation.Source, error) {
	query := `
		SELECT
			u.id,
			u.reputation,
			COALESCE((
				SELECT SUM(v.value) FROM votes v
				JOIN bugs b ON b.id = v.bug_id
				WHERE b.author_id = u.id
			), 0),
			COALESCE((
				SELECT SUM(v.value) FROM votes v
				JOIN solutions so ON so.id = v.solution_id
				WHERE so.author_id = u.id
			), 0),
			COALESCE((
				SELECT SUM(so.bonus_awards) FROM solutions so
				WHERE so.author_id = u.id
			), 0),
			u.retained_reputation
		FROM users u
		ORDER BY u.id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reputation sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []reputation.Source
	for rows.Next() {
		var src reputation.Source
		if err := rows.Scan(&src.UserID, &src.Stored, &src.BugVoteSum,
			&src.SolutionVoteSum, &src.BonusAwards, &src.Retained); err != nil {
			return nil, fmt.Errorf("failed to scan reputation source: %w", err)
		}
		result = append(result, src)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reputation sources: %w", err)
	}
	return result, nil
}

func tallyVotes(ctx context.Context, q queryer, targetID string, kind reputation.TargetKind) (reputation.Tally, error) {
	col, err := voteColumn(kind)
	if err != nil {
		return reputation.Tally{}, err
	}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE value = 1),
			COUNT(*) FILTER (WHERE value = -1)
		FROM votes
		WHERE ` + col + ` = $1`

	var t reputation.Tally
	if err := q.QueryRowContext(ctx, query, targetID).Scan(&t.Upvotes, &t.Downvotes); err != nil {
		return reputation.Tally{}, fmt.Errorf("failed to tally votes: %w", err)
	}
	t.Total = t.Upvotes - t.Downvotes
	return t, nil
}

func getVote(ctx context.Context, q queryer, userID, targetID string, kind reputation.TargetKind, lock bool) (*reputation.Vote, error) {
	col, err := voteColumn(kind)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, type, value, created_at
		FROM votes
		WHERE user_id = $1 AND ` + col + ` = $2`
	if lock {
		query += ` FOR UPDATE`
	}

	vote := &reputation.Vote{TargetID: targetID, Kind: kind}
	err = q.QueryRowContext(ctx, query, userID, targetID).Scan(
		&vote.ID, &vote.UserID, &vote.Type, &vote.Value, &vote.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, reputation.ErrVoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return vote, nil
}

// ledgerTx implements reputation.Tx on a single *sql.Tx
type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) LockTarget(ctx context.Context, targetID string, kind reputation.TargetKind) (*reputation.Target, error) {
	target := &reputation.Target{ID: targetID, Kind: kind}

	var query string
	switch kind {
	case reputation.KindBug:
		query = `SELECT author_id, id, slug FROM bugs WHERE id = $1 FOR UPDATE`
	case reputation.KindSolution:
		query = `
			SELECT s.author_id, b.id, b.slug
			FROM solutions s
			JOIN bugs b ON b.id = s.bug_id
			WHERE s.id = $1
			FOR UPDATE OF s`
	default:
		return nil, reputation.ErrInvalidKind
	}

	err := t.tx.QueryRowContext(ctx, query, targetID).Scan(&target.AuthorID, &target.BugID, &target.BugSlug)
	if err == sql.ErrNoRows {
		return nil, reputation.ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock vote target: %w", err)
	}
	return target, nil
}

func (t *ledgerTx) GetVoteForUpdate(ctx context.Context, userID, targetID string, kind reputation.TargetKind) (*reputation.Vote, error) {
	return getVote(ctx, t.tx, userID, targetID, kind, true)
}

func (t *ledgerTx) CreateVote(ctx context.Context, vote *reputation.Vote) error {
	col, err := voteColumn(vote.Kind)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO votes (id, user_id, ` + col + `, type, value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := t.tx.ExecContext(ctx, query,
		vote.ID, vote.UserID, vote.TargetID, vote.Type, vote.Value, vote.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

func (t *ledgerTx) UpdateVoteType(ctx context.Context, voteID string, voteType reputation.VoteType) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE votes SET type = $2, value = $3 WHERE id = $1`,
		voteID, voteType, voteType.Value())
	if err != nil {
		return fmt.Errorf("failed to update vote: %w", err)
	}
	return requireRow(result, reputation.ErrVoteNotFound)
}

func (t *ledgerTx) DeleteVote(ctx context.Context, voteID string) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM votes WHERE id = $1`, voteID)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	return requireRow(result, reputation.ErrVoteNotFound)
}

// AdjustReputation applies delta atomically. Zero is a no-op.
func (t *ledgerTx) AdjustReputation(ctx context.Context, userID string, delta int) error {
	if delta == 0 {
		return nil
	}
	result, err := t.tx.ExecContext(ctx,
		`UPDATE users SET reputation = reputation + $2, updated_at = NOW() WHERE id = $1`,
		userID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust reputation: %w", err)
	}
	return requireRow(result, fmt.Errorf("reputation owner %s missing", userID))
}

func (t *ledgerTx) Tally(ctx context.Context, targetID string, kind reputation.TargetKind) (reputation.Tally, error) {
	return tallyVotes(ctx, t.tx, targetID, kind)
}

// LockCandidate locks the solution and its bug. Locking the bug row
// serializes concurrent acceptances on the same bug.
func (t *ledgerTx) LockCandidate(ctx context.Context, solutionID string) (*reputation.Candidate, error) {
	query := `
		SELECT s.id, s.author_id, s.is_accepted, s.bonus_awards,
		       b.id, b.author_id, b.slug
		FROM solutions s
		JOIN bugs b ON b.id = s.bug_id
		WHERE s.id = $1
		FOR UPDATE OF s, b`

	c := &reputation.Candidate{}
	err := t.tx.QueryRowContext(ctx, query, solutionID).Scan(
		&c.SolutionID, &c.SolutionAuthorID, &c.IsAccepted, &c.BonusAwards,
		&c.BugID, &c.BugAuthorID, &c.BugSlug)
	if err == sql.ErrNoRows {
		return nil, reputation.ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock solution: %w", err)
	}
	return c, nil
}

func (t *ledgerTx) ClearAccepted(ctx context.Context, bugID string) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE solutions SET is_accepted = FALSE, updated_at = NOW() WHERE bug_id = $1 AND is_accepted`,
		bugID); err != nil {
		return fmt.Errorf("failed to clear accepted solution: %w", err)
	}
	return nil
}

func (t *ledgerTx) MarkAccepted(ctx context.Context, solutionID string, awardBonus bool) (*solutions.Solution, error) {
	query := `
		UPDATE solutions
		SET is_accepted = TRUE,
		    bonus_awards = bonus_awards + CASE WHEN $2 THEN 1 ELSE 0 END,
		    updated_at = NOW()
		WHERE id = $1`

	result, err := t.tx.ExecContext(ctx, query, solutionID, awardBonus)
	if err != nil {
		return nil, fmt.Errorf("failed to mark solution accepted: %w", err)
	}
	if err := requireRow(result, reputation.ErrTargetNotFound); err != nil {
		return nil, err
	}

	solution, err := scanSolution(t.tx.QueryRowContext(ctx, solutionSelect+` WHERE s.id = $1`, solutionID))
	if err != nil {
		return nil, fmt.Errorf("failed to reload accepted solution: %w", err)
	}
	return solution, nil
}

func (t *ledgerTx) SetBugStatus(ctx context.Context, bugID string, status bugs.Status) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE bugs SET status = $2, updated_at = NOW() WHERE id = $1`, bugID, status)
	if err != nil {
		return fmt.Errorf("failed to set bug status: %w", err)
	}
	return requireRow(result, reputation.ErrTargetNotFound)
}
