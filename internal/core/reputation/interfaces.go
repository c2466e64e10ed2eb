package reputation

import (
	"context"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/solutions"
)

// Tx is the transactional handle passed to a unit of work. Every mutation of
// one ledger operation goes through the same Tx.
type Tx interface {
	// LockTarget loads the target and its author, locking the row until commit.
	// Returns ErrTargetNotFound when missing.
	LockTarget(ctx context.Context, targetID string, kind TargetKind) (*Target, error)

	// GetVoteForUpdate returns the voter's vote on the target, locked.
	// Returns ErrVoteNotFound when the voter has none.
	GetVoteForUpdate(ctx context.Context, userID, targetID string, kind TargetKind) (*Vote, error)

	CreateVote(ctx context.Context, vote *Vote) error
	UpdateVoteType(ctx context.Context, voteID string, voteType VoteType) error
	DeleteVote(ctx context.Context, voteID string) error

	AdjustReputation(ctx context.Context, userID string, delta int) error

	// Tally counts the target's votes as seen by this transaction
	Tally(ctx context.Context, targetID string, kind TargetKind) (Tally, error)

	// LockCandidate loads a solution with its parent bug, locking both rows.
	// Returns ErrTargetNotFound when missing.
	LockCandidate(ctx context.Context, solutionID string) (*Candidate, error)

	// ClearAccepted unsets is_accepted on every solution of the bug
	ClearAccepted(ctx context.Context, bugID string) error

	// MarkAccepted sets is_accepted on the solution, counting a bonus award when
	// awardBonus is set, and returns the updated row
	MarkAccepted(ctx context.Context, solutionID string, awardBonus bool) (*solutions.Solution, error)

	SetBugStatus(ctx context.Context, bugID string, status bugs.Status) error
}

// Store is the persistence collaborator of the ledger
type Store interface {
	// InTx runs fn inside one transaction. A non-nil error from fn rolls back.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	Tally(ctx context.Context, targetID string, kind TargetKind) (Tally, error)

	// GetUserVote returns ErrVoteNotFound when the user has no vote on the target
	GetUserVote(ctx context.Context, userID, targetID string, kind TargetKind) (*Vote, error)

	// Sources returns the replay inputs for every user
	Sources(ctx context.Context) ([]Source, error)
}

// Service is the reputation ledger
type Service interface {
	VoteBug(ctx context.Context, voterID, bugID string, voteType VoteType) (*CastResult, error)
	VoteSolution(ctx context.Context, voterID, solutionID string, voteType VoteType) (*CastResult, error)
	AcceptSolution(ctx context.Context, callerID, solutionID string) (*solutions.Solution, error)
	Tally(ctx context.Context, targetID string, kind TargetKind) (Tally, error)

	// UserVote returns nil without error when the user has not voted
	UserVote(ctx context.Context, userID, targetID string, kind TargetKind) (*Vote, error)

	// Reconcile replays persisted votes and acceptances, reporting users whose
	// counter drifted, and rewrites those counters when repair is set
	Reconcile(ctx context.Context, repair bool) (*ReconcileReport, error)
}
