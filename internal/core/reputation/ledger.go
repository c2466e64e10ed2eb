package reputation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/ids"
	"Cignito/internal/core/solutions"
	"Cignito/internal/live"
)

// Options tunes ledger policy
type Options struct {
	// AcceptBonusOnce pays the acceptance bonus only the first time a
	// solution is accepted. By default every acceptance pays it.
	AcceptBonusOnce bool
}

type ledger struct {
	store       Store
	revalidator live.Revalidator
	logger      *slog.Logger
	now         func() time.Time
	opts        Options
}

// NewService creates the reputation ledger
func NewService(store Store, revalidator live.Revalidator, logger *slog.Logger, opts Options) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if revalidator == nil {
		revalidator = live.Noop{}
	}
	return &ledger{
		store:       store,
		revalidator: revalidator,
		logger:      logger,
		now:         time.Now,
		opts:        opts,
	}
}

// VoteBug casts voteType on a bug (magnitude 2)
func (l *ledger) VoteBug(ctx context.Context, voterID, bugID string, voteType VoteType) (*CastResult, error) {
	return l.castVote(ctx, voterID, bugID, KindBug, voteType)
}

// VoteSolution casts voteType on a solution (magnitude 3)
func (l *ledger) VoteSolution(ctx context.Context, voterID, solutionID string, voteType VoteType) (*CastResult, error) {
	return l.castVote(ctx, voterID, solutionID, KindSolution, voteType)
}

func (l *ledger) castVote(ctx context.Context, voterID, targetID string, kind TargetKind, voteType VoteType) (*CastResult, error) {
	if voterID == "" {
		return nil, l.fail("vote", ErrUnauthenticated)
	}
	if !voteType.Valid() {
		return nil, l.fail("vote", ErrInvalidVoteType)
	}
	if targetID == "" {
		return nil, l.fail("vote", ErrTargetNotFound)
	}

	var (
		result CastResult
		target *Target
	)

	start := time.Now()
	err := l.store.InTx(ctx, func(tx Tx) error {
		t, err := tx.LockTarget(ctx, targetID, kind)
		if err != nil {
			return err
		}
		if t.AuthorID == voterID {
			return ErrSelfVote
		}

		existing, err := tx.GetVoteForUpdate(ctx, voterID, targetID, kind)
		if errors.Is(err, ErrVoteNotFound) {
			existing, err = nil, nil
		}
		if err != nil {
			return err
		}

		action, delta := transition(existing, voteType, kind.Magnitude())

		switch action {
		case ActionCreated:
			vote := &Vote{
				ID:        ids.New(),
				UserID:    voterID,
				TargetID:  targetID,
				Kind:      kind,
				Type:      voteType,
				Value:     voteType.Value(),
				CreatedAt: l.now(),
			}
			if err := tx.CreateVote(ctx, vote); err != nil {
				return err
			}
			result.Vote = vote
		case ActionRemoved:
			if err := tx.DeleteVote(ctx, existing.ID); err != nil {
				return err
			}
		case ActionSwitched:
			if err := tx.UpdateVoteType(ctx, existing.ID, voteType); err != nil {
				return err
			}
			existing.Type = voteType
			existing.Value = voteType.Value()
			result.Vote = existing
		}

		if err := tx.AdjustReputation(ctx, t.AuthorID, delta); err != nil {
			return err
		}

		tally, err := tx.Tally(ctx, targetID, kind)
		if err != nil {
			return err
		}

		result.Action = action
		result.Delta = delta
		result.Tally = tally
		target = t
		return nil
	})
	ledgerDuration.WithLabelValues("vote").Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, l.fail("vote", err,
			"voter", voterID,
			"target", targetID,
			"kind", kind)
	}

	votesTotal.WithLabelValues(strings.ToLower(string(kind)), string(result.Action)).Inc()
	l.logger.Info("vote applied",
		"voter", voterID,
		"target", targetID,
		"kind", kind,
		"action", result.Action,
		"author", target.AuthorID,
		"delta", result.Delta)

	l.revalidator.Revalidate(ctx,
		live.BugPath(target.BugSlug),
		live.HomePath,
		live.UserPath(target.AuthorID))

	return &result, nil
}

// AcceptSolution marks a solution as the bug's adopted fix, resolves the bug
// and pays the acceptance bonus to the solution's author
func (l *ledger) AcceptSolution(ctx context.Context, callerID, solutionID string) (*solutions.Solution, error) {
	if callerID == "" {
		return nil, l.fail("accept", ErrUnauthenticated)
	}
	if solutionID == "" {
		return nil, l.fail("accept", ErrTargetNotFound)
	}

	var (
		accepted  *solutions.Solution
		candidate *Candidate
		bonus     bool
	)

	start := time.Now()
	err := l.store.InTx(ctx, func(tx Tx) error {
		c, err := tx.LockCandidate(ctx, solutionID)
		if err != nil {
			return err
		}
		if c.BugAuthorID != callerID {
			return ErrNotAuthorized
		}

		award := !l.opts.AcceptBonusOnce || c.BonusAwards == 0

		if err := tx.ClearAccepted(ctx, c.BugID); err != nil {
			return err
		}
		s, err := tx.MarkAccepted(ctx, solutionID, award)
		if err != nil {
			return err
		}
		if err := tx.SetBugStatus(ctx, c.BugID, bugs.StatusSolved); err != nil {
			return err
		}
		if award {
			if err := tx.AdjustReputation(ctx, c.SolutionAuthorID, AcceptanceBonus); err != nil {
				return err
			}
		}

		accepted = s
		candidate = c
		bonus = award
		return nil
	})
	ledgerDuration.WithLabelValues("accept").Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, l.fail("accept", err,
			"caller", callerID,
			"solution", solutionID)
	}

	acceptancesTotal.WithLabelValues(strconv.FormatBool(bonus)).Inc()
	l.logger.Info("solution accepted",
		"solution", solutionID,
		"bug", candidate.BugID,
		"author", candidate.SolutionAuthorID,
		"bonus", bonus)

	l.revalidator.Revalidate(ctx,
		live.BugPath(candidate.BugSlug),
		live.HomePath,
		live.UserPath(candidate.SolutionAuthorID))

	return accepted, nil
}

// Tally counts votes on a target
func (l *ledger) Tally(ctx context.Context, targetID string, kind TargetKind) (Tally, error) {
	if !kind.Valid() {
		return Tally{}, ErrInvalidKind
	}
	t, err := l.store.Tally(ctx, targetID, kind)
	if err != nil {
		return Tally{}, fmt.Errorf("failed to tally votes: %w", err)
	}
	return t, nil
}

func (l *ledger) UserVote(ctx context.Context, userID, targetID string, kind TargetKind) (*Vote, error) {
	if userID == "" {
		return nil, nil
	}
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	v, err := l.store.GetUserVote(ctx, userID, targetID, kind)
	if errors.Is(err, ErrVoteNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user vote: %w", err)
	}
	return v, nil
}

// Reconcile compares each stored counter with a replay of the votes and
// bonus awards behind it. Repairs apply the difference as a delta so votes
// committed during the run are preserved.
func (l *ledger) Reconcile(ctx context.Context, repair bool) (*ReconcileReport, error) {
	sources, err := l.store.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reputation sources: %w", err)
	}

	report := &ReconcileReport{Checked: len(sources), Drifts: []Drift{}}
	for _, s := range sources {
		if expected := s.Expected(); expected != s.Stored {
			report.Drifts = append(report.Drifts, Drift{
				UserID:   s.UserID,
				Stored:   s.Stored,
				Expected: expected,
			})
		}
	}

	l.logger.Info("reputation reconciled",
		"checked", report.Checked,
		"drifted", len(report.Drifts))

	if !repair || len(report.Drifts) == 0 {
		return report, nil
	}

	err = l.store.InTx(ctx, func(tx Tx) error {
		for _, d := range report.Drifts {
			if err := tx.AdjustReputation(ctx, d.UserID, d.Expected-d.Stored); err != nil {
				return fmt.Errorf("failed to repair %s: %w", d.UserID, err)
			}
		}
		return nil
	})
	if err != nil {
		l.logger.Error("reputation repair failed", "error", err)
		return report, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	report.Repaired = true
	for _, d := range report.Drifts {
		l.logger.Warn("reputation repaired",
			"user", d.UserID,
			"stored", d.Stored,
			"expected", d.Expected)
	}
	return report, nil
}

// fail records a failed operation. Domain errors pass through; anything else
// is logged with its cause and collapsed to ErrPersistence.
func (l *ledger) fail(op string, err error, attrs ...any) error {
	if isDomainError(err) {
		ledgerFailures.WithLabelValues(op, reason(err)).Inc()
		return err
	}

	ledgerFailures.WithLabelValues(op, "persistence").Inc()
	l.logger.Error("ledger transaction failed",
		append([]any{"operation", op, "error", err}, attrs...)...)
	return ErrPersistence
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrTargetNotFound):
		return "not_found"
	case errors.Is(err, ErrSelfVote):
		return "self_vote"
	case errors.Is(err, ErrNotAuthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidVoteType), errors.Is(err, ErrInvalidKind):
		return "invalid"
	}
	return "other"
}
