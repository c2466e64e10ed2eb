package reputation

import (
	"context"
	"math/rand"
	"testing"

	"Cignito/internal/core/bugs"
	"Cignito/internal/live"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture: bug b1 by u1 with solutions s1, s2 by u2 and s3 by u3
func newFixture(t *testing.T, opts Options) (*memStore, *live.Recorder, Service) {
	t.Helper()

	store := newMemStore()
	for _, u := range []string{"u1", "u2", "u3", "u4"} {
		store.addUser(u)
	}
	store.addBug("b1", "u1", "nil-map-panic")
	store.addSolution("s1", "b1", "u2")
	store.addSolution("s2", "b1", "u2")
	store.addSolution("s3", "b1", "u3")

	rec := &live.Recorder{}
	return store, rec, NewService(store, rec, nil, opts)
}

func (m *memStore) bugStatus(id string) bugs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.bugs[id].status
}

func TestTransition(t *testing.T) {
	up := &Vote{Type: Upvote, Value: 1}
	down := &Vote{Type: Downvote, Value: -1}

	tests := []struct {
		name      string
		existing  *Vote
		requested VoteType
		magnitude int
		action    Action
		delta     int
	}{
		{"first upvote on bug", nil, Upvote, 2, ActionCreated, 2},
		{"first downvote on solution", nil, Downvote, 3, ActionCreated, -3},
		{"repeat upvote toggles off", up, Upvote, 2, ActionRemoved, -2},
		{"repeat downvote toggles off", down, Downvote, 3, ActionRemoved, 3},
		{"switch up to down", up, Downvote, 2, ActionSwitched, -4},
		{"switch down to up", down, Upvote, 3, ActionSwitched, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, delta := transition(tt.existing, tt.requested, tt.magnitude)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.delta, delta)
		})
	}
}

func TestCastVote_IdempotentToggle(t *testing.T) {
	ctx := context.Background()

	for _, voteType := range []VoteType{Upvote, Downvote} {
		t.Run("bug "+string(voteType), func(t *testing.T) {
			store, _, svc := newFixture(t, Options{})

			first, err := svc.VoteBug(ctx, "u3", "b1", voteType)
			require.NoError(t, err)
			assert.Equal(t, ActionCreated, first.Action)
			assert.Equal(t, 1, store.voteCount("u3", "b1"))

			second, err := svc.VoteBug(ctx, "u3", "b1", voteType)
			require.NoError(t, err)
			assert.Equal(t, ActionRemoved, second.Action)
			assert.Nil(t, second.Vote)

			assert.Equal(t, 0, store.rep("u1"))
			assert.Equal(t, 0, store.voteCount("u3", "b1"))
			assert.Equal(t, Tally{}, second.Tally)
		})

		t.Run("solution "+string(voteType), func(t *testing.T) {
			store, _, svc := newFixture(t, Options{})

			_, err := svc.VoteSolution(ctx, "u3", "s1", voteType)
			require.NoError(t, err)
			_, err = svc.VoteSolution(ctx, "u3", "s1", voteType)
			require.NoError(t, err)

			assert.Equal(t, 0, store.rep("u2"))
			assert.Equal(t, 0, store.voteCount("u3", "s1"))
		})
	}
}

func TestCastVote_SwitchSwing(t *testing.T) {
	ctx := context.Background()

	t.Run("bug swings by 4", func(t *testing.T) {
		store, _, svc := newFixture(t, Options{})

		_, err := svc.VoteBug(ctx, "u2", "b1", Upvote)
		require.NoError(t, err)
		assert.Equal(t, 2, store.rep("u1"))

		res, err := svc.VoteBug(ctx, "u2", "b1", Downvote)
		require.NoError(t, err)
		assert.Equal(t, ActionSwitched, res.Action)
		assert.Equal(t, -4, res.Delta)
		assert.Equal(t, -2, store.rep("u1"))
		assert.Equal(t, Tally{Upvotes: 0, Downvotes: 1, Total: -1}, res.Tally)
	})

	t.Run("solution swings by 6", func(t *testing.T) {
		store, _, svc := newFixture(t, Options{})

		_, err := svc.VoteSolution(ctx, "u4", "s3", Upvote)
		require.NoError(t, err)
		res, err := svc.VoteSolution(ctx, "u4", "s3", Downvote)
		require.NoError(t, err)

		assert.Equal(t, -6, res.Delta)
		assert.Equal(t, -3, store.rep("u3"))
		assert.Equal(t, 1, store.voteCount("u4", "s3"))
	})
}

func TestCastVote_SelfVoteRejected(t *testing.T) {
	ctx := context.Background()
	store, rec, svc := newFixture(t, Options{})

	for _, vt := range []VoteType{Upvote, Downvote} {
		_, err := svc.VoteBug(ctx, "u1", "b1", vt)
		assert.ErrorIs(t, err, ErrSelfVote)

		_, err = svc.VoteSolution(ctx, "u2", "s1", vt)
		assert.ErrorIs(t, err, ErrSelfVote)
	}

	assert.Equal(t, 0, store.rep("u1"))
	assert.Equal(t, 0, store.rep("u2"))
	assert.Equal(t, 0, store.voteCount("u1", "b1"))
	assert.Equal(t, 0, store.voteCount("u2", "s1"))
	assert.Empty(t, rec.Paths)
}

func TestCastVote_AtMostOneVotePerVoter(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newFixture(t, Options{})
	rng := rand.New(rand.NewSource(7))

	expected := 0
	var current *VoteType
	for i := 0; i < 200; i++ {
		vt := Upvote
		if rng.Intn(2) == 0 {
			vt = Downvote
		}

		_, err := svc.VoteSolution(ctx, "u4", "s1", vt)
		require.NoError(t, err)

		switch {
		case current == nil:
			expected += vt.Value() * SolutionVoteMagnitude
			v := vt
			current = &v
		case *current == vt:
			expected -= vt.Value() * SolutionVoteMagnitude
			current = nil
		default:
			expected += (vt.Value() - current.Value()) * SolutionVoteMagnitude
			v := vt
			current = &v
		}

		require.LessOrEqual(t, store.voteCount("u4", "s1"), 1)
	}

	assert.Equal(t, expected, store.rep("u2"))
}

func TestCastVote_Errors(t *testing.T) {
	ctx := context.Background()
	store, rec, svc := newFixture(t, Options{})

	_, err := svc.VoteBug(ctx, "", "b1", Upvote)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.VoteBug(ctx, "u2", "missing", Upvote)
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = svc.VoteSolution(ctx, "u2", "missing", Upvote)
	assert.True(t, IsNotFound(err))

	_, err = svc.VoteBug(ctx, "u2", "b1", "SIDEWAYS")
	assert.ErrorIs(t, err, ErrInvalidVoteType)

	assert.Equal(t, 0, store.rep("u1"))
	assert.Empty(t, rec.Paths)
}

func TestCastVote_RollsBackOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	store, rec, svc := newFixture(t, Options{})
	store.failOn = "AdjustReputation"

	_, err := svc.VoteBug(ctx, "u2", "b1", Upvote)
	require.ErrorIs(t, err, ErrPersistence)
	assert.NotContains(t, err.Error(), "injected")

	assert.Equal(t, 0, store.voteCount("u2", "b1"))
	assert.Equal(t, 0, store.rep("u1"))
	assert.Empty(t, rec.Paths)
}

func TestCastVote_Revalidates(t *testing.T) {
	_, rec, svc := newFixture(t, Options{})

	_, err := svc.VoteSolution(context.Background(), "u4", "s3", Upvote)
	require.NoError(t, err)
	assert.Equal(t, []string{"/bug/nil-map-panic", "/", "/user/u3"}, rec.Paths)
}

func TestAcceptSolution_AtMostOneAccepted(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newFixture(t, Options{})

	for _, id := range []string{"s1", "s3", "s2", "s3"} {
		sol, err := svc.AcceptSolution(ctx, "u1", id)
		require.NoError(t, err)
		assert.True(t, sol.IsAccepted)

		assert.Equal(t, []string{id}, store.acceptedFor("b1"))
		assert.Equal(t, bugs.StatusSolved, store.bugStatus("b1"))
	}

	// observed policy: every acceptance pays the bonus
	assert.Equal(t, 2*AcceptanceBonus, store.rep("u2"))
	assert.Equal(t, 2*AcceptanceBonus, store.rep("u3"))
}

func TestAcceptSolution_BonusOnce(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newFixture(t, Options{AcceptBonusOnce: true})

	for i := 0; i < 3; i++ {
		_, err := svc.AcceptSolution(ctx, "u1", "s3")
		require.NoError(t, err)
	}
	_, err := svc.AcceptSolution(ctx, "u1", "s1")
	require.NoError(t, err)
	_, err = svc.AcceptSolution(ctx, "u1", "s3")
	require.NoError(t, err)

	assert.Equal(t, AcceptanceBonus, store.rep("u3"))
	assert.Equal(t, AcceptanceBonus, store.rep("u2"))
	assert.Equal(t, []string{"s3"}, store.acceptedFor("b1"))
}

func TestAcceptSolution_Authorization(t *testing.T) {
	ctx := context.Background()
	store, rec, svc := newFixture(t, Options{})

	_, err := svc.AcceptSolution(ctx, "u1", "s1")
	require.NoError(t, err)
	rec.Paths = nil

	// the solution's own author and an unrelated user are both rejected
	for _, caller := range []string{"u3", "u4"} {
		_, err := svc.AcceptSolution(ctx, caller, "s3")
		assert.ErrorIs(t, err, ErrNotAuthorized)
	}

	assert.Equal(t, []string{"s1"}, store.acceptedFor("b1"))
	assert.Equal(t, AcceptanceBonus, store.rep("u2"))
	assert.Equal(t, 0, store.rep("u3"))
	assert.Empty(t, rec.Paths)

	_, err = svc.AcceptSolution(ctx, "", "s1")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.AcceptSolution(ctx, "u1", "nope")
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestAcceptSolution_RollsBackOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newFixture(t, Options{})

	_, err := svc.AcceptSolution(ctx, "u1", "s1")
	require.NoError(t, err)

	store.failOn = "SetBugStatus"
	_, err = svc.AcceptSolution(ctx, "u1", "s3")
	require.ErrorIs(t, err, ErrPersistence)

	assert.Equal(t, []string{"s1"}, store.acceptedFor("b1"))
	assert.Equal(t, 0, store.rep("u3"))
}

func TestScenario(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newFixture(t, Options{})
	// B=b1 by U1, S=s1 by U2, voter U3

	res, err := svc.VoteSolution(ctx, "u3", "s1", Upvote)
	require.NoError(t, err)
	assert.Equal(t, 3, store.rep("u2"))
	assert.Equal(t, Tally{Upvotes: 1, Downvotes: 0, Total: 1}, res.Tally)

	res, err = svc.VoteSolution(ctx, "u3", "s1", Downvote)
	require.NoError(t, err)
	assert.Equal(t, -3, store.rep("u2"))
	assert.Equal(t, Tally{Upvotes: 0, Downvotes: 1, Total: -1}, res.Tally)

	tally, err := svc.Tally(ctx, "s1", KindSolution)
	require.NoError(t, err)
	assert.Equal(t, res.Tally, tally)

	sol, err := svc.AcceptSolution(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.True(t, sol.IsAccepted)
	assert.Equal(t, bugs.StatusSolved, store.bugStatus("b1"))
	assert.Equal(t, 12, store.rep("u2"))
}

func TestUserVote(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newFixture(t, Options{})

	v, err := svc.UserVote(ctx, "u3", "b1", KindBug)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = svc.VoteBug(ctx, "u3", "b1", Downvote)
	require.NoError(t, err)

	v, err = svc.UserVote(ctx, "u3", "b1", KindBug)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, Downvote, v.Type)
	assert.Equal(t, -1, v.Value)

	v, err = svc.UserVote(ctx, "", "b1", KindBug)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = svc.UserVote(ctx, "u3", "b1", "COMMENT")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newFixture(t, Options{})

	_, err := svc.VoteBug(ctx, "u2", "b1", Upvote)
	require.NoError(t, err)
	_, err = svc.VoteSolution(ctx, "u4", "s3", Downvote)
	require.NoError(t, err)
	_, err = svc.AcceptSolution(ctx, "u1", "s1")
	require.NoError(t, err)
	_, err = svc.AcceptSolution(ctx, "u1", "s1")
	require.NoError(t, err)

	report, err := svc.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Checked)
	assert.Empty(t, report.Drifts)

	store.mu.Lock()
	store.state.reputation["u3"] = 100
	store.mu.Unlock()

	report, err = svc.Reconcile(ctx, false)
	require.NoError(t, err)
	require.Len(t, report.Drifts, 1)
	assert.Equal(t, Drift{UserID: "u3", Stored: 100, Expected: -3}, report.Drifts[0])
	assert.False(t, report.Repaired)
	assert.Equal(t, 100, store.rep("u3"))

	report, err = svc.Reconcile(ctx, true)
	require.NoError(t, err)
	assert.True(t, report.Repaired)
	assert.Equal(t, -3, store.rep("u3"))

	report, err = svc.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, report.Drifts)
}

func TestSourceExpected(t *testing.T) {
	s := Source{BugVoteSum: 3, SolutionVoteSum: -2, BonusAwards: 2}
	assert.Equal(t, 3*2-2*3+2*15, s.Expected())

	s.Retained = 18
	assert.Equal(t, 3*2-2*3+2*15+18, s.Expected())
}
