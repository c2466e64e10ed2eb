package postgres

import (
	"context"
	"testing"
	"time"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/comments"
	"Cignito/internal/core/ids"
	"Cignito/internal/core/reputation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRepo(t *testing.T) {
	f := newLedgerFixture(t, reputation.Options{})
	repo := NewStatsRepository(f.db)
	ctx := context.Background()

	_, err := f.svc.AcceptSolution(ctx, f.reporter, f.solution)
	require.NoError(t, err)
	createTestBug(t, f.db, f.reporter, "still-open")

	top, err := repo.TopUsers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, f.solver, top[0].ID)
	assert.Equal(t, reputation.AcceptanceBonus, top[0].Reputation)
	assert.Equal(t, 1, top[0].Solutions)

	times, err := repo.SolutionTimes(ctx, []string{f.solver, f.voter}, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, times[f.solver], 1)
	assert.Empty(t, times[f.voter])

	open, err := repo.CountBugs(ctx, bugs.StatusOpen)
	require.NoError(t, err)
	assert.Equal(t, 1, open)

	all, err := repo.CountBugs(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, all)

	solved, err := repo.CountSolvedSince(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, solved)

	usersCount, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, usersCount)

	hours, err := repo.AverageResponseHours(ctx, 100)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, hours, 0.0)
}

func TestCommentRepo(t *testing.T) {
	f := newLedgerFixture(t, reputation.Options{})
	repo := NewCommentRepository(f.db)
	ctx := context.Background()

	onBug := &comments.Comment{ID: ids.New(), Content: "Same here", AuthorID: f.voter, BugID: f.bug.ID}
	onSolution := &comments.Comment{ID: ids.New(), Content: "Works", AuthorID: f.reporter, SolutionID: f.solution}
	require.NoError(t, repo.Create(ctx, onBug))
	require.NoError(t, repo.Create(ctx, onSolution))

	list, err := repo.ListByBug(ctx, f.bug.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "voter", list[0].Author.Username)
	assert.Empty(t, list[0].SolutionID)

	list, err = repo.ListBySolution(ctx, f.solution)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, onBug.ID))
	_, err = repo.GetByID(ctx, onBug.ID)
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)
}
