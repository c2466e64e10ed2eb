package postgres

import (
	"context"
	"testing"
	"time"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/ids"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBugRepo_SlugTaken(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "reporter")
	createTestBug(t, db, author.ID, "race-in-cache")

	err := NewBugRepository(db).Create(context.Background(), &bugs.Bug{
		ID: "second", Title: "t", Slug: "race-in-cache", Description: "d",
		Language: "go", Severity: bugs.SeverityLow, Status: bugs.StatusOpen, AuthorID: author.ID,
	})
	assert.ErrorIs(t, err, bugs.ErrSlugTaken)
}

func TestBugRepo_GetBySlugIncludesAuthorAndSolutionCount(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "reporter")
	solver := createTestUser(t, db, "solver")
	bug := createTestBug(t, db, author.ID, "deadlock-on-close")
	createTestSolution(t, db, solver.ID, bug.ID)

	got, err := NewBugRepository(db).GetBySlug(context.Background(), "deadlock-on-close")
	require.NoError(t, err)
	assert.Equal(t, bug.ID, got.ID)
	assert.Equal(t, "reporter", got.Author.Username)
	assert.Equal(t, 1, got.SolutionCount)

	_, err = NewBugRepository(db).GetBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, bugs.ErrBugNotFound)
}

func TestBugRepo_ListPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBugRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "reporter")

	for _, slug := range []string{"first", "second", "third"} {
		createTestBug(t, db, author.ID, slug)
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, repo.UpdateStatus(ctx, mustSlug(t, repo, "second"), bugs.StatusSolved))

	page, cursor, err := repo.List(ctx, bugs.ListBugsRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "third", page[0].Slug)
	assert.Equal(t, "second", page[1].Slug)
	require.NotEmpty(t, cursor)

	page, cursor, err = repo.List(ctx, bugs.ListBugsRequest{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "first", page[0].Slug)
	assert.Empty(t, cursor)

	solved, _, err := repo.List(ctx, bugs.ListBugsRequest{Limit: 10, Status: bugs.StatusSolved})
	require.NoError(t, err)
	require.Len(t, solved, 1)
	assert.Equal(t, "second", solved[0].Slug)
}

func TestBugRepo_RecordView(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBugRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "reporter")
	viewer := createTestUser(t, db, "viewer")
	bug := createTestBug(t, db, author.ID, "slow-query")

	counted, err := repo.RecordView(ctx, bug.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = repo.RecordView(ctx, bug.ID, viewer.ID)
	require.NoError(t, err)
	assert.False(t, counted)

	counted, err = repo.RecordView(ctx, bug.ID, "")
	require.NoError(t, err)
	assert.True(t, counted)

	got, err := repo.GetByID(ctx, bug.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)

	_, err = repo.RecordView(ctx, "missing", viewer.ID)
	assert.ErrorIs(t, err, bugs.ErrBugNotFound)
}

func mustSlug(t *testing.T, repo bugs.Repository, slug string) string {
	t.Helper()
	bug, err := repo.GetBySlug(context.Background(), slug)
	require.NoError(t, err)
	return bug.ID
}

func TestBugRepo_TagsAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBugRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	first := &bugs.Bug{
		ID: ids.New(), Title: "Leak", Slug: "leak", Description: "Goroutines pile up after reload.",
		Language: "go", Severity: bugs.SeverityHigh, Status: bugs.StatusOpen, AuthorID: alice.ID,
		Tags: []bugs.Tag{
			{ID: ids.New(), Name: "go", Slug: "go"},
			{ID: ids.New(), Name: "concurrency", Slug: "concurrency"},
		},
	}
	require.NoError(t, repo.Create(ctx, first))
	second := &bugs.Bug{
		ID: ids.New(), Title: "Panic", Slug: "panic", Description: "Nil map write on startup.",
		Language: "go", Severity: bugs.SeverityLow, Status: bugs.StatusOpen, AuthorID: bob.ID,
		Tags: []bugs.Tag{{ID: ids.New(), Name: "go", Slug: "go"}},
	}
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, first.Tags[0].ID, second.Tags[0].ID, "existing tag is reused by slug")

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "concurrency", got.Tags[0].Slug)
	assert.Equal(t, "go", got.Tags[1].Slug)

	tags, err := repo.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].Slug)
	assert.Equal(t, 2, tags[0].BugCount)
	assert.Equal(t, 1, tags[1].BugCount)

	first.Title = "Goroutine leak on reload"
	first.Severity = bugs.SeverityCritical
	first.Tags = []bugs.Tag{{ID: ids.New(), Name: "postgres", Slug: "postgres"}}
	require.NoError(t, repo.Update(ctx, first))

	got, err = repo.GetBySlug(ctx, "leak")
	require.NoError(t, err, "slug is kept across edits")
	assert.Equal(t, "Goroutine leak on reload", got.Title)
	assert.Equal(t, bugs.SeverityCritical, got.Severity)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "postgres", got.Tags[0].Slug)

	tagged, _, err := repo.List(ctx, bugs.ListBugsRequest{Tag: "go", Limit: 10})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, second.ID, tagged[0].ID)

	byAuthor, _, err := repo.List(ctx, bugs.ListBugsRequest{AuthorID: alice.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, first.ID, byAuthor[0].ID)

	missing := &bugs.Bug{ID: "missing", Title: "t", Description: "d", Severity: bugs.SeverityLow}
	assert.ErrorIs(t, repo.Update(ctx, missing), bugs.ErrBugNotFound)
}
