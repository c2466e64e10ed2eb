package postgres

import (
	"context"
	"testing"
	"time"

	"Cignito/internal/core/follows"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Create(ctx, &follows.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))
	assert.ErrorIs(t, repo.Create(ctx, &follows.Follow{FollowerID: alice.ID, FollowingID: bob.ID}),
		follows.ErrAlreadyFollowing)

	ok, err := repo.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	stats, err := repo.Stats(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, follows.Stats{Followers: 1, Following: 0}, stats)

	require.NoError(t, repo.Delete(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, repo.Delete(ctx, alice.ID, bob.ID), follows.ErrNotFollowing)
}

func TestFollowRepo_Lists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	require.NoError(t, repo.Create(ctx, &follows.Follow{FollowerID: alice.ID, FollowingID: carol.ID}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.Create(ctx, &follows.Follow{FollowerID: bob.ID, FollowingID: carol.ID}))
	require.NoError(t, repo.Create(ctx, &follows.Follow{FollowerID: carol.ID, FollowingID: alice.ID}))
	bug := createTestBug(t, db, alice.ID, "alice-bug")
	createTestSolution(t, db, alice.ID, bug.ID)

	followers, err := repo.Followers(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, bob.ID, followers[0].ID, "most recent follower first")
	assert.Equal(t, alice.ID, followers[1].ID)
	assert.Equal(t, "alice", followers[1].Username)
	assert.Equal(t, 1, followers[1].BugCount)
	assert.Equal(t, 1, followers[1].SolutionCount)
	assert.False(t, followers[1].FollowedAt.IsZero())

	following, err := repo.Following(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, alice.ID, following[0].ID)

	none, err := repo.Following(ctx, bob.ID+"-missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFollowRepo_Feed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	require.NoError(t, repo.Create(ctx, &follows.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))

	bobBug := createTestBug(t, db, bob.ID, "bob-bug")
	carolBug := createTestBug(t, db, carol.ID, "carol-bug")
	createTestSolution(t, db, carol.ID, bobBug.ID)
	time.Sleep(5 * time.Millisecond)
	bobSolution := createTestSolution(t, db, bob.ID, carolBug.ID)

	feed, err := repo.Feed(ctx, alice.ID, 20)
	require.NoError(t, err)
	require.Len(t, feed, 2, "only activity by followed users")

	assert.Equal(t, follows.ActivitySolution, feed[0].Type)
	assert.Equal(t, bobSolution.ID, feed[0].Solution.ID)
	assert.Equal(t, "bob", feed[0].Solution.Author.Username)
	assert.Equal(t, carolBug.ID, feed[0].Bug.ID)
	assert.Equal(t, "carol-bug", feed[0].Bug.Slug)
	assert.Equal(t, carolBug.Title, feed[0].Bug.Title)

	assert.Equal(t, follows.ActivityBug, feed[1].Type)
	assert.Equal(t, bobBug.ID, feed[1].Bug.ID)
	assert.Nil(t, feed[1].Solution)
	assert.NotNil(t, feed[1].Bug.Tags)

	page, err := repo.Feed(ctx, alice.ID, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, follows.ActivitySolution, page[0].Type)

	empty, err := repo.Feed(ctx, carol.ID, 20)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
