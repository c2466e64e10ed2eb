package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/ids"
	"Cignito/internal/core/solutions"
	"Cignito/internal/core/users"
	"Cignito/internal/db/migrations"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// every table. Tests are skipped when no database is configured.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(db), "Failed to run migrations")

	_, err = db.Exec(`TRUNCATE users, bugs, bug_views, bug_tags, tags, solutions, votes, comments, follows CASCADE`)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string) *users.User {
	t.Helper()
	user, err := NewUserRepository(db).Create(context.Background(), &users.User{
		ID:       ids.New(),
		Name:     username,
		Username: username,
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return user
}

func createTestBug(t *testing.T, db *sql.DB, authorID, slug string) *bugs.Bug {
	t.Helper()
	bug := &bugs.Bug{
		ID:          ids.New(),
		Title:       "Bug " + slug,
		Slug:        slug,
		Description: "Reproduces every time the handler is called twice in a row.",
		Language:    "go",
		Severity:    bugs.SeverityMedium,
		Status:      bugs.StatusOpen,
		AuthorID:    authorID,
	}
	require.NoError(t, NewBugRepository(db).Create(context.Background(), bug))
	return bug
}

func createTestSolution(t *testing.T, db *sql.DB, authorID, bugID string) *solutions.Solution {
	t.Helper()
	solution := &solutions.Solution{
		ID:       ids.New(),
		Content:  "Guard the handler with a sync.Once before registering.",
		BugID:    bugID,
		AuthorID: authorID,
	}
	require.NoError(t, NewSolutionRepository(db).Create(context.Background(), solution))
	return solution
}

func reputationOf(t *testing.T, db *sql.DB, userID string) int {
	t.Helper()
	user, err := NewUserRepository(db).GetByID(context.Background(), userID)
	require.NoError(t, err)
	return user.Reputation
}

func retainedOf(t *testing.T, db *sql.DB, userID string) int {
	t.Helper()
	var retained int
	require.NoError(t, db.QueryRow(`SELECT retained_reputation FROM users WHERE id = $1`, userID).Scan(&retained))
	return retained
}
