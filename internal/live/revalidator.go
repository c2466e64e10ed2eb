// Package live notifies display surfaces that cached views of a path are stale.
package live

import "context"

// Revalidator is told which paths changed after a mutation commits.
// Revalidation is best effort and never fails the mutation.
type Revalidator interface {
	Revalidate(ctx context.Context, paths ...string)
}

// Paths rendered by the web client
const (
	HomePath        = "/"
	LeaderboardPath = "/leaderboard"
)

// BugPath is the detail page of a bug
func BugPath(slug string) string {
	return "/bug/" + slug
}

// SolutionPath is the detail page of a solution under its bug
func SolutionPath(bugSlug, solutionID string) string {
	return "/bug/" + bugSlug + "/solution/" + solutionID
}

// UserPath is the profile page of a user
func UserPath(userID string) string {
	return "/user/" + userID
}

// Noop discards revalidation requests
type Noop struct{}

func (Noop) Revalidate(context.Context, ...string) {}

// Recorder collects revalidated paths in order. Intended for tests.
type Recorder struct {
	Paths []string
}

func (r *Recorder) Revalidate(_ context.Context, paths ...string) {
	r.Paths = append(r.Paths, paths...)
}
