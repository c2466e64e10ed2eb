package follows

import (
	"time"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/solutions"
	"Cignito/internal/core/users"
)

// Follow is a directed edge from follower to following
type Follow struct {
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	FollowerID  string    `json:"followerId" db:"follower_id"`
	FollowingID string    `json:"followingId" db:"following_id"`
}

// Stats counts a user's edges in both directions
type Stats struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}

// Profile is one entry of a follower or following list
type Profile struct {
	FollowedAt time.Time `json:"followedAt"`
	users.Author
	BugCount      int `json:"bugCount"`
	SolutionCount int `json:"solutionCount"`
}

// ActivityType tells feed entries apart
type ActivityType string

const (
	ActivityBug      ActivityType = "BUG"
	ActivitySolution ActivityType = "SOLUTION"
)

// Activity is a bug or solution posted by a followed user.
// Solution entries carry their bug with only ID, Title and Slug set.
type Activity struct {
	CreatedAt time.Time           `json:"createdAt"`
	Bug       *bugs.Bug           `json:"bug"`
	Solution  *solutions.Solution `json:"solution,omitempty"`
	Type      ActivityType        `json:"type"`
}

// DefaultFeedLimit applies when a feed request names no limit
const DefaultFeedLimit = 20

// MaxFeedLimit caps a single feed page
const MaxFeedLimit = 50
