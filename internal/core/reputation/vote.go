package reputation

import "time"

// TargetKind identifies what a vote is cast on
type TargetKind string

const (
	KindBug      TargetKind = "BUG"
	KindSolution TargetKind = "SOLUTION"
)

// Reputation weights
const (
	BugVoteMagnitude      = 2
	SolutionVoteMagnitude = 3
	AcceptanceBonus       = 15
)

// Magnitude is the reputation weight of one vote on a target of this kind
func (k TargetKind) Magnitude() int {
	switch k {
	case KindBug:
		return BugVoteMagnitude
	case KindSolution:
		return SolutionVoteMagnitude
	}
	return 0
}

// Valid reports whether k is a known target kind
func (k TargetKind) Valid() bool {
	return k == KindBug || k == KindSolution
}

// VoteType is the direction of a vote
type VoteType string

const (
	Upvote   VoteType = "UPVOTE"
	Downvote VoteType = "DOWNVOTE"
)

// Valid reports whether t is UPVOTE or DOWNVOTE
func (t VoteType) Valid() bool {
	return t == Upvote || t == Downvote
}

// Value is the stored sign of a vote: +1 for UPVOTE, -1 for DOWNVOTE
func (t VoteType) Value() int {
	if t == Downvote {
		return -1
	}
	return 1
}

// Vote is one voter's standing vote on one bug or solution
type Vote struct {
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"userId" db:"user_id"`
	TargetID  string     `json:"targetId"`
	Kind      TargetKind `json:"kind"`
	Type      VoteType   `json:"type" db:"type"`
	Value     int        `json:"value" db:"value"`
}

// Target is a votable item resolved inside the unit of work
type Target struct {
	ID       string
	Kind     TargetKind
	AuthorID string
	BugID    string
	BugSlug  string
}

// Candidate is a solution locked for acceptance together with its parent bug
type Candidate struct {
	SolutionID       string
	SolutionAuthorID string
	BugID            string
	BugAuthorID      string
	BugSlug          string
	IsAccepted       bool
	BonusAwards      int
}

// Tally aggregates the votes on one target
type Tally struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
	Total     int `json:"total"`
}

// Action is what a cast-vote call did to the voter's vote record
type Action string

const (
	ActionCreated  Action = "created"
	ActionRemoved  Action = "removed"
	ActionSwitched Action = "switched"
)

// CastVoteRequest is the validated input for casting a vote
type CastVoteRequest struct {
	VoteType VoteType `json:"voteType" validate:"required,oneof=UPVOTE DOWNVOTE"`
}

// CastResult reports the outcome of a committed vote
type CastResult struct {
	Vote   *Vote  `json:"vote,omitempty"`
	Action Action `json:"action"`
	Delta  int    `json:"delta"`
	Tally  Tally  `json:"tally"`
}

// Source is the persisted state reputation is derived from, per user
type Source struct {
	UserID          string
	Stored          int
	BugVoteSum      int
	SolutionVoteSum int
	BonusAwards     int

	// Retained is what votes and bonuses on since-deleted content earned
	Retained int
}

// Expected replays the events behind a user's reputation
func (s Source) Expected() int {
	return s.BugVoteSum*BugVoteMagnitude +
		s.SolutionVoteSum*SolutionVoteMagnitude +
		s.BonusAwards*AcceptanceBonus +
		s.Retained
}

// Drift is a user whose stored reputation differs from the replayed value
type Drift struct {
	UserID   string `json:"userId"`
	Stored   int    `json:"stored"`
	Expected int    `json:"expected"`
}

// ReconcileReport summarizes a reconciliation run
type ReconcileReport struct {
	Drifts   []Drift `json:"drifts"`
	Checked  int     `json:"checked"`
	Repaired bool    `json:"repaired"`
}
