package reputation

import "errors"

var (
	// ErrUnauthenticated indicates no caller identity was supplied
	ErrUnauthenticated = errors.New("not signed in")

	// ErrTargetNotFound indicates the bug or solution doesn't exist
	ErrTargetNotFound = errors.New("target not found")

	// ErrSelfVote indicates the voter authored the target
	ErrSelfVote = errors.New("you cannot vote on your own content")

	// ErrNotAuthorized indicates the caller is not the parent bug's author
	ErrNotAuthorized = errors.New("only the bug author can accept a solution")

	// ErrInvalidVoteType indicates the vote type is not UPVOTE or DOWNVOTE
	ErrInvalidVoteType = errors.New("invalid vote type: must be UPVOTE or DOWNVOTE")

	// ErrInvalidKind indicates an unknown target kind
	ErrInvalidKind = errors.New("invalid target kind")

	// ErrVoteNotFound indicates the voter has no vote on the target
	ErrVoteNotFound = errors.New("vote not found")

	// ErrPersistence indicates the unit of work failed and was rolled back.
	// The underlying cause is logged, not exposed.
	ErrPersistence = errors.New("persistence failure")
)

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTargetNotFound)
}

// isDomainError reports whether err is one the ledger returns unchanged
func isDomainError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrTargetNotFound),
		errors.Is(err, ErrSelfVote),
		errors.Is(err, ErrNotAuthorized),
		errors.Is(err, ErrInvalidVoteType),
		errors.Is(err, ErrInvalidKind):
		return true
	}
	return false
}
