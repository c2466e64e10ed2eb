package follows

import "errors"

var (
	// ErrSelfFollow indicates a user tried to follow themselves
	ErrSelfFollow = errors.New("you cannot follow yourself")

	// ErrAlreadyFollowing indicates the edge already exists
	ErrAlreadyFollowing = errors.New("already following this user")

	// ErrNotFollowing indicates there is no edge to remove
	ErrNotFollowing = errors.New("not following this user")

	// ErrFollowerRequired indicates no caller identity was supplied
	ErrFollowerRequired = errors.New("follower is required")
)

// IsConflict checks if an error is a duplicate follow
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyFollowing)
}
