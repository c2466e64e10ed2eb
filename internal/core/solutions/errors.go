package solutions

import "errors"

var (
	// ErrSolutionNotFound is returned when a solution lookup finds no matching record
	ErrSolutionNotFound = errors.New("solution not found")

	// ErrNotAuthorized is returned when the caller is not the solution's author
	ErrNotAuthorized = errors.New("only the solution author can perform this action")

	// ErrAuthorRequired is returned when no caller identity is supplied
	ErrAuthorRequired = errors.New("author is required")
)

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSolutionNotFound)
}
