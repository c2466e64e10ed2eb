package bugs

import "errors"

var (
	// ErrBugNotFound is returned when a bug lookup finds no matching record
	ErrBugNotFound = errors.New("bug not found")

	// ErrSlugTaken is returned when another bug already uses the derived slug
	ErrSlugTaken = errors.New("a bug with this title already exists")

	// ErrNotAuthorized is returned when the caller is not the bug's author
	ErrNotAuthorized = errors.New("only the bug author can perform this action")

	// ErrInvalidStatus is returned for an unknown status value
	ErrInvalidStatus = errors.New("invalid bug status")

	// ErrAuthorRequired is returned when no caller identity is supplied
	ErrAuthorRequired = errors.New("author is required")

	// ErrInvalidCursor is returned when a pagination cursor cannot be decoded
	ErrInvalidCursor = errors.New("invalid cursor")
)

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBugNotFound)
}

// IsConflict checks if an error is a slug conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrSlugTaken)
}
