package comments

import "errors"

// maxCommentGraphemes is counted in user-perceived characters
const maxCommentGraphemes = 1000

var (
	// ErrCommentNotFound indicates the requested comment doesn't exist
	ErrCommentNotFound = errors.New("comment not found")

	// ErrContentTooLong indicates comment content exceeds 1000 graphemes
	ErrContentTooLong = errors.New("comment content exceeds 1000 graphemes")

	// ErrContentEmpty indicates comment content is empty
	ErrContentEmpty = errors.New("comment content is required")

	// ErrNotAuthorized indicates the caller is not the comment's author
	ErrNotAuthorized = errors.New("only the comment author can delete it")

	// ErrAuthorRequired indicates no caller identity was supplied
	ErrAuthorRequired = errors.New("author is required")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCommentNotFound)
}

// IsValidationError checks if an error is a content validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrContentTooLong) ||
		errors.Is(err, ErrContentEmpty)
}
