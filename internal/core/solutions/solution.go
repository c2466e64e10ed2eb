package solutions

import (
	"time"

	"Cignito/internal/core/users"
)

// Solution is a proposed fix for a bug. At most one solution per bug is accepted.
type Solution struct {
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`
	Author      *users.Author `json:"author,omitempty"`
	ID          string        `json:"id" db:"id"`
	Content     string        `json:"content" db:"content"`
	CodeSnippet string        `json:"codeSnippet,omitempty" db:"code_snippet"`
	BugID       string        `json:"bugId" db:"bug_id"`
	AuthorID    string        `json:"authorId" db:"author_id"`
	IsAccepted  bool          `json:"isAccepted" db:"is_accepted"`
}

// CreateSolutionRequest is the validated input for proposing a fix
type CreateSolutionRequest struct {
	Content     string `json:"content" validate:"required,min=20,max=5000"`
	CodeSnippet string `json:"codeSnippet,omitempty" validate:"max=20000"`
}
