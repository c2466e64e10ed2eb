package comments

import (
	"time"

	"Cignito/internal/core/users"
)

// Comment is a short remark attached to exactly one bug or one solution
type Comment struct {
	CreatedAt  time.Time     `json:"createdAt" db:"created_at"`
	Author     *users.Author `json:"author,omitempty"`
	ID         string        `json:"id" db:"id"`
	Content    string        `json:"content" db:"content"`
	AuthorID   string        `json:"authorId" db:"author_id"`
	BugID      string        `json:"bugId,omitempty" db:"bug_id"`
	SolutionID string        `json:"solutionId,omitempty" db:"solution_id"`
}

// CreateCommentRequest targets either BugID or SolutionID, never both
type CreateCommentRequest struct {
	Content    string `json:"content"`
	BugID      string `json:"bugId,omitempty" validate:"required_without=SolutionID,excluded_with=SolutionID"`
	SolutionID string `json:"solutionId,omitempty" validate:"required_without=BugID"`
}
