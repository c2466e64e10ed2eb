package bugs

import (
	"time"

	"Cignito/internal/core/users"
)

// Status is the lifecycle state of a bug
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSolved     Status = "SOLVED"
	StatusClosed     Status = "CLOSED"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusSolved, StatusClosed:
		return true
	}
	return false
}

// Severity is the author's assessment of a bug's impact
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Bug is a reported coding problem
type Bug struct {
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
	Author        *users.Author `json:"author,omitempty"`
	ID            string        `json:"id" db:"id"`
	Title         string        `json:"title" db:"title"`
	Slug          string        `json:"slug" db:"slug"`
	Description   string        `json:"description" db:"description"`
	CodeSnippet   string        `json:"codeSnippet,omitempty" db:"code_snippet"`
	Language      string        `json:"language" db:"language"`
	Framework     string        `json:"framework,omitempty" db:"framework"`
	Severity      Severity      `json:"severity" db:"severity"`
	Status        Status        `json:"status" db:"status"`
	AuthorID      string        `json:"authorId" db:"author_id"`
	Views         int           `json:"views" db:"views"`
	SolutionCount int           `json:"solutionCount"`
	Tags          []Tag         `json:"tags"`
}

// Tag groups bugs by topic. Slugs are unique.
type Tag struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Slug     string `json:"slug" db:"slug"`
	BugCount int    `json:"bugCount,omitempty"`
}

// CreateBugRequest is the validated input for reporting a bug
type CreateBugRequest struct {
	Title       string   `json:"title" validate:"required,min=10,max=100"`
	Description string   `json:"description" validate:"required,min=50,max=5000"`
	CodeSnippet string   `json:"codeSnippet,omitempty" validate:"max=20000"`
	Language    string   `json:"language" validate:"required,min=2,max=50"`
	Framework   string   `json:"framework,omitempty" validate:"max=50"`
	Severity    Severity `json:"severity,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Tags        []string `json:"tags,omitempty" validate:"max=5,dive,required,max=30"`
}

// UpdateBugRequest replaces the editable fields of a bug. The slug never
// changes. A nil Tags keeps the current tags; an empty list clears them.
type UpdateBugRequest struct {
	Title       string   `json:"title" validate:"required,min=10,max=100"`
	Description string   `json:"description" validate:"required,min=50,max=5000"`
	CodeSnippet string   `json:"codeSnippet,omitempty" validate:"max=20000"`
	Language    string   `json:"language" validate:"required,min=2,max=50"`
	Framework   string   `json:"framework,omitempty" validate:"max=50"`
	Severity    Severity `json:"severity,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Tags        []string `json:"tags" validate:"max=5,dive,required,max=30"`
}

// ListBugsRequest filters the bug listing. Results are newest first.
type ListBugsRequest struct {
	Status   Status `json:"status,omitempty" validate:"omitempty,oneof=OPEN IN_PROGRESS SOLVED CLOSED"`
	Language string `json:"language,omitempty" validate:"max=50"`
	AuthorID string `json:"authorId,omitempty"`
	Tag      string `json:"tag,omitempty" validate:"max=30"`
	Cursor   string `json:"cursor,omitempty"`
	Limit    int    `json:"limit,omitempty" validate:"min=0,max=100"`
}

// ListBugsResponse is one page of the bug listing
type ListBugsResponse struct {
	Bugs   []*Bug `json:"bugs"`
	Cursor string `json:"cursor,omitempty"`
}
