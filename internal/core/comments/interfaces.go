package comments

import "context"

// Repository defines the data access interface for comments
type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	Delete(ctx context.Context, id string) error

	// ListByBug and ListBySolution return oldest first
	ListByBug(ctx context.Context, bugID string) ([]*Comment, error)
	ListBySolution(ctx context.Context, solutionID string) ([]*Comment, error)
}

// Service defines the business logic interface for comments
type Service interface {
	CreateComment(ctx context.Context, authorID string, req CreateCommentRequest) (*Comment, error)
	DeleteComment(ctx context.Context, callerID, id string) error
	ListForBug(ctx context.Context, bugID string) ([]*Comment, error)
	ListForSolution(ctx context.Context, solutionID string) ([]*Comment, error)
}
