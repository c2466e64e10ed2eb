package solutions

import "context"

// Repository defines the data access interface for solutions
type Repository interface {
	Create(ctx context.Context, solution *Solution) error
	GetByID(ctx context.Context, id string) (*Solution, error)

	// ListByBug returns the accepted solution first, then newest first
	ListByBug(ctx context.Context, bugID string) ([]*Solution, error)

	// Delete removes the solution with its votes and comments in one transaction
	Delete(ctx context.Context, id string) error
}

// Service defines the business logic interface for solutions.
// Acceptance lives in the reputation ledger.
type Service interface {
	CreateSolution(ctx context.Context, authorID, bugID string, req CreateSolutionRequest) (*Solution, error)
	GetSolution(ctx context.Context, id string) (*Solution, error)
	ListByBug(ctx context.Context, bugID string) ([]*Solution, error)
	DeleteSolution(ctx context.Context, callerID, id string) error
}
