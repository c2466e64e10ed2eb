package bugs

import "context"

// Repository defines the data access interface for bugs
type Repository interface {
	// Create inserts bug with its tags and sets its timestamps.
	// Returns ErrSlugTaken on a duplicate slug.
	Create(ctx context.Context, bug *Bug) error

	// Update stores the editable fields and replaces the tag set with bug.Tags
	Update(ctx context.Context, bug *Bug) error
	GetByID(ctx context.Context, id string) (*Bug, error)
	GetBySlug(ctx context.Context, slug string) (*Bug, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// Delete removes the bug with its solutions, comments, votes and views in one transaction
	Delete(ctx context.Context, id string) error

	// List returns one page and the cursor for the next page ("" when exhausted)
	List(ctx context.Context, req ListBugsRequest) ([]*Bug, string, error)

	// RecordView increments the view counter unless viewerID already viewed the bug.
	// An empty viewerID always counts. Returns whether the counter moved.
	RecordView(ctx context.Context, bugID, viewerID string) (bool, error)

	// ListTags returns every tag with its bug count, most used first
	ListTags(ctx context.Context) ([]*Tag, error)
}

// Service defines the business logic interface for bugs
type Service interface {
	CreateBug(ctx context.Context, authorID string, req CreateBugRequest) (*Bug, error)
	GetBug(ctx context.Context, id string) (*Bug, error)
	GetBugBySlug(ctx context.Context, slug string) (*Bug, error)
	UpdateBug(ctx context.Context, callerID, bugID string, req UpdateBugRequest) (*Bug, error)
	UpdateBugStatus(ctx context.Context, callerID, bugID string, status Status) (*Bug, error)
	DeleteBug(ctx context.Context, callerID, bugID string) error
	ListBugs(ctx context.Context, req ListBugsRequest) (*ListBugsResponse, error)
	RecordView(ctx context.Context, bugID, viewerID string) error
	ListTags(ctx context.Context) ([]*Tag, error)
}
