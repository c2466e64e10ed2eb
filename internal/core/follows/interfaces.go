package follows

import "context"

// Repository defines the data access interface for follows
type Repository interface {
	// Create returns ErrAlreadyFollowing when the edge exists
	Create(ctx context.Context, follow *Follow) error

	// Delete returns ErrNotFollowing when there is no edge
	Delete(ctx context.Context, followerID, followingID string) error

	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	Stats(ctx context.Context, userID string) (Stats, error)

	// Followers and Following list profiles, most recent edge first
	Followers(ctx context.Context, userID string) ([]*Profile, error)
	Following(ctx context.Context, userID string) ([]*Profile, error)

	// Feed merges bugs and solutions posted by users that userID follows,
	// newest first
	Feed(ctx context.Context, userID string, limit int) ([]*Activity, error)
}

// Service defines the business logic interface for follows
type Service interface {
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	Stats(ctx context.Context, userID string) (Stats, error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]*Profile, error)
	Following(ctx context.Context, userID string) ([]*Profile, error)
	Feed(ctx context.Context, userID string, limit int) ([]*Activity, error)
}
