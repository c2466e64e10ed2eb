// Package cache provides the TTL buffers used on read paths (leaderboard,
// platform stats). Values are JSON encoded so every backend stores the same
// representation.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Cache stores JSON-encodable values with a per-entry expiry.
type Cache interface {
	// Get decodes the value stored at key into dst.
	// Returns false without error on a miss or an expired entry.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)

	// Set stores value at key for ttl. A non-positive ttl uses the backend default.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// ErrUnknownBackend is returned by New for an unsupported backend name
var ErrUnknownBackend = errors.New("unknown cache backend")

// Options selects and configures a backend
type Options struct {
	Backend    string
	RedisAddr  string
	DefaultTTL time.Duration
	MaxEntries int
}

// New builds the backend named in opts ("memory" or "redis").
func New(opts Options) (Cache, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemory(opts.MaxEntries, opts.DefaultTTL), nil
	case "redis":
		return NewRedis(opts.RedisAddr, opts.DefaultTTL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
