package routes

import (
	"Cignito/internal/api/middleware"

	"github.com/go-chi/chi/v5"
)

// Guards bundles the middleware applied to every API route.
// Mutations require a caller and are rate limited per caller.
type Guards struct {
	Auth    *middleware.Authenticator
	Limiter *middleware.RateLimiter
}

// Mutation returns a router that requires authentication and rate limits
func (g Guards) Mutation(r chi.Router) chi.Router {
	if g.Limiter == nil {
		return r.With(g.Auth.RequireAuth)
	}
	return r.With(g.Auth.RequireAuth, g.Limiter.Middleware)
}

// Read returns a router that resolves the caller when one is present
func (g Guards) Read(r chi.Router) chi.Router {
	return r.With(g.Auth.OptionalAuth)
}

// Limited returns a router that rate limits without requiring a caller,
// for writes that are open to anonymous clients
func (g Guards) Limited(r chi.Router) chi.Router {
	if g.Limiter == nil {
		return g.Read(r)
	}
	return r.With(g.Auth.OptionalAuth, g.Limiter.Middleware)
}
