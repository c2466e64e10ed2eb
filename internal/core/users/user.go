package users

import (
	"time"
)

// User is a registered developer. Reputation is mutated only by the
// reputation ledger (votes received and accepted solutions).
type User struct {
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Username   string    `json:"username" db:"username"`
	Email      string    `json:"email,omitempty" db:"email"`
	Image      string    `json:"image,omitempty" db:"image"`
	Bio        string    `json:"bio,omitempty" db:"bio"`
	Reputation int       `json:"reputation" db:"reputation"`
}

// Author is the public subset of a User embedded in bugs, solutions and comments
type Author struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Image      string `json:"image,omitempty"`
	Reputation int    `json:"reputation"`
}

// CreateUserRequest represents the input for creating a new user.
// Identity verification happens upstream; this only records the profile.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Image    string `json:"image,omitempty" validate:"omitempty,url"`
	Bio      string `json:"bio,omitempty" validate:"max=500"`
}
