package users

import (
	"context"
	"fmt"
	"strings"

	"Cignito/internal/core/ids"
	"Cignito/internal/validation"
)

type userService struct {
	userRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

// CreateUser validates and stores a new user profile with zero reputation
func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user := &User{
		ID:       ids.New(),
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Image:    req.Image,
		Bio:      req.Bio,
	}

	// Repository will handle duplicate constraint errors
	return s.userRepo.Create(ctx, user)
}

// GetUser retrieves a user by id
func (s *userService) GetUser(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("user id is required")
	}

	return s.userRepo.GetByID(ctx, id)
}

// GetUserByUsername retrieves a user by username
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	return s.userRepo.GetByUsername(ctx, username)
}
