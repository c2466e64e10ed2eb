package users

import (
	"context"
	"testing"

	"Cignito/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *User) (*User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*User), args.Error(1)
}

func TestCreateUser_NormalizesAndAssignsID(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Username == "alice" && u.Email == "alice@example.com" && u.ID != "" && u.Reputation == 0
	})).Return(&User{ID: "u1", Username: "alice"}, nil)

	service := NewUserService(mockRepo)
	user, err := service.CreateUser(context.Background(), CreateUserRequest{
		Name:     "  Alice  ",
		Username: "  ALICE ",
		Email:    "Alice@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_ValidationFailure(t *testing.T) {
	tests := []struct {
		name  string
		req   CreateUserRequest
		field string
	}{
		{"missing name", CreateUserRequest{Username: "alice", Email: "a@b.co"}, "name"},
		{"short username", CreateUserRequest{Name: "A", Username: "al", Email: "a@b.co"}, "username"},
		{"bad username", CreateUserRequest{Name: "A", Username: "al ice!", Email: "a@b.co"}, "username"},
		{"bad email", CreateUserRequest{Name: "A", Username: "alice", Email: "nope"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			service := NewUserService(mockRepo)

			_, err := service.CreateUser(context.Background(), tt.req)
			require.Error(t, err)

			var ve *validation.Error
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateUser_PropagatesConflict(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil, ErrUsernameTaken)

	service := NewUserService(mockRepo)
	_, err := service.CreateUser(context.Background(), CreateUserRequest{
		Name: "Bob", Username: "bob", Email: "bob@example.com",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.True(t, IsConflict(err))
}

func TestGetUser_EmptyID(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	_, err := service.GetUser(context.Background(), "   ")
	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetUser_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, "missing").Return(nil, ErrUserNotFound)

	service := NewUserService(mockRepo)
	_, err := service.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
