package driving

import (
	"context"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
)

// SetupRequest creates the initial admin user
type SetupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SetupResponse confirms initial setup
type SetupResponse struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message"`
}

// CreateUserRequest creates a new user
type CreateUserRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
}

// UserService manages user accounts
type UserService interface {
	// Setup creates the initial admin user (only works if no users exist)
	Setup(ctx context.Context, req SetupRequest) (*SetupResponse, error)

	// Create creates a new user (admin only)
	Create(ctx context.Context, req CreateUserRequest) (*domain.User, error)

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.User, error)

	// List retrieves all users
	List(ctx context.Context) ([]*domain.User, error)

	// Delete deletes a user and their sessions
	Delete(ctx context.Context, id string) error
}
