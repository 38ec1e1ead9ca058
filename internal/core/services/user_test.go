package services

import (
	"context"
	"testing"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driving"
)

func newTestUserService() (*mocks.MockUserStore, *mocks.MockSessionStore, *userService) {
	userStore := mocks.NewMockUserStore()
	sessionStore := mocks.NewMockSessionStore()
	svc := NewUserService(userStore, sessionStore, mocks.NewMockAuthAdapter()).(*userService)
	return userStore, sessionStore, svc
}

func TestUserService_Setup(t *testing.T) {
	_, _, svc := newTestUserService()

	resp, err := svc.Setup(context.Background(), driving.SetupRequest{
		Email:    "admin@example.com",
		Password: "password123",
		Name:     "Admin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.User.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %s", resp.User.Role)
	}
	if !resp.User.Active {
		t.Error("expected user to be active")
	}

	// Second setup is rejected.
	_, err = svc.Setup(context.Background(), driving.SetupRequest{
		Email:    "other@example.com",
		Password: "password123",
		Name:     "Other",
	})
	if err != domain.ErrForbidden {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Setup_InvalidInput(t *testing.T) {
	_, _, svc := newTestUserService()

	tests := []struct {
		name string
		req  driving.SetupRequest
	}{
		{"empty email", driving.SetupRequest{Password: "p", Name: "n"}},
		{"empty password", driving.SetupRequest{Email: "a@b.c", Name: "n"}},
		{"empty name", driving.SetupRequest{Email: "a@b.c", Password: "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Setup(context.Background(), tt.req); err != domain.ErrInvalidInput {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUserService_Create(t *testing.T) {
	_, _, svc := newTestUserService()

	user, err := svc.Create(context.Background(), driving.CreateUserRequest{
		Email:    "  Member@Example.com ",
		Password: "password123",
		Name:     "  Member  ",
		Role:     domain.RoleMember,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "member@example.com" {
		t.Errorf("expected normalized email, got %s", user.Email)
	}
	if user.Name != "Member" {
		t.Errorf("expected trimmed name, got %q", user.Name)
	}
	if user.ID == "" {
		t.Error("expected generated id")
	}

	// Duplicate email is rejected.
	_, err = svc.Create(context.Background(), driving.CreateUserRequest{
		Email:    "member@example.com",
		Password: "password123",
		Name:     "Dup",
		Role:     domain.RoleMember,
	})
	if err != domain.ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	_, _, svc := newTestUserService()

	_, err := svc.Create(context.Background(), driving.CreateUserRequest{
		Email:    "user@example.com",
		Password: "password123",
		Name:     "User",
		Role:     domain.Role("superuser"),
	})
	if err != domain.ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	userStore, sessionStore, svc := newTestUserService()

	user, err := svc.Create(context.Background(), driving.CreateUserRequest{
		Email:    "user@example.com",
		Password: "password123",
		Name:     "User",
		Role:     domain.RoleMember,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Give the user a session and delete them.
	_ = sessionStore.Save(context.Background(), &domain.Session{
		ID:     "session-1",
		UserID: user.ID,
	})

	if err := svc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionStore.Count() != 0 {
		t.Errorf("expected sessions deleted with user, got %d", sessionStore.Count())
	}
	if _, err := userStore.Get(context.Background(), user.ID); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := svc.Delete(context.Background(), "nobody"); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestUserService_List(t *testing.T) {
	_, _, svc := newTestUserService()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := svc.Create(context.Background(), driving.CreateUserRequest{
			Email:    email,
			Password: "password123",
			Name:     "User",
			Role:     domain.RoleMember,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}
}
