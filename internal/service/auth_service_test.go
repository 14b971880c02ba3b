package service

import (
	"errors"
	"testing"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/testutil"
	"github.com/google/uuid"
)

func TestAuthenticateUser_CreatesOnFirstLogin(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	service := NewAuthService(userRepo)

	name := "Ana"
	user, err := service.AuthenticateUser("auth0|abc123", "ana@example.com", &name, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.Email != "ana@example.com" {
		t.Errorf("Expected email 'ana@example.com', got %s", user.Email)
	}
	if user.Name == nil || *user.Name != "Ana" {
		t.Error("Expected name 'Ana'")
	}
	if user.ID == uuid.Nil {
		t.Error("Expected user ID to be assigned")
	}
}

func TestAuthenticateUser_ReturnsExistingUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	service := NewAuthService(userRepo)

	first, err := service.AuthenticateUser("auth0|abc123", "ana@example.com", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	second, err := service.AuthenticateUser("auth0|abc123", "ana@example.com", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if first.ID != second.ID {
		t.Error("Expected repeat login to return the same user")
	}
	if len(userRepo.Users) != 1 {
		t.Errorf("Expected 1 user in store, got %d", len(userRepo.Users))
	}
}

func TestGetUserByAuth0ID_NotFound(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	service := NewAuthService(userRepo)

	_, err := service.GetUserByAuth0ID("auth0|missing")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
