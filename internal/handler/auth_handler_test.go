package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/middleware"
	"github.com/afuentes/gastolog/gastolog-backend/internal/service"
	"github.com/afuentes/gastolog/gastolog-backend/internal/testutil"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Helper to set up auth context
func setupAuthContext(c echo.Context, auth0ID string, email, name, picture string) {
	setupAuthContextWithUser(c, auth0ID, email, name, picture, uuid.Nil)
}

// Helper to set up auth context with a resolved user ID
func setupAuthContextWithUser(c echo.Context, auth0ID string, email, name, picture string, userID uuid.UUID) {
	customClaims := &middleware.CustomClaims{
		Email:   email,
		Name:    name,
		Picture: picture,
	}
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: auth0ID,
		},
		CustomClaims: customClaims,
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.Auth0IDKey, auth0ID)
	if userID != uuid.Nil {
		ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	}
	c.SetRequest(c.Request().WithContext(ctx))
}

func TestCallback_NewUser(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	authService := service.NewAuthService(userRepo)
	handler := NewAuthHandler(authService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|newuser123", "new@example.com", "New User", "https://example.com/pic.jpg")

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var user domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if user.Email != "new@example.com" {
		t.Errorf("Expected email 'new@example.com', got %s", user.Email)
	}
	if user.Name == nil || *user.Name != "New User" {
		t.Error("Expected name 'New User'")
	}
	if len(userRepo.Users) != 1 {
		t.Errorf("Expected 1 user in store, got %d", len(userRepo.Users))
	}
}

func TestCallback_ExistingUser(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	authService := service.NewAuthService(userRepo)
	handler := NewAuthHandler(authService)

	auth0ID := "auth0|existing123"
	existing := &domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   "existing@example.com",
	}
	userRepo.AddUser(existing)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, auth0ID, "existing@example.com", "", "")

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var user domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if user.ID != existing.ID {
		t.Error("Expected callback to return the existing user")
	}
	if len(userRepo.Users) != 1 {
		t.Errorf("Expected 1 user in store, got %d", len(userRepo.Users))
	}
}

func TestCallback_MissingAuth(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	authService := service.NewAuthService(userRepo)
	handler := NewAuthHandler(authService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// No auth context set
	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestMe_Success(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	authService := service.NewAuthService(userRepo)
	handler := NewAuthHandler(authService)

	auth0ID := "auth0|me123"
	userRepo.AddUser(&domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   "me@example.com",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, auth0ID, "me@example.com", "", "")

	err := handler.Me(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var user domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if user.Email != "me@example.com" {
		t.Errorf("Expected email 'me@example.com', got %s", user.Email)
	}
}

func TestMe_UserNotFound(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	authService := service.NewAuthService(userRepo)
	handler := NewAuthHandler(authService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|ghost", "ghost@example.com", "", "")

	err := handler.Me(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
