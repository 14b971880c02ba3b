package handler

import (
	"errors"
	"net/http"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/middleware"
	"github.com/afuentes/gastolog/gastolog-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Callback provisions the user after a successful Auth0 login
func (h *AuthHandler) Callback(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var email string
	var name, picture *string
	if claims := middleware.GetCustomClaims(c); claims != nil {
		email = claims.Email
		if claims.Name != "" {
			name = &claims.Name
		}
		if claims.Picture != "" {
			picture = &claims.Picture
		}
	}

	user, err := h.authService.AuthenticateUser(auth0ID, email, name, picture)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Authentication callback failed")
		return NewInternalError(c, "Authentication failed")
	}

	return c.JSON(http.StatusOK, user)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.authService.GetUserByAuth0ID(auth0ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to get user")
		return NewInternalError(c, "Failed to get user")
	}

	return c.JSON(http.StatusOK, user)
}
