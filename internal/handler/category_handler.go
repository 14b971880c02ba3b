package handler

import (
	"errors"
	"net/http"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/middleware"
	"github.com/afuentes/gastolog/gastolog-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// NameRequest is the request body for entities that only carry a name
type NameRequest struct {
	Name string `json:"name"`
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req NameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			return NewConflictError(c, "A category with that name already exists")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create category")
		return NewInternalError(c, "Failed to create category")
	}

	return c.JSON(http.StatusCreated, category)
}

// GetCategories lists the user's categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	categories, err := h.categoryService.GetCategories(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list categories")
		return NewInternalError(c, "Failed to list categories")
	}

	if categories == nil {
		categories = []*domain.Category{}
	}
	return c.JSON(http.StatusOK, categories)
}

// DeleteCategory deletes a category without linked expenses
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(userID, id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		if errors.Is(err, domain.ErrCategoryInUse) {
			return NewConflictError(c, "Category has linked expenses")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int32("category_id", id).Msg("Failed to delete category")
		return NewInternalError(c, "Failed to delete category")
	}

	return c.NoContent(http.StatusNoContent)
}
