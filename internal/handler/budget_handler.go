package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/middleware"
	"github.com/afuentes/gastolog/gastolog-backend/internal/service"
	ws "github.com/afuentes/gastolog/gastolog-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles monthly budget and category ceiling HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
	publisher     ws.EventPublisher
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService, publisher ws.EventPublisher) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		publisher:     publisher,
	}
}

// CreateBudgetRequest represents the create monthly budget request body
type CreateBudgetRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// CreateBudget creates a monthly budget container
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	budget, err := h.budgetService.CreateMonthlyBudget(userID, req.Year, req.Month, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Invalid year or month", nil)
		case errors.Is(err, domain.ErrPastMonth):
			return NewValidationError(c, "Cannot create a budget for a past month", nil)
		case errors.Is(err, domain.ErrAllMonthsUsed):
			return NewConflictError(c, "All twelve months of that year already have budgets")
		case errors.Is(err, domain.ErrMonthExists):
			return NewConflictError(c, "A budget already exists for that month")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create monthly budget")
		return NewInternalError(c, "Failed to create monthly budget")
	}

	h.publisher.Publish(userID, ws.BudgetCreated(budget))

	log.Info().Str("user_id", userID.String()).Int32("budget_id", budget.ID).Int("year", budget.Year).Int("month", budget.Month).Msg("Monthly budget created")

	return c.JSON(http.StatusCreated, budget)
}

// GetBudgets lists the user's monthly budgets with derived values
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budgets, err := h.budgetService.GetMonthlyBudgets(userID, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list monthly budgets")
		return NewInternalError(c, "Failed to list monthly budgets")
	}

	if budgets == nil {
		budgets = []*domain.CalculatedMonthlyBudget{}
	}
	return c.JSON(http.StatusOK, budgets)
}

// GetBudget retrieves one monthly budget with derived values
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.budgetService.GetMonthlyBudgetByID(userID, id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Monthly budget not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get monthly budget")
		return NewInternalError(c, "Failed to get monthly budget")
	}

	return c.JSON(http.StatusOK, budget)
}

// AddCategoryBudgetRequest represents the category ceiling request body
type AddCategoryBudgetRequest struct {
	MonthlyBudgetID int32  `json:"monthlyBudgetId"`
	CategoryID      int32  `json:"categoryId"`
	Ceiling         string `json:"ceiling"`
}

// AddCategoryBudget sets a category's ceiling inside a monthly budget
func (h *BudgetHandler) AddCategoryBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req AddCategoryBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	ceiling, err := decimal.NewFromString(req.Ceiling)
	if err != nil {
		return NewValidationError(c, "Invalid ceiling", []ValidationError{
			{Field: "ceiling", Message: "Must be a valid decimal number"},
		})
	}

	cb, err := h.budgetService.AddCategoryBudget(userID, req.MonthlyBudgetID, req.CategoryID, ceiling)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "ceiling", Message: "Ceiling must be positive"},
			})
		case errors.Is(err, domain.ErrBudgetNotFound):
			return NewNotFoundError(c, "Monthly budget not found")
		case errors.Is(err, domain.ErrCategoryNotFound):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category not found"},
			})
		case errors.Is(err, domain.ErrBudgetExists):
			return NewConflictError(c, "Category already has a budget for this month")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to add category budget")
		return NewInternalError(c, "Failed to add category budget")
	}

	h.publisher.Publish(userID, ws.CategoryBudgetCreated(cb))

	return c.JSON(http.StatusCreated, cb)
}

// GetCategoryProgress lists a budget's per-category progress rows
func (h *BudgetHandler) GetCategoryProgress(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	progress, err := h.budgetService.GetCategoryProgress(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Monthly budget not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to compute category progress")
		return NewInternalError(c, "Failed to compute category progress")
	}

	return c.JSON(http.StatusOK, progress)
}

// DeleteCategoryBudget removes a category ceiling without movements
func (h *BudgetHandler) DeleteCategoryBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid category budget ID", nil)
	}

	if err := h.budgetService.DeleteCategoryBudget(userID, id); err != nil {
		if errors.Is(err, domain.ErrCategoryBudgetNotFound) {
			return NewNotFoundError(c, "Category budget not found")
		}
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Monthly budget not found")
		}
		if errors.Is(err, domain.ErrBudgetHasMovements) {
			return NewConflictError(c, "Category budget has linked movements")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int32("category_budget_id", id).Msg("Failed to delete category budget")
		return NewInternalError(c, "Failed to delete category budget")
	}

	h.publisher.Publish(userID, ws.CategoryBudgetDeleted(map[string]int32{"id": id}))

	return c.NoContent(http.StatusNoContent)
}
