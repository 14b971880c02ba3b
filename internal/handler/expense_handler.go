package handler

import (
	"errors"
	"net/http"
	"strconv"
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

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
	publisher      ws.EventPublisher
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService, publisher ws.EventPublisher) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		publisher:      publisher,
	}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Description     string  `json:"description"`
	Amount          string  `json:"amount"`
	Date            *string `json:"date,omitempty"`
	CategoryID      int32   `json:"categoryId"`
	PaymentMethodID int32   `json:"paymentMethodId"`
}

// CreateExpense creates a new expense
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	expense, err := h.expenseService.CreateExpense(userID, service.CreateExpenseInput{
		Description:     req.Description,
		Amount:          amount,
		Date:            date,
		CategoryID:      req.CategoryID,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		if verr := expenseValidationResponse(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense")
	}

	h.publisher.Publish(userID, ws.ExpenseCreated(expense))

	log.Info().Str("user_id", userID.String()).Int32("expense_id", expense.ID).Msg("Expense created")

	return c.JSON(http.StatusCreated, expense)
}

// expenseValidationResponse maps expense validation errors to 400 responses.
// Returns nil when the error is not a validation failure.
func expenseValidationResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category not found"},
		})
	case errors.Is(err, domain.ErrPaymentMethodNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "paymentMethodId", Message: "Payment method not found"},
		})
	}
	return nil
}

// GetExpenses lists expenses with optional category and date range filters
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters := &domain.ExpenseFilters{}

	if v := c.QueryParam("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return NewValidationError(c, "Invalid categoryId", nil)
		}
		categoryID := int32(id)
		filters.CategoryID = &categoryID
	}
	if v := c.QueryParam("startDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", nil)
		}
		filters.StartDate = &parsed
	}
	if v := c.QueryParam("endDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return NewValidationError(c, "Invalid endDate", nil)
		}
		filters.EndDate = &parsed
	}

	expenses, err := h.expenseService.GetExpenses(userID, filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDateRange) {
			return NewValidationError(c, "endDate must not precede startDate", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to list expenses")
	}

	if expenses == nil {
		expenses = []*domain.Expense{}
	}
	return c.JSON(http.StatusOK, expenses)
}

// GetExpense retrieves a single expense
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetExpenseByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get expense")
		return NewInternalError(c, "Failed to get expense")
	}

	return c.JSON(http.StatusOK, expense)
}

// UpdateExpenseRequest represents the update expense request body
type UpdateExpenseRequest struct {
	Description     string `json:"description"`
	Amount          string `json:"amount"`
	Date            string `json:"date"`
	CategoryID      int32  `json:"categoryId"`
	PaymentMethodID int32  `json:"paymentMethodId"`
}

// UpdateExpense updates an existing expense
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	expense, err := h.expenseService.UpdateExpense(userID, id, service.UpdateExpenseInput{
		Description:     req.Description,
		Amount:          amount,
		Date:            date,
		CategoryID:      req.CategoryID,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		if verr := expenseValidationResponse(c, err); verr != nil {
			return verr
		}
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update expense")
		return NewInternalError(c, "Failed to update expense")
	}

	h.publisher.Publish(userID, ws.ExpenseUpdated(expense))

	return c.JSON(http.StatusOK, expense)
}

// DeleteExpense deletes an expense. Recurring expenses require a mode query
// parameter: occurrence removes just this expense, series also stops the
// schedule.
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	mode := service.DeleteMode(c.QueryParam("mode"))

	if err := h.expenseService.DeleteExpense(userID, id, mode); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Recurring expenses require mode=occurrence or mode=series", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int32("expense_id", id).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	h.publisher.Publish(userID, ws.ExpenseDeleted(map[string]int32{"id": id}))

	log.Info().Str("user_id", userID.String()).Int32("expense_id", id).Msg("Expense deleted")

	return c.NoContent(http.StatusNoContent)
}

// GetMonthlyStats returns the expense count and total for one month.
// Query parameters anio and mes select the month.
func (h *ExpenseHandler) GetMonthlyStats(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, err := parseYearMonthQuery(c)
	if err != nil {
		return NewValidationError(c, "anio and mes query parameters are required", nil)
	}

	totals, err := h.expenseService.GetMonthlyTotals(userID, year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Invalid year or month", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to compute monthly stats")
		return NewInternalError(c, "Failed to compute monthly stats")
	}

	return c.JSON(http.StatusOK, totals)
}

// parseIDParam parses the :id path parameter
func parseIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return int32(id), nil
}

// parseYearMonthQuery parses the anio and mes query parameters
func parseYearMonthQuery(c echo.Context) (int, int, error) {
	year, err := strconv.Atoi(c.QueryParam("anio"))
	if err != nil {
		return 0, 0, domain.ErrInvalidInput
	}
	month, err := strconv.Atoi(c.QueryParam("mes"))
	if err != nil {
		return 0, 0, domain.ErrInvalidInput
	}
	return year, month, nil
}
