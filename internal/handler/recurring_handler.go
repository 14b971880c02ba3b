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

// RecurringHandler handles recurring-definition HTTP requests
type RecurringHandler struct {
	recurrenceService *service.RecurrenceService
	publisher         ws.EventPublisher
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurrenceService *service.RecurrenceService, publisher ws.EventPublisher) *RecurringHandler {
	return &RecurringHandler{
		recurrenceService: recurrenceService,
		publisher:         publisher,
	}
}

// DefinitionRequest represents a recurring definition request body
type DefinitionRequest struct {
	Description     string  `json:"description"`
	Amount          string  `json:"amount"`
	CategoryID      int32   `json:"categoryId"`
	PaymentMethodID int32   `json:"paymentMethodId"`
	Frequency       string  `json:"frequency"`
	WeekDay         *int    `json:"weekDay,omitempty"`
	MonthDay        *int    `json:"monthDay,omitempty"`
	StartDate       string  `json:"startDate"`
	EndDate         *string `json:"endDate,omitempty"`
}

func (r *DefinitionRequest) toInput() (service.DefinitionInput, []ValidationError) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return service.DefinitionInput{}, []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		}
	}

	startDate, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return service.DefinitionInput{}, []ValidationError{
			{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
		}
	}

	var endDate *time.Time
	if r.EndDate != nil && *r.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", *r.EndDate)
		if err != nil {
			return service.DefinitionInput{}, []ValidationError{
				{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
			}
		}
		endDate = &parsed
	}

	return service.DefinitionInput{
		Description:     r.Description,
		Amount:          amount,
		CategoryID:      r.CategoryID,
		PaymentMethodID: r.PaymentMethodID,
		Frequency:       domain.Frequency(r.Frequency),
		WeekDay:         r.WeekDay,
		MonthDay:        r.MonthDay,
		StartDate:       startDate,
		EndDate:         endDate,
	}, nil
}

// definitionErrorResponse maps definition validation errors to responses.
// Returns nil for errors it does not recognize.
func definitionErrorResponse(c echo.Context, err error) error {
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
	case errors.Is(err, domain.ErrInvalidFrequency):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "frequency", Message: "Must be one of: weekly, monthly"},
		})
	case errors.Is(err, domain.ErrInvalidAnchor):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "frequency", Message: "Weekly definitions need weekDay 1-7, monthly need monthDay 1-28"},
		})
	case errors.Is(err, domain.ErrInvalidDateRange):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "endDate", Message: "End date must not precede start date"},
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

// CreateDefinition creates a new recurring definition
func (h *RecurringHandler) CreateDefinition(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req DefinitionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, verrs := req.toInput()
	if verrs != nil {
		return NewValidationError(c, "Validation failed", verrs)
	}

	def, err := h.recurrenceService.CreateDefinition(userID, input)
	if err != nil {
		if resp := definitionErrorResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create recurring definition")
		return NewInternalError(c, "Failed to create recurring definition")
	}

	h.publisher.Publish(userID, ws.RecurringCreated(def))

	log.Info().Str("user_id", userID.String()).Int32("definition_id", def.ID).Msg("Recurring definition created")

	return c.JSON(http.StatusCreated, def)
}

// GetDefinitions lists the user's recurring definitions.
// Pass active=true to exclude deactivated ones.
func (h *RecurringHandler) GetDefinitions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	activeOnly := c.QueryParam("active") == "true"

	defs, err := h.recurrenceService.GetDefinitions(userID, activeOnly)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list recurring definitions")
		return NewInternalError(c, "Failed to list recurring definitions")
	}

	if defs == nil {
		defs = []*domain.RecurringDefinition{}
	}
	return c.JSON(http.StatusOK, defs)
}

// UpdateDefinition updates a recurring definition
func (h *RecurringHandler) UpdateDefinition(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid definition ID", nil)
	}

	var req DefinitionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, verrs := req.toInput()
	if verrs != nil {
		return NewValidationError(c, "Validation failed", verrs)
	}

	def, err := h.recurrenceService.UpdateDefinition(userID, id, input)
	if err != nil {
		if resp := definitionErrorResponse(c, err); resp != nil {
			return resp
		}
		if errors.Is(err, domain.ErrDefinitionNotFound) {
			return NewNotFoundError(c, "Recurring definition not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update recurring definition")
		return NewInternalError(c, "Failed to update recurring definition")
	}

	h.publisher.Publish(userID, ws.RecurringUpdated(def))

	return c.JSON(http.StatusOK, def)
}

// DeactivateDefinition stops future generation for a definition
func (h *RecurringHandler) DeactivateDefinition(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid definition ID", nil)
	}

	if err := h.recurrenceService.DeactivateDefinition(userID, id); err != nil {
		if errors.Is(err, domain.ErrDefinitionNotFound) {
			return NewNotFoundError(c, "Recurring definition not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int32("definition_id", id).Msg("Failed to deactivate recurring definition")
		return NewInternalError(c, "Failed to deactivate recurring definition")
	}

	h.publisher.Publish(userID, ws.RecurringDeleted(map[string]int32{"id": id}))

	return c.NoContent(http.StatusNoContent)
}

// ProcessDue materializes the caller's occurrences due on the given date.
// An optional asOf query parameter (YYYY-MM-DD) defaults to today.
func (h *RecurringHandler) ProcessDue(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	asOf := time.Now().UTC()
	if v := c.QueryParam("asOf"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return NewValidationError(c, "asOf must be in YYYY-MM-DD format", nil)
		}
		asOf = parsed
	}

	result, err := h.recurrenceService.ProcessDue(userID, asOf)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to process due recurring definitions")
		return NewInternalError(c, "Failed to process due recurring definitions")
	}

	return c.JSON(http.StatusOK, result)
}

// InstanceInfoResponse reports the recurring linkage of an expense.
// RecurringDefinitionID is null for expenses without one.
type InstanceInfoResponse struct {
	RecurringDefinitionID *int32                      `json:"recurringDefinitionId"`
	Instance              *domain.RecurringInstance   `json:"instance,omitempty"`
	Definition            *domain.RecurringDefinition `json:"definition,omitempty"`
}

// GetInstanceInfo resolves the recurring context of a materialized expense.
// The gastoId query parameter selects the expense. Expenses without a
// recurring linkage answer 200 with a null recurringDefinitionId.
func (h *RecurringHandler) GetInstanceInfo(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	raw := c.QueryParam("gastoId")
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return NewValidationError(c, "gastoId query parameter is required", nil)
	}

	info, err := h.recurrenceService.GetInstanceInfo(userID, int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, domain.ErrInstanceNotFound) || errors.Is(err, domain.ErrDefinitionNotFound) {
			return c.JSON(http.StatusOK, InstanceInfoResponse{RecurringDefinitionID: nil})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to resolve recurring instance")
		return NewInternalError(c, "Failed to resolve recurring instance")
	}

	return c.JSON(http.StatusOK, InstanceInfoResponse{
		RecurringDefinitionID: &info.Definition.ID,
		Instance:              info.Instance,
		Definition:            info.Definition,
	})
}
