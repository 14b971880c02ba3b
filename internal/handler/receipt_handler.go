package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/middleware"
	"github.com/afuentes/gastolog/gastolog-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles expense receipt HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// UploadReceipt attaches a receipt image to an expense.
// Expects a multipart form with a "receipt" file field.
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return NewValidationError(c, "receipt file is required", nil)
	}
	if fileHeader.Size > service.MaxReceiptSize {
		return NewValidationError(c, "File too large. Maximum size is 5MB", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return NewValidationError(c, "Could not read uploaded file", nil)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return NewValidationError(c, "Could not read uploaded file", nil)
	}

	expense, err := h.receiptService.UploadReceipt(c.Request().Context(), userID, id, data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, service.ErrReceiptTooLarge),
			errors.Is(err, service.ErrInvalidReceiptFormat),
			errors.Is(err, service.ErrInvalidReceiptData):
			return NewValidationError(c, err.Error(), nil)
		case errors.Is(err, service.ErrReceiptStorageNotConfigured):
			return NewNotFoundError(c, "Receipt storage is not available")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int32("expense_id", id).Msg("Failed to upload receipt")
		return NewInternalError(c, "Failed to upload receipt")
	}

	return c.JSON(http.StatusCreated, expense)
}

// GetReceiptURL returns a short-lived URL for an expense's receipt
func (h *ReceiptHandler) GetReceiptURL(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	url, err := h.receiptService.GetReceiptURL(c.Request().Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, domain.ErrReceiptNotFound):
			return NewNotFoundError(c, "Expense has no receipt")
		case errors.Is(err, service.ErrReceiptStorageNotConfigured):
			return NewNotFoundError(c, "Receipt storage is not available")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int32("expense_id", id).Msg("Failed to generate receipt URL")
		return NewInternalError(c, "Failed to generate receipt URL")
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// DeleteReceipt removes an expense's receipt
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.receiptService.DeleteReceipt(c.Request().Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, domain.ErrReceiptNotFound):
			return NewNotFoundError(c, "Expense has no receipt")
		case errors.Is(err, service.ErrReceiptStorageNotConfigured):
			return NewNotFoundError(c, "Receipt storage is not available")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int32("expense_id", id).Msg("Failed to delete receipt")
		return NewInternalError(c, "Failed to delete receipt")
	}

	return c.NoContent(http.StatusNoContent)
}
