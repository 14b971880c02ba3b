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

// PaymentMethodHandler handles payment-method-related HTTP requests
type PaymentMethodHandler struct {
	methodService *service.PaymentMethodService
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler
func NewPaymentMethodHandler(methodService *service.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodService: methodService}
}

// CreatePaymentMethod creates a new payment method
func (h *PaymentMethodHandler) CreatePaymentMethod(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req NameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	method, err := h.methodService.CreatePaymentMethod(userID, req.Name)
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
			return NewConflictError(c, "A payment method with that name already exists")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create payment method")
		return NewInternalError(c, "Failed to create payment method")
	}

	return c.JSON(http.StatusCreated, method)
}

// GetPaymentMethods lists the user's payment methods
func (h *PaymentMethodHandler) GetPaymentMethods(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	methods, err := h.methodService.GetPaymentMethods(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list payment methods")
		return NewInternalError(c, "Failed to list payment methods")
	}

	if methods == nil {
		methods = []*domain.PaymentMethod{}
	}
	return c.JSON(http.StatusOK, methods)
}

// DeletePaymentMethod deletes a payment method
func (h *PaymentMethodHandler) DeletePaymentMethod(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid payment method ID", nil)
	}

	if err := h.methodService.DeletePaymentMethod(userID, id); err != nil {
		if errors.Is(err, domain.ErrPaymentMethodNotFound) {
			return NewNotFoundError(c, "Payment method not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int32("payment_method_id", id).Msg("Failed to delete payment method")
		return NewInternalError(c, "Failed to delete payment method")
	}

	return c.NoContent(http.StatusNoContent)
}
