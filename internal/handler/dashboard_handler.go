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

// DashboardHandler handles dashboard statistics HTTP requests
type DashboardHandler struct {
	statsService *service.StatisticsService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(statsService *service.StatisticsService) *DashboardHandler {
	return &DashboardHandler{statsService: statsService}
}

// GetSummary returns the statistics payload for one month.
// Query parameters anio and mes select the month.
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, err := parseYearMonthQuery(c)
	if err != nil {
		return NewValidationError(c, "anio and mes query parameters are required", nil)
	}

	summary, err := h.statsService.GetDashboard(userID, year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Invalid year or month", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build dashboard summary")
		return NewInternalError(c, "Failed to build dashboard summary")
	}

	return c.JSON(http.StatusOK, summary)
}
