package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/config"
	"github.com/afuentes/gastolog/gastolog-backend/internal/handler"
	"github.com/afuentes/gastolog/gastolog-backend/internal/middleware"
	"github.com/afuentes/gastolog/gastolog-backend/internal/repository/postgres"
	"github.com/afuentes/gastolog/gastolog-backend/internal/repository/storage"
	"github.com/afuentes/gastolog/gastolog-backend/internal/service"
	dbstorage "github.com/afuentes/gastolog/gastolog-backend/internal/storage"
	"github.com/afuentes/gastolog/gastolog-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Apply schema migrations
	if err := dbstorage.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	methodRepo := postgres.NewPaymentMethodRepository(pool)
	recurringRepo := postgres.NewRecurringRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)

	// Initialize services
	authService := service.NewAuthService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	methodService := service.NewPaymentMethodService(methodRepo)
	expenseService := service.NewExpenseService(expenseRepo, categoryRepo, methodRepo, recurringRepo)
	recurrenceService := service.NewRecurrenceService(recurringRepo, expenseRepo, categoryRepo, methodRepo, log.Logger)
	calculationService := service.NewCalculationService(expenseRepo)
	budgetService := service.NewBudgetService(budgetRepo, categoryRepo, expenseRepo, calculationService)
	statsService := service.NewStatisticsService(expenseRepo)

	// Receipt storage is optional; the routes are skipped when disabled
	var receiptService *service.ReceiptService
	if cfg.S3.Enabled() {
		receiptRepo, err := storage.NewS3ReceiptRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		receiptService = service.NewReceiptService(receiptRepo, expenseRepo)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage enabled")
	} else {
		log.Info().Msg("Receipt storage disabled (S3_BUCKET not set)")
	}

	// WebSocket hub for live events
	hub := websocket.NewHub()

	// Create user provider adapter for auth middleware
	userProvider := &userProviderAdapter{authService: authService}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, userProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Per-user rate limiting
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// WebSocket token validation
	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, &userLookupAdapter{authService: authService})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket validator")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	expenseHandler := handler.NewExpenseHandler(expenseService, hub)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	methodHandler := handler.NewPaymentMethodHandler(methodService)
	recurringHandler := handler.NewRecurringHandler(recurrenceService, hub)
	budgetHandler := handler.NewBudgetHandler(budgetService, hub)
	dashboardHandler := handler.NewDashboardHandler(statsService)
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

	var receiptHandler *handler.ReceiptHandler
	if receiptService != nil {
		receiptHandler = handler.NewReceiptHandler(receiptService)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, authHandler, expenseHandler, categoryHandler, methodHandler, recurringHandler, budgetHandler, dashboardHandler, receiptHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// userProviderAdapter adapts AuthService to middleware.UserProvider
type userProviderAdapter struct {
	authService *service.AuthService
}

// ResolveUserID implements middleware.UserProvider
func (a *userProviderAdapter) ResolveUserID(auth0ID, email string, name, pictureURL *string) (uuid.UUID, error) {
	user, err := a.authService.AuthenticateUser(auth0ID, email, name, pictureURL)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// userLookupAdapter adapts AuthService to websocket.UserLookup
type userLookupAdapter struct {
	authService *service.AuthService
}

// GetUserIDByAuth0ID implements websocket.UserLookup
func (a *userLookupAdapter) GetUserIDByAuth0ID(auth0ID string) (uuid.UUID, error) {
	user, err := a.authService.GetUserByAuth0ID(auth0ID)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
