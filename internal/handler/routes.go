package handler

import (
	"github.com/afuentes/gastolog/gastolog-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, expenseHandler *ExpenseHandler, categoryHandler *CategoryHandler, paymentMethodHandler *PaymentMethodHandler, recurringHandler *RecurringHandler, budgetHandler *BudgetHandler, dashboardHandler *DashboardHandler, receiptHandler *ReceiptHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	protect := []echo.MiddlewareFunc{
		authMiddleware.Authenticate(),
		middleware.RateLimitMiddleware(rateLimiter),
	}

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(protect...)
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)

	// Category routes (protected)
	categories := api.Group("/categories")
	categories.Use(protect...)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Payment method routes (protected)
	methods := api.Group("/payment-methods")
	methods.Use(protect...)
	methods.POST("", paymentMethodHandler.CreatePaymentMethod)
	methods.GET("", paymentMethodHandler.GetPaymentMethods)
	methods.DELETE("/:id", paymentMethodHandler.DeletePaymentMethod)

	// Expense routes (protected)
	expenses := api.Group("/expenses")
	expenses.Use(protect...)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/stats", expenseHandler.GetMonthlyStats)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	if receiptHandler != nil {
		expenses.POST("/:id/receipt", receiptHandler.UploadReceipt)
		expenses.GET("/:id/receipt", receiptHandler.GetReceiptURL)
		expenses.DELETE("/:id/receipt", receiptHandler.DeleteReceipt)
	}

	// Recurring definition routes (protected)
	recurring := api.Group("/recurring-expenses")
	recurring.Use(protect...)
	recurring.POST("", recurringHandler.CreateDefinition)
	recurring.GET("", recurringHandler.GetDefinitions)
	recurring.PUT("/:id", recurringHandler.UpdateDefinition)
	recurring.DELETE("/:id", recurringHandler.DeactivateDefinition)
	recurring.POST("/process", recurringHandler.ProcessDue)

	instanceInfo := api.Group("/recurring-instance-info")
	instanceInfo.Use(protect...)
	instanceInfo.GET("", recurringHandler.GetInstanceInfo)

	// Budget routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(protect...)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.GET("/:id/categories", budgetHandler.GetCategoryProgress)

	budgetCategories := api.Group("/budget-categories")
	budgetCategories.Use(protect...)
	budgetCategories.POST("", budgetHandler.AddCategoryBudget)
	budgetCategories.DELETE("/:id", budgetHandler.DeleteCategoryBudget)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(protect...)
	dashboard.GET("/summary", dashboardHandler.GetSummary)

	// WebSocket endpoint authenticates via token query parameter
	if wsHandler != nil {
		e.GET("/ws", wsHandler.HandleWS)
	}
}
