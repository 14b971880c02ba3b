package domain

import "errors"

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalError = errors.New("internal error")

	ErrUserNotFound           = errors.New("user not found")
	ErrExpenseNotFound        = errors.New("expense not found")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrPaymentMethodNotFound  = errors.New("payment method not found")
	ErrDefinitionNotFound     = errors.New("recurring definition not found")
	ErrInstanceNotFound       = errors.New("recurring instance not found")
	ErrBudgetNotFound         = errors.New("monthly budget not found")
	ErrCategoryBudgetNotFound = errors.New("category budget not found")
	ErrReceiptNotFound        = errors.New("receipt not found")

	ErrNameRequired     = errors.New("name is required")
	ErrNameTooLong      = errors.New("name exceeds maximum length")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidAnchor    = errors.New("schedule anchor does not match frequency")
	ErrInvalidDateRange = errors.New("end date precedes start date")

	ErrPastMonth          = errors.New("cannot create a budget for a past month")
	ErrMonthExists        = errors.New("a budget already exists for that month")
	ErrAllMonthsUsed      = errors.New("all months used")
	ErrBudgetExists       = errors.New("category already has a budget for this month")
	ErrBudgetHasMovements = errors.New("category budget has linked movements")
	ErrCategoryInUse      = errors.New("category has linked expenses")
)

// Validation constants
const (
	MaxNameLength = 255
)
