package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetStatus compares spend against a ceiling.
type BudgetStatus string

const (
	BudgetStatusNoBudget BudgetStatus = "no-budget"
	BudgetStatusUnder    BudgetStatus = "under"
	BudgetStatusOnBudget BudgetStatus = "on-budget"
	BudgetStatusOver     BudgetStatus = "over"
)

// MonthStatus tracks where a monthly budget sits relative to an as-of date.
type MonthStatus string

const (
	MonthStatusPending    MonthStatus = "pending"
	MonthStatusInProgress MonthStatus = "in-progress"
	MonthStatusCompleted  MonthStatus = "completed"
)

// Trend indicates spend direction versus the previous month.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// MonthlyBudget is the per-user, per-year-month container for category
// ceilings. Unique per (user, year, month).
type MonthlyBudget struct {
	ID        int32     `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CalculatedMonthlyBudget extends MonthlyBudget with derived values.
type CalculatedMonthlyBudget struct {
	MonthlyBudget
	TotalCeiling decimal.Decimal `json:"totalCeiling"`
	ExpenseCount int64           `json:"expenseCount"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	Trend        Trend           `json:"trend"`
	Status       MonthStatus     `json:"status"`
}

// CategoryBudget is one category's ceiling inside a monthly budget.
// Unique per (monthly budget, category).
type CategoryBudget struct {
	ID              int32           `json:"id"`
	UserID          uuid.UUID       `json:"-"`
	MonthlyBudgetID int32           `json:"monthlyBudgetId"`
	CategoryID      int32           `json:"categoryId"`
	Ceiling         decimal.Decimal `json:"ceiling"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CategoryBudgetProgress pairs a category budget with its month's spend.
type CategoryBudgetProgress struct {
	CategoryBudget
	CategoryName  string          `json:"categoryName"`
	Spent         decimal.Decimal `json:"spent"`
	MovementCount int64           `json:"movementCount"`
	Percentage    int             `json:"percentage"`
	Status        BudgetStatus    `json:"status"`
}

type BudgetRepository interface {
	CreateMonthly(budget *MonthlyBudget) (*MonthlyBudget, error)
	GetMonthlyByID(userID uuid.UUID, id int32) (*MonthlyBudget, error)
	GetMonthlyByYearMonth(userID uuid.UUID, year, month int) (*MonthlyBudget, error)
	ListMonthly(userID uuid.UUID) ([]*MonthlyBudget, error)
	CountMonthlyByYear(userID uuid.UUID, year int) (int, error)

	CreateCategoryBudget(cb *CategoryBudget) (*CategoryBudget, error)
	GetCategoryBudget(userID uuid.UUID, id int32) (*CategoryBudget, error)
	ListCategoryBudgets(userID uuid.UUID, monthlyBudgetID int32) ([]*CategoryBudget, error)
	CategoryBudgetExists(monthlyBudgetID, categoryID int32) (bool, error)
	DeleteCategoryBudget(userID uuid.UUID, id int32) error
}
