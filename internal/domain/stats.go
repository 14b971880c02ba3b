package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyTotals is the count and sum of all expenses in one month.
type MonthlyTotals struct {
	Year  int             `json:"anio"`
	Month int             `json:"mes"`
	Count int64           `json:"cantidad_gastos"`
	Total decimal.Decimal `json:"monto_total"`
}

// PeriodSpend is an aggregated bucket of expenses for a display period.
type PeriodSpend struct {
	// Start of the period: the day itself, the Monday of the week, or the
	// first of the month.
	PeriodStart time.Time       `json:"periodStart"`
	Total       decimal.Decimal `json:"total"`
	Count       int             `json:"count"`
}

// CategoryShare is one category's slice of a total.
type CategoryShare struct {
	CategoryID int32           `json:"categoryId"`
	Total      decimal.Decimal `json:"total"`
	Percentage int             `json:"percentage"`
}

// MonthComparison is the month-over-month delta for a dashboard.
type MonthComparison struct {
	CurrentTotal  decimal.Decimal `json:"currentTotal"`
	PreviousTotal decimal.Decimal `json:"previousTotal"`
	Delta         decimal.Decimal `json:"delta"`
	PercentChange int             `json:"percentChange"`
}

// DashboardSummary is the display-ready statistics payload for one month.
type DashboardSummary struct {
	Year              int             `json:"anio"`
	Month             int             `json:"mes"`
	Totals            MonthlyTotals   `json:"totals"`
	Comparison        MonthComparison `json:"comparison"`
	TopCategoryID     *int32          `json:"topCategoryId,omitempty"`
	CategoryShares    []CategoryShare `json:"categoryShares"`
	ByWeek            []PeriodSpend   `json:"byWeek"`
	AveragePerExpense decimal.Decimal `json:"averagePerExpense"`
	AveragePerDay     decimal.Decimal `json:"averagePerDay"`
}
