package service

import (
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/util"
	"github.com/shopspring/decimal"
)

// CalculationService owns the derived budget math shared by budgets and the
// dashboard. All methods are deterministic; time enters only as an explicit
// as-of argument.
type CalculationService struct {
	expenseRepo domain.ExpenseRepository
}

// NewCalculationService creates a new CalculationService
func NewCalculationService(expenseRepo domain.ExpenseRepository) *CalculationService {
	return &CalculationService{expenseRepo: expenseRepo}
}

// ProgressPercentage returns spend as a whole percentage of the ceiling.
// A zero ceiling yields 0 rather than a division error.
func ProgressPercentage(spent, ceiling decimal.Decimal) int {
	if ceiling.IsZero() {
		return 0
	}
	return int(spent.Div(ceiling).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// CeilingStatus classifies spend against a ceiling
func CeilingStatus(spent, ceiling decimal.Decimal) domain.BudgetStatus {
	if ceiling.IsZero() {
		return domain.BudgetStatusNoBudget
	}
	switch spent.Cmp(ceiling) {
	case -1:
		return domain.BudgetStatusUnder
	case 0:
		return domain.BudgetStatusOnBudget
	default:
		return domain.BudgetStatusOver
	}
}

// MonthStatusFor positions a budget month relative to the as-of date
func MonthStatusFor(year, month int, asOf time.Time) domain.MonthStatus {
	if util.IsPastMonth(year, month, asOf) {
		return domain.MonthStatusCompleted
	}
	if year == asOf.Year() && month == int(asOf.Month()) {
		return domain.MonthStatusInProgress
	}
	return domain.MonthStatusPending
}

// TrendFor compares this month's spend against the previous month's
func TrendFor(current, previous decimal.Decimal) domain.Trend {
	switch current.Cmp(previous) {
	case 1:
		return domain.TrendUp
	case -1:
		return domain.TrendDown
	default:
		return domain.TrendFlat
	}
}

// EnrichMonthlyBudget computes the derived fields of a monthly budget:
// total ceiling across categories, actual spend, trend versus the previous
// month, and where the month sits relative to asOf.
func (s *CalculationService) EnrichMonthlyBudget(budget *domain.MonthlyBudget, ceilings []*domain.CategoryBudget, asOf time.Time) (*domain.CalculatedMonthlyBudget, error) {
	totalCeiling := decimal.Zero
	for _, cb := range ceilings {
		totalCeiling = totalCeiling.Add(cb.Ceiling)
	}

	start, end := util.MonthBoundaries(budget.Year, budget.Month)
	count, spent, err := s.expenseRepo.CountAndSumByDateRange(budget.UserID, start, end)
	if err != nil {
		return nil, err
	}

	prevYear, prevMonth := util.PreviousMonth(budget.Year, budget.Month)
	prevStart, prevEnd := util.MonthBoundaries(prevYear, prevMonth)
	_, prevSpent, err := s.expenseRepo.CountAndSumByDateRange(budget.UserID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	return &domain.CalculatedMonthlyBudget{
		MonthlyBudget: *budget,
		TotalCeiling:  totalCeiling,
		ExpenseCount:  count,
		TotalSpent:    spent,
		Trend:         TrendFor(spent, prevSpent),
		Status:        MonthStatusFor(budget.Year, budget.Month, asOf),
	}, nil
}

// CategorySpendInMonth sums one category's expenses inside a budget's month
func (s *CalculationService) CategorySpendInMonth(budget *domain.MonthlyBudget, categoryID int32) (decimal.Decimal, error) {
	start, end := util.MonthBoundaries(budget.Year, budget.Month)
	return s.expenseRepo.SumByCategoryAndDateRange(budget.UserID, categoryID, start, end)
}
