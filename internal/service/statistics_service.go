package service

import (
	"sort"
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// daysPerMonth is the fixed divisor for the per-day average, so the figure
// is comparable across months of different lengths.
const daysPerMonth = 30

// StatisticsService derives display-ready aggregates from expense lists.
// The grouping and averaging functions are pure; only the dashboard entry
// point touches the store.
type StatisticsService struct {
	expenseRepo domain.ExpenseRepository
}

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(expenseRepo domain.ExpenseRepository) *StatisticsService {
	return &StatisticsService{expenseRepo: expenseRepo}
}

// GroupByDay buckets expenses by calendar day, ascending
func GroupByDay(expenses []*domain.Expense) []domain.PeriodSpend {
	return groupBy(expenses, func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	})
}

// GroupByWeek buckets expenses by Monday-started week, ascending
func GroupByWeek(expenses []*domain.Expense) []domain.PeriodSpend {
	return groupBy(expenses, util.WeekStart)
}

// GroupByMonth buckets expenses by calendar month, ascending
func GroupByMonth(expenses []*domain.Expense) []domain.PeriodSpend {
	return groupBy(expenses, func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	})
}

func groupBy(expenses []*domain.Expense, periodStart func(time.Time) time.Time) []domain.PeriodSpend {
	buckets := make(map[time.Time]*domain.PeriodSpend)
	for _, e := range expenses {
		start := periodStart(e.Date)
		b, ok := buckets[start]
		if !ok {
			b = &domain.PeriodSpend{PeriodStart: start, Total: decimal.Zero}
			buckets[start] = b
		}
		b.Total = b.Total.Add(e.Amount)
		b.Count++
	}

	result := make([]domain.PeriodSpend, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PeriodStart.Before(result[j].PeriodStart)
	})
	return result
}

// CompareMonths computes the month-over-month delta. With no previous
// spend the percent change is 0, not infinity.
func CompareMonths(current, previous decimal.Decimal) domain.MonthComparison {
	comparison := domain.MonthComparison{
		CurrentTotal:  current,
		PreviousTotal: previous,
		Delta:         current.Sub(previous),
	}
	if !previous.IsZero() {
		comparison.PercentChange = int(comparison.Delta.Div(previous).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	}
	return comparison
}

// CategoryShares converts per-category totals into percentage slices of the
// grand total. Shares keep the input's order (largest spend first when fed
// from the store).
func CategoryShares(spends []*domain.CategorySpend) []domain.CategoryShare {
	grandTotal := decimal.Zero
	for _, sp := range spends {
		grandTotal = grandTotal.Add(sp.Total)
	}

	shares := make([]domain.CategoryShare, 0, len(spends))
	for _, sp := range spends {
		share := domain.CategoryShare{CategoryID: sp.CategoryID, Total: sp.Total}
		if !grandTotal.IsZero() {
			share.Percentage = int(sp.Total.Div(grandTotal).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
		}
		shares = append(shares, share)
	}
	return shares
}

// AveragePerExpense returns total/count, or zero when there are no expenses
func AveragePerExpense(total decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count)).Round(2)
}

// AveragePerDay returns the month's spend spread over a fixed 30-day month
func AveragePerDay(total decimal.Decimal) decimal.Decimal {
	return total.Div(decimal.NewFromInt(daysPerMonth)).Round(2)
}

// GetDashboard assembles the statistics payload for one month
func (s *StatisticsService) GetDashboard(userID uuid.UUID, year, month int) (*domain.DashboardSummary, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidInput
	}
	if year < 2000 || year > 2100 {
		return nil, domain.ErrInvalidInput
	}

	start, end := util.MonthBoundaries(year, month)
	count, total, err := s.expenseRepo.CountAndSumByDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	prevYear, prevMonth := util.PreviousMonth(year, month)
	prevStart, prevEnd := util.MonthBoundaries(prevYear, prevMonth)
	_, prevTotal, err := s.expenseRepo.CountAndSumByDateRange(userID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	spends, err := s.expenseRepo.SpendByCategory(userID, start, end)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.ListByUser(userID, &domain.ExpenseFilters{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, err
	}

	summary := &domain.DashboardSummary{
		Year:  year,
		Month: month,
		Totals: domain.MonthlyTotals{
			Year:  year,
			Month: month,
			Count: count,
			Total: total,
		},
		Comparison:        CompareMonths(total, prevTotal),
		CategoryShares:    CategoryShares(spends),
		ByWeek:            GroupByWeek(expenses),
		AveragePerExpense: AveragePerExpense(total, count),
		AveragePerDay:     AveragePerDay(total),
	}

	// Store returns categories ordered by spend, largest first
	if len(spends) > 0 {
		summary.TopCategoryID = &spends[0].CategoryID
	}

	return summary, nil
}
