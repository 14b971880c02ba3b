package service

import (
	"testing"
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestProgressPercentage(t *testing.T) {
	tests := []struct {
		name    string
		spent   decimal.Decimal
		ceiling decimal.Decimal
		want    int
	}{
		{"half spent", decimal.NewFromInt(50), decimal.NewFromInt(100), 50},
		{"fully spent", decimal.NewFromInt(100), decimal.NewFromInt(100), 100},
		{"overspent", decimal.NewFromInt(120), decimal.NewFromInt(100), 120},
		{"zero ceiling", decimal.NewFromInt(50), decimal.Zero, 0},
		{"nothing spent", decimal.Zero, decimal.NewFromInt(100), 0},
		{"rounds to whole", decimal.NewFromFloat(33.33), decimal.NewFromInt(100), 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressPercentage(tt.spent, tt.ceiling)
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCeilingStatus(t *testing.T) {
	tests := []struct {
		name    string
		spent   decimal.Decimal
		ceiling decimal.Decimal
		want    domain.BudgetStatus
	}{
		{"under", decimal.NewFromInt(50), decimal.NewFromInt(100), domain.BudgetStatusUnder},
		{"exactly on budget", decimal.NewFromInt(100), decimal.NewFromInt(100), domain.BudgetStatusOnBudget},
		{"over", decimal.NewFromInt(120), decimal.NewFromInt(100), domain.BudgetStatusOver},
		{"no ceiling", decimal.NewFromInt(50), decimal.Zero, domain.BudgetStatusNoBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CeilingStatus(tt.spent, tt.ceiling)
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMonthStatusFor(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	if got := MonthStatusFor(2026, 5, asOf); got != domain.MonthStatusCompleted {
		t.Errorf("Expected past month to be 'completed', got %s", got)
	}
	if got := MonthStatusFor(2026, 6, asOf); got != domain.MonthStatusInProgress {
		t.Errorf("Expected current month to be 'in-progress', got %s", got)
	}
	if got := MonthStatusFor(2026, 7, asOf); got != domain.MonthStatusPending {
		t.Errorf("Expected future month to be 'pending', got %s", got)
	}
	if got := MonthStatusFor(2025, 12, asOf); got != domain.MonthStatusCompleted {
		t.Errorf("Expected previous year to be 'completed', got %s", got)
	}
	if got := MonthStatusFor(2027, 1, asOf); got != domain.MonthStatusPending {
		t.Errorf("Expected next year to be 'pending', got %s", got)
	}
}

func TestTrendFor(t *testing.T) {
	if got := TrendFor(decimal.NewFromInt(200), decimal.NewFromInt(100)); got != domain.TrendUp {
		t.Errorf("Expected 'up', got %s", got)
	}
	if got := TrendFor(decimal.NewFromInt(100), decimal.NewFromInt(200)); got != domain.TrendDown {
		t.Errorf("Expected 'down', got %s", got)
	}
	if got := TrendFor(decimal.NewFromInt(100), decimal.NewFromInt(100)); got != domain.TrendFlat {
		t.Errorf("Expected 'flat', got %s", got)
	}
}

func TestEnrichMonthlyBudget(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	calcService := NewCalculationService(expenseRepo)

	userID := uuid.New()

	// Spend inside the budget month
	expenseRepo.AddExpense(&domain.Expense{
		ID: 1, UserID: userID, Amount: decimal.NewFromFloat(120.00), CategoryID: 1,
		Date: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	expenseRepo.AddExpense(&domain.Expense{
		ID: 2, UserID: userID, Amount: decimal.NewFromFloat(80.00), CategoryID: 2,
		Date: time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC),
	})
	// Spend in the previous month, lower than the current one
	expenseRepo.AddExpense(&domain.Expense{
		ID: 3, UserID: userID, Amount: decimal.NewFromFloat(50.00), CategoryID: 1,
		Date: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
	})

	budget := &domain.MonthlyBudget{ID: 1, UserID: userID, Year: 2026, Month: 6}
	ceilings := []*domain.CategoryBudget{
		{ID: 1, UserID: userID, MonthlyBudgetID: 1, CategoryID: 1, Ceiling: decimal.NewFromInt(200)},
		{ID: 2, UserID: userID, MonthlyBudgetID: 1, CategoryID: 2, Ceiling: decimal.NewFromInt(100)},
	}

	asOf := time.Date(2026, 6, 25, 0, 0, 0, 0, time.UTC)
	calc, err := calcService.EnrichMonthlyBudget(budget, ceilings, asOf)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !calc.TotalCeiling.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected total ceiling 300, got %s", calc.TotalCeiling.String())
	}
	if !calc.TotalSpent.Equal(decimal.NewFromFloat(200.00)) {
		t.Errorf("Expected total spent 200.00, got %s", calc.TotalSpent.String())
	}
	if calc.ExpenseCount != 2 {
		t.Errorf("Expected 2 expenses, got %d", calc.ExpenseCount)
	}
	if calc.Trend != domain.TrendUp {
		t.Errorf("Expected trend 'up', got %s", calc.Trend)
	}
	if calc.Status != domain.MonthStatusInProgress {
		t.Errorf("Expected status 'in-progress', got %s", calc.Status)
	}
}

func TestCategorySpendInMonth(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	calcService := NewCalculationService(expenseRepo)

	userID := uuid.New()
	expenseRepo.AddExpense(&domain.Expense{
		ID: 1, UserID: userID, Amount: decimal.NewFromFloat(30.00), CategoryID: 1,
		Date: time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
	})
	expenseRepo.AddExpense(&domain.Expense{
		ID: 2, UserID: userID, Amount: decimal.NewFromFloat(45.00), CategoryID: 1,
		Date: time.Date(2026, 6, 28, 0, 0, 0, 0, time.UTC),
	})
	// Different category and different month, both outside the sum
	expenseRepo.AddExpense(&domain.Expense{
		ID: 3, UserID: userID, Amount: decimal.NewFromFloat(99.00), CategoryID: 2,
		Date: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	expenseRepo.AddExpense(&domain.Expense{
		ID: 4, UserID: userID, Amount: decimal.NewFromFloat(15.00), CategoryID: 1,
		Date: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	})

	budget := &domain.MonthlyBudget{ID: 1, UserID: userID, Year: 2026, Month: 6}
	spent, err := calcService.CategorySpendInMonth(budget, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !spent.Equal(decimal.NewFromFloat(75.00)) {
		t.Errorf("Expected 75.00, got %s", spent.String())
	}
}
