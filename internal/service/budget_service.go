package service

import (
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxBudgetsPerYear caps monthly budgets at one per calendar month.
const MaxBudgetsPerYear = 12

// BudgetService handles monthly budget and category ceiling business logic
type BudgetService struct {
	budgetRepo   domain.BudgetRepository
	categoryRepo domain.CategoryRepository
	expenseRepo  domain.ExpenseRepository
	calcService  *CalculationService
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, categoryRepo domain.CategoryRepository, expenseRepo domain.ExpenseRepository, calcService *CalculationService) *BudgetService {
	return &BudgetService{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		expenseRepo:  expenseRepo,
		calcService:  calcService,
	}
}

// CreateMonthlyBudget creates a budget container for a month. Past months
// (relative to asOf) are rejected, and a year holds at most twelve budgets.
func (s *BudgetService) CreateMonthlyBudget(userID uuid.UUID, year, month int, asOf time.Time) (*domain.MonthlyBudget, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidInput
	}
	if year < 2000 || year > 2100 {
		return nil, domain.ErrInvalidInput
	}
	if util.IsPastMonth(year, month, asOf) {
		return nil, domain.ErrPastMonth
	}

	count, err := s.budgetRepo.CountMonthlyByYear(userID, year)
	if err != nil {
		return nil, err
	}
	if count >= MaxBudgetsPerYear {
		return nil, domain.ErrAllMonthsUsed
	}

	return s.budgetRepo.CreateMonthly(&domain.MonthlyBudget{
		UserID: userID,
		Year:   year,
		Month:  month,
	})
}

// GetMonthlyBudgets retrieves a user's budgets with derived values, newest first
func (s *BudgetService) GetMonthlyBudgets(userID uuid.UUID, asOf time.Time) ([]*domain.CalculatedMonthlyBudget, error) {
	budgets, err := s.budgetRepo.ListMonthly(userID)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.CalculatedMonthlyBudget, 0, len(budgets))
	for _, b := range budgets {
		ceilings, err := s.budgetRepo.ListCategoryBudgets(userID, b.ID)
		if err != nil {
			return nil, err
		}
		calc, err := s.calcService.EnrichMonthlyBudget(b, ceilings, asOf)
		if err != nil {
			return nil, err
		}
		result = append(result, calc)
	}
	return result, nil
}

// GetMonthlyBudgetByID retrieves one budget with derived values
func (s *BudgetService) GetMonthlyBudgetByID(userID uuid.UUID, id int32, asOf time.Time) (*domain.CalculatedMonthlyBudget, error) {
	budget, err := s.budgetRepo.GetMonthlyByID(userID, id)
	if err != nil {
		return nil, err
	}
	ceilings, err := s.budgetRepo.ListCategoryBudgets(userID, budget.ID)
	if err != nil {
		return nil, err
	}
	return s.calcService.EnrichMonthlyBudget(budget, ceilings, asOf)
}

// AddCategoryBudget sets a category's ceiling inside a monthly budget.
// A category gets at most one ceiling per month.
func (s *BudgetService) AddCategoryBudget(userID uuid.UUID, monthlyBudgetID, categoryID int32, ceiling decimal.Decimal) (*domain.CategoryBudget, error) {
	if ceiling.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.budgetRepo.GetMonthlyByID(userID, monthlyBudgetID); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(userID, categoryID); err != nil {
		return nil, domain.ErrCategoryNotFound
	}

	exists, err := s.budgetRepo.CategoryBudgetExists(monthlyBudgetID, categoryID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrBudgetExists
	}

	return s.budgetRepo.CreateCategoryBudget(&domain.CategoryBudget{
		UserID:          userID,
		MonthlyBudgetID: monthlyBudgetID,
		CategoryID:      categoryID,
		Ceiling:         ceiling,
	})
}

// GetCategoryProgress retrieves the per-category progress rows of one
// monthly budget: ceiling, actual spend, movement count, percentage and
// status.
func (s *BudgetService) GetCategoryProgress(userID uuid.UUID, monthlyBudgetID int32) ([]*domain.CategoryBudgetProgress, error) {
	budget, err := s.budgetRepo.GetMonthlyByID(userID, monthlyBudgetID)
	if err != nil {
		return nil, err
	}

	ceilings, err := s.budgetRepo.ListCategoryBudgets(userID, monthlyBudgetID)
	if err != nil {
		return nil, err
	}
	if len(ceilings) == 0 {
		return []*domain.CategoryBudgetProgress{}, nil
	}

	// One aggregate query covers every category in the month
	start, end := util.MonthBoundaries(budget.Year, budget.Month)
	spends, err := s.expenseRepo.SpendByCategory(userID, start, end)
	if err != nil {
		return nil, err
	}
	spendByCategory := make(map[int32]*domain.CategorySpend, len(spends))
	for _, sp := range spends {
		spendByCategory[sp.CategoryID] = sp
	}

	result := make([]*domain.CategoryBudgetProgress, 0, len(ceilings))
	for _, cb := range ceilings {
		category, err := s.categoryRepo.GetByID(userID, cb.CategoryID)
		if err != nil {
			return nil, err
		}

		spent := decimal.Zero
		var count int64
		if sp, ok := spendByCategory[cb.CategoryID]; ok {
			spent = sp.Total
			count = sp.Count
		}

		result = append(result, &domain.CategoryBudgetProgress{
			CategoryBudget: *cb,
			CategoryName:   category.Name,
			Spent:          spent,
			MovementCount:  count,
			Percentage:     ProgressPercentage(spent, cb.Ceiling),
			Status:         CeilingStatus(spent, cb.Ceiling),
		})
	}
	return result, nil
}

// DeleteCategoryBudget removes a category ceiling. Ceilings with expenses
// already recorded against them are kept so the month's history stays
// explainable.
func (s *BudgetService) DeleteCategoryBudget(userID uuid.UUID, id int32) error {
	cb, err := s.budgetRepo.GetCategoryBudget(userID, id)
	if err != nil {
		return err
	}

	budget, err := s.budgetRepo.GetMonthlyByID(userID, cb.MonthlyBudgetID)
	if err != nil {
		return err
	}

	start, end := util.MonthBoundaries(budget.Year, budget.Month)
	movements, err := s.expenseRepo.CountByCategoryAndDateRange(userID, cb.CategoryID, start, end)
	if err != nil {
		return err
	}
	if movements > 0 {
		return domain.ErrBudgetHasMovements
	}

	return s.budgetRepo.DeleteCategoryBudget(userID, id)
}
