package service

import (
	"errors"
	"strings"
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeleteMode selects how a recurring expense is deleted.
type DeleteMode string

const (
	// DeleteModeOccurrence removes only the one materialized expense. The
	// instance is kept as skipped so the occurrence is not regenerated.
	DeleteModeOccurrence DeleteMode = "occurrence"
	// DeleteModeSeries additionally deactivates the definition so no future
	// occurrences are generated. Past expenses are untouched.
	DeleteModeSeries DeleteMode = "series"
)

// ExpenseService handles expense-related business logic
type ExpenseService struct {
	expenseRepo   domain.ExpenseRepository
	categoryRepo  domain.CategoryRepository
	methodRepo    domain.PaymentMethodRepository
	recurringRepo domain.RecurringRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, categoryRepo domain.CategoryRepository, methodRepo domain.PaymentMethodRepository, recurringRepo domain.RecurringRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo:   expenseRepo,
		categoryRepo:  categoryRepo,
		methodRepo:    methodRepo,
		recurringRepo: recurringRepo,
	}
}

// CreateExpenseInput holds the input for creating an expense
type CreateExpenseInput struct {
	Description     string
	Amount          decimal.Decimal
	Date            *time.Time
	CategoryID      int32
	PaymentMethodID int32
}

// CreateExpense creates a new expense with validation
func (s *ExpenseService) CreateExpense(userID uuid.UUID, input CreateExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrNameRequired
	}
	if len(description) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	// Validate references belong to the user
	if _, err := s.categoryRepo.GetByID(userID, input.CategoryID); err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	if _, err := s.methodRepo.GetByID(userID, input.PaymentMethodID); err != nil {
		return nil, domain.ErrPaymentMethodNotFound
	}

	// Default date to today if not provided
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	return s.expenseRepo.Create(&domain.Expense{
		UserID:          userID,
		Description:     description,
		Amount:          input.Amount,
		Date:            date,
		CategoryID:      input.CategoryID,
		PaymentMethodID: input.PaymentMethodID,
	})
}

// GetExpenses retrieves expenses for a user with optional filters
func (s *ExpenseService) GetExpenses(userID uuid.UUID, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	if filters != nil && filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}
	return s.expenseRepo.ListByUser(userID, filters)
}

// GetExpenseByID retrieves an expense by ID
func (s *ExpenseService) GetExpenseByID(userID uuid.UUID, id int32) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(userID, id)
}

// UpdateExpenseInput holds the input for updating an expense
type UpdateExpenseInput struct {
	Description     string
	Amount          decimal.Decimal
	Date            time.Time
	CategoryID      int32
	PaymentMethodID int32
}

// UpdateExpense updates an existing expense with validation
func (s *ExpenseService) UpdateExpense(userID uuid.UUID, id int32, input UpdateExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrNameRequired
	}
	if len(description) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.categoryRepo.GetByID(userID, input.CategoryID); err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	if _, err := s.methodRepo.GetByID(userID, input.PaymentMethodID); err != nil {
		return nil, domain.ErrPaymentMethodNotFound
	}

	existing, err := s.expenseRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	existing.Description = description
	existing.Amount = input.Amount
	existing.Date = input.Date
	existing.CategoryID = input.CategoryID
	existing.PaymentMethodID = input.PaymentMethodID

	return s.expenseRepo.Update(existing)
}

// DeleteExpense deletes an expense. For expenses materialized from a
// recurring definition the mode decides scope: occurrence removes just this
// expense while keeping the schedule alive, series also stops future
// generation. Mode is ignored for ordinary expenses.
func (s *ExpenseService) DeleteExpense(userID uuid.UUID, id int32, mode DeleteMode) error {
	expense, err := s.expenseRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if expense.IsRecurring {
		if mode != DeleteModeOccurrence && mode != DeleteModeSeries {
			return domain.ErrInvalidInput
		}

		instance, err := s.recurringRepo.GetInstanceByExpense(id)
		if err != nil && !errors.Is(err, domain.ErrInstanceNotFound) {
			return err
		}

		if instance != nil {
			// Skipped instances are never re-materialized, so the deletion
			// survives a later processing sweep.
			if err := s.recurringRepo.MarkSkipped(instance.ID); err != nil {
				return err
			}
			if mode == DeleteModeSeries {
				if err := s.recurringRepo.Deactivate(userID, instance.DefinitionID); err != nil {
					return err
				}
			}
		}
	}

	return s.expenseRepo.Delete(userID, id)
}

// GetMonthlyTotals returns the count and sum of a user's expenses in one month
func (s *ExpenseService) GetMonthlyTotals(userID uuid.UUID, year, month int) (*domain.MonthlyTotals, error) {
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

	return &domain.MonthlyTotals{
		Year:  year,
		Month: month,
		Count: count,
		Total: total,
	}, nil
}
