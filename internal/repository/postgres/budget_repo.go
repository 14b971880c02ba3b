package postgres

import (
	"context"
	"errors"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const monthlyColumns = "id, user_id, year, month, created_at, updated_at"

func scanMonthly(row pgx.Row) (*domain.MonthlyBudget, error) {
	var b domain.MonthlyBudget
	err := row.Scan(&b.ID, &b.UserID, &b.Year, &b.Month, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}

const categoryBudgetColumns = "id, user_id, monthly_budget_id, category_id, ceiling, created_at, updated_at"

func scanCategoryBudget(row pgx.Row) (*domain.CategoryBudget, error) {
	var cb domain.CategoryBudget
	var ceiling pgtype.Numeric
	err := row.Scan(&cb.ID, &cb.UserID, &cb.MonthlyBudgetID, &cb.CategoryID, &ceiling, &cb.CreatedAt, &cb.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryBudgetNotFound
		}
		return nil, err
	}
	cb.Ceiling = pgNumericToDecimal(ceiling)
	return &cb, nil
}

// CreateMonthly inserts a new monthly budget; duplicate (user, year, month)
// surfaces as ErrMonthExists.
func (r *BudgetRepository) CreateMonthly(budget *domain.MonthlyBudget) (*domain.MonthlyBudget, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO monthly_budgets (user_id, year, month)
		VALUES ($1, $2, $3)
		RETURNING `+monthlyColumns,
		budget.UserID, budget.Year, budget.Month)
	b, err := scanMonthly(row)
	if err != nil && isUniqueViolation(err) {
		return nil, domain.ErrMonthExists
	}
	return b, err
}

// GetMonthlyByID retrieves a monthly budget scoped to its owner
func (r *BudgetRepository) GetMonthlyByID(userID uuid.UUID, id int32) (*domain.MonthlyBudget, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		"SELECT "+monthlyColumns+" FROM monthly_budgets WHERE user_id = $1 AND id = $2",
		userID, id)
	return scanMonthly(row)
}

// GetMonthlyByYearMonth retrieves a monthly budget by its (year, month)
func (r *BudgetRepository) GetMonthlyByYearMonth(userID uuid.UUID, year, month int) (*domain.MonthlyBudget, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		"SELECT "+monthlyColumns+" FROM monthly_budgets WHERE user_id = $1 AND year = $2 AND month = $3",
		userID, year, month)
	return scanMonthly(row)
}

// ListMonthly retrieves all monthly budgets for a user, newest first
func (r *BudgetRepository) ListMonthly(userID uuid.UUID) ([]*domain.MonthlyBudget, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx,
		"SELECT "+monthlyColumns+" FROM monthly_budgets WHERE user_id = $1 ORDER BY year DESC, month DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.MonthlyBudget
	for rows.Next() {
		b, err := scanMonthly(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// CountMonthlyByYear counts a user's budgets within one year
func (r *BudgetRepository) CountMonthlyByYear(userID uuid.UUID, year int) (int, error) {
	ctx := context.Background()

	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM monthly_budgets WHERE user_id = $1 AND year = $2",
		userID, year).Scan(&count)
	return count, err
}

// CreateCategoryBudget inserts a category ceiling; duplicate (budget,
// category) surfaces as ErrBudgetExists.
func (r *BudgetRepository) CreateCategoryBudget(cb *domain.CategoryBudget) (*domain.CategoryBudget, error) {
	ctx := context.Background()

	ceiling, err := decimalToPgNumeric(cb.Ceiling)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO category_budgets (user_id, monthly_budget_id, category_id, ceiling)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryBudgetColumns,
		cb.UserID, cb.MonthlyBudgetID, cb.CategoryID, ceiling)
	created, err := scanCategoryBudget(row)
	if err != nil && isUniqueViolation(err) {
		return nil, domain.ErrBudgetExists
	}
	return created, err
}

// GetCategoryBudget retrieves a category budget scoped to its owner
func (r *BudgetRepository) GetCategoryBudget(userID uuid.UUID, id int32) (*domain.CategoryBudget, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		"SELECT "+categoryBudgetColumns+" FROM category_budgets WHERE user_id = $1 AND id = $2",
		userID, id)
	return scanCategoryBudget(row)
}

// ListCategoryBudgets retrieves the ceilings inside one monthly budget
func (r *BudgetRepository) ListCategoryBudgets(userID uuid.UUID, monthlyBudgetID int32) ([]*domain.CategoryBudget, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx,
		"SELECT "+categoryBudgetColumns+" FROM category_budgets WHERE user_id = $1 AND monthly_budget_id = $2 ORDER BY id",
		userID, monthlyBudgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.CategoryBudget
	for rows.Next() {
		cb, err := scanCategoryBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, cb)
	}
	return result, rows.Err()
}

// CategoryBudgetExists checks the (monthly budget, category) uniqueness fast path
func (r *BudgetRepository) CategoryBudgetExists(monthlyBudgetID, categoryID int32) (bool, error) {
	ctx := context.Background()

	var count int64
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM category_budgets WHERE monthly_budget_id = $1 AND category_id = $2",
		monthlyBudgetID, categoryID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteCategoryBudget removes a category budget scoped to its owner
func (r *BudgetRepository) DeleteCategoryBudget(userID uuid.UUID, id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx,
		"DELETE FROM category_budgets WHERE user_id = $1 AND id = $2", userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryBudgetNotFound
	}
	return nil
}
