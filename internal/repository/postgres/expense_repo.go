package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = "id, user_id, description, amount, date, category_id, payment_method_id, is_recurring, receipt_key, created_at, updated_at"

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	var amount pgtype.Numeric
	err := row.Scan(&e.ID, &e.UserID, &e.Description, &amount, &e.Date, &e.CategoryID,
		&e.PaymentMethodID, &e.IsRecurring, &e.ReceiptKey, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	e.Amount = pgNumericToDecimal(amount)
	return &e, nil
}

// Create inserts a new expense
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (user_id, description, amount, date, category_id, payment_method_id, is_recurring)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+expenseColumns,
		expense.UserID, expense.Description, amount, expense.Date,
		expense.CategoryID, expense.PaymentMethodID, expense.IsRecurring)
	return scanExpense(row)
}

// GetByID retrieves an expense scoped to its owner
func (r *ExpenseRepository) GetByID(userID uuid.UUID, id int32) (*domain.Expense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE user_id = $1 AND id = $2", userID, id)
	return scanExpense(row)
}

// ListByUser retrieves the caller's expenses, newest date first
func (r *ExpenseRepository) ListByUser(userID uuid.UUID, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	ctx := context.Background()

	query := "SELECT " + expenseColumns + " FROM expenses WHERE user_id = $1"
	args := []interface{}{userID}

	if filters != nil {
		if filters.CategoryID != nil {
			args = append(args, *filters.CategoryID)
			query += fmt.Sprintf(" AND category_id = $%d", len(args))
		}
		if filters.StartDate != nil {
			args = append(args, *filters.StartDate)
			query += fmt.Sprintf(" AND date >= $%d", len(args))
		}
		if filters.EndDate != nil {
			args = append(args, *filters.EndDate)
			query += fmt.Sprintf(" AND date <= $%d", len(args))
		}
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// Update updates an expense scoped to its owner
func (r *ExpenseRepository) Update(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE expenses
		SET description = $3, amount = $4, date = $5, category_id = $6, payment_method_id = $7, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+expenseColumns,
		expense.UserID, expense.ID, expense.Description, amount, expense.Date,
		expense.CategoryID, expense.PaymentMethodID)
	return scanExpense(row)
}

// Delete removes an expense scoped to its owner
func (r *ExpenseRepository) Delete(userID uuid.UUID, id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, "DELETE FROM expenses WHERE user_id = $1 AND id = $2", userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// SetReceiptKey attaches or clears the stored receipt object key
func (r *ExpenseRepository) SetReceiptKey(userID uuid.UUID, id int32, key *string) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx,
		"UPDATE expenses SET receipt_key = $3, updated_at = now() WHERE user_id = $1 AND id = $2",
		userID, id, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// SumByCategoryAndDateRange sums amounts for one category, dates inclusive
func (r *ExpenseRepository) SumByCategoryAndDateRange(userID uuid.UUID, categoryID int32, start, end time.Time) (decimal.Decimal, error) {
	ctx := context.Background()

	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE user_id = $1 AND category_id = $2 AND date >= $3 AND date <= $4`,
		userID, categoryID, start, end).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(sum), nil
}

// CountByCategoryAndDateRange counts one category's expenses, dates inclusive
func (r *ExpenseRepository) CountByCategoryAndDateRange(userID uuid.UUID, categoryID int32, start, end time.Time) (int64, error) {
	ctx := context.Background()

	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM expenses
		WHERE user_id = $1 AND category_id = $2 AND date >= $3 AND date <= $4`,
		userID, categoryID, start, end).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountAndSumByDateRange counts and sums all expenses in a range, dates inclusive
func (r *ExpenseRepository) CountAndSumByDateRange(userID uuid.UUID, start, end time.Time) (int64, decimal.Decimal, error) {
	ctx := context.Background()

	var count int64
	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE user_id = $1 AND date >= $2 AND date <= $3`,
		userID, start, end).Scan(&count, &sum)
	if err != nil {
		return 0, decimal.Zero, err
	}
	return count, pgNumericToDecimal(sum), nil
}

// SpendByCategory aggregates spend per category over a range, dates inclusive
func (r *ExpenseRepository) SpendByCategory(userID uuid.UUID, start, end time.Time) ([]*domain.CategorySpend, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT category_id, SUM(amount), COUNT(*)
		FROM expenses
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		GROUP BY category_id
		ORDER BY SUM(amount) DESC`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.CategorySpend
	for rows.Next() {
		var cs domain.CategorySpend
		var total pgtype.Numeric
		if err := rows.Scan(&cs.CategoryID, &total, &cs.Count); err != nil {
			return nil, err
		}
		cs.Total = pgNumericToDecimal(total)
		result = append(result, &cs)
	}
	return result, rows.Err()
}
