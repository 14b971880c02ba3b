package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecurringRepository implements domain.RecurringRepository using PostgreSQL
type RecurringRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringRepository creates a new RecurringRepository
func NewRecurringRepository(pool *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{pool: pool}
}

const definitionColumns = "id, user_id, description, amount, category_id, payment_method_id, frequency, week_day, month_day, start_date, end_date, is_active, created_at, updated_at"

func scanDefinition(row pgx.Row) (*domain.RecurringDefinition, error) {
	var d domain.RecurringDefinition
	var amount pgtype.Numeric
	err := row.Scan(&d.ID, &d.UserID, &d.Description, &amount, &d.CategoryID,
		&d.PaymentMethodID, &d.Frequency, &d.WeekDay, &d.MonthDay,
		&d.StartDate, &d.EndDate, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDefinitionNotFound
		}
		return nil, err
	}
	d.Amount = pgNumericToDecimal(amount)
	return &d, nil
}

func scanInstance(row pgx.Row) (*domain.RecurringInstance, error) {
	var in domain.RecurringInstance
	err := row.Scan(&in.ID, &in.DefinitionID, &in.ScheduledDate, &in.Status, &in.ExpenseID, &in.GeneratedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInstanceNotFound
		}
		return nil, err
	}
	return &in, nil
}

// CreateDefinition inserts a new recurring definition
func (r *RecurringRepository) CreateDefinition(def *domain.RecurringDefinition) (*domain.RecurringDefinition, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(def.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO recurring_definitions
			(user_id, description, amount, category_id, payment_method_id, frequency, week_day, month_day, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+definitionColumns,
		def.UserID, def.Description, amount, def.CategoryID, def.PaymentMethodID,
		def.Frequency, def.WeekDay, def.MonthDay, def.StartDate, def.EndDate, def.IsActive)
	return scanDefinition(row)
}

// GetDefinition retrieves a definition scoped to its owner
func (r *RecurringRepository) GetDefinition(userID uuid.UUID, id int32) (*domain.RecurringDefinition, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		"SELECT "+definitionColumns+" FROM recurring_definitions WHERE user_id = $1 AND id = $2",
		userID, id)
	return scanDefinition(row)
}

// ListDefinitions retrieves a user's definitions, optionally active only
func (r *RecurringRepository) ListDefinitions(userID uuid.UUID, activeOnly bool) ([]*domain.RecurringDefinition, error) {
	ctx := context.Background()

	query := "SELECT " + definitionColumns + " FROM recurring_definitions WHERE user_id = $1"
	if activeOnly {
		query += " AND is_active"
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDefinitions(rows)
}

func collectDefinitions(rows pgx.Rows) ([]*domain.RecurringDefinition, error) {
	var result []*domain.RecurringDefinition
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// UpdateDefinition updates a definition scoped to its owner
func (r *RecurringRepository) UpdateDefinition(def *domain.RecurringDefinition) (*domain.RecurringDefinition, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(def.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE recurring_definitions
		SET description = $3, amount = $4, category_id = $5, payment_method_id = $6,
			frequency = $7, week_day = $8, month_day = $9, start_date = $10, end_date = $11,
			is_active = $12, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+definitionColumns,
		def.UserID, def.ID, def.Description, amount, def.CategoryID, def.PaymentMethodID,
		def.Frequency, def.WeekDay, def.MonthDay, def.StartDate, def.EndDate, def.IsActive)
	return scanDefinition(row)
}

// Deactivate turns off instantiation for a definition; history is untouched
func (r *RecurringRepository) Deactivate(userID uuid.UUID, id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx,
		"UPDATE recurring_definitions SET is_active = FALSE, updated_at = now() WHERE user_id = $1 AND id = $2",
		userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDefinitionNotFound
	}
	return nil
}

const instanceColumns = "id, definition_id, scheduled_date, status, expense_id, generated_at"

// CreateInstance inserts an instance row. The unique (definition, date)
// constraint is the authoritative duplicate guard; violations surface as
// ErrAlreadyExists so the engine can fall back to the existing row.
func (r *RecurringRepository) CreateInstance(instance *domain.RecurringInstance) (*domain.RecurringInstance, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO recurring_instances (definition_id, scheduled_date, status)
		VALUES ($1, $2, $3)
		RETURNING `+instanceColumns,
		instance.DefinitionID, instance.ScheduledDate, instance.Status)
	in, err := scanInstance(row)
	if err != nil && isUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	return in, err
}

// GetInstance retrieves the instance for a (definition, scheduled date) pair
func (r *RecurringRepository) GetInstance(definitionID int32, scheduledDate time.Time) (*domain.RecurringInstance, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		"SELECT "+instanceColumns+" FROM recurring_instances WHERE definition_id = $1 AND scheduled_date = $2",
		definitionID, scheduledDate)
	return scanInstance(row)
}

// GetInstanceByExpense reverse-looks-up the instance linked to an expense
func (r *RecurringRepository) GetInstanceByExpense(expenseID int32) (*domain.RecurringInstance, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		"SELECT "+instanceColumns+" FROM recurring_instances WHERE expense_id = $1",
		expenseID)
	return scanInstance(row)
}

// MarkGenerated links an instance to its materialized expense
func (r *RecurringRepository) MarkGenerated(instanceID int32, expenseID int32, generatedAt time.Time) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE recurring_instances
		SET status = $2, expense_id = $3, generated_at = $4
		WHERE id = $1`,
		instanceID, domain.InstanceStatusGenerated, expenseID, generatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInstanceNotFound
	}
	return nil
}

// MarkSkipped records that the occurrence was deleted without deactivating
// the definition. The expense link is cleared.
func (r *RecurringRepository) MarkSkipped(instanceID int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE recurring_instances
		SET status = $2, expense_id = NULL
		WHERE id = $1`,
		instanceID, domain.InstanceStatusSkipped)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInstanceNotFound
	}
	return nil
}
