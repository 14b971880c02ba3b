package postgres

import (
	"context"
	"errors"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentMethodRepository implements domain.PaymentMethodRepository using PostgreSQL
type PaymentMethodRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentMethodRepository creates a new PaymentMethodRepository
func NewPaymentMethodRepository(pool *pgxpool.Pool) *PaymentMethodRepository {
	return &PaymentMethodRepository{pool: pool}
}

func scanPaymentMethod(row pgx.Row) (*domain.PaymentMethod, error) {
	var m domain.PaymentMethod
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts a new payment method
func (r *PaymentMethodRepository) Create(method *domain.PaymentMethod) (*domain.PaymentMethod, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO payment_methods (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name, created_at, updated_at`,
		method.UserID, method.Name)
	m, err := scanPaymentMethod(row)
	if err != nil && isUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	return m, err
}

// GetByID retrieves a payment method scoped to its owner
func (r *PaymentMethodRepository) GetByID(userID uuid.UUID, id int32) (*domain.PaymentMethod, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		"SELECT id, user_id, name, created_at, updated_at FROM payment_methods WHERE user_id = $1 AND id = $2",
		userID, id)
	return scanPaymentMethod(row)
}

// ListByUser retrieves all payment methods for a user, name ascending
func (r *PaymentMethodRepository) ListByUser(userID uuid.UUID) ([]*domain.PaymentMethod, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx,
		"SELECT id, user_id, name, created_at, updated_at FROM payment_methods WHERE user_id = $1 ORDER BY name ASC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.PaymentMethod
	for rows.Next() {
		m, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// Delete removes a payment method scoped to its owner
func (r *PaymentMethodRepository) Delete(userID uuid.UUID, id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, "DELETE FROM payment_methods WHERE user_id = $1 AND id = $2", userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentMethodNotFound
	}
	return nil
}
