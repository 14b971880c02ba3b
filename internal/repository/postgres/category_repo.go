package postgres

import (
	"context"
	"errors"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name, created_at, updated_at`,
		category.UserID, category.Name)
	c, err := scanCategory(row)
	if err != nil && isUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	return c, err
}

// GetByID retrieves a category scoped to its owner
func (r *CategoryRepository) GetByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		"SELECT id, user_id, name, created_at, updated_at FROM categories WHERE user_id = $1 AND id = $2",
		userID, id)
	return scanCategory(row)
}

// ListByUser retrieves all categories for a user, name ascending
func (r *CategoryRepository) ListByUser(userID uuid.UUID) ([]*domain.Category, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx,
		"SELECT id, user_id, name, created_at, updated_at FROM categories WHERE user_id = $1 ORDER BY name ASC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// Delete removes a category scoped to its owner
func (r *CategoryRepository) Delete(userID uuid.UUID, id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, "DELETE FROM categories WHERE user_id = $1 AND id = $2", userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// HasExpenses checks if any expense references the category
func (r *CategoryRepository) HasExpenses(userID uuid.UUID, id int32) (bool, error) {
	ctx := context.Background()

	var count int64
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM expenses WHERE user_id = $1 AND category_id = $2",
		userID, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
