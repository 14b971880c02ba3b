package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        int32     `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(userID uuid.UUID, id int32) (*Category, error)
	// ListByUser returns categories ordered by name ascending.
	ListByUser(userID uuid.UUID) ([]*Category, error)
	Delete(userID uuid.UUID, id int32) error
	HasExpenses(userID uuid.UUID, id int32) (bool, error)
}
