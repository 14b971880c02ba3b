package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod struct {
	ID        int32     `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PaymentMethodRepository interface {
	Create(method *PaymentMethod) (*PaymentMethod, error)
	GetByID(userID uuid.UUID, id int32) (*PaymentMethod, error)
	// ListByUser returns payment methods ordered by name ascending.
	ListByUser(userID uuid.UUID) ([]*PaymentMethod, error)
	Delete(userID uuid.UUID, id int32) error
}
