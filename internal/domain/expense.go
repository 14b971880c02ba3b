package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID              int32           `json:"id"`
	UserID          uuid.UUID       `json:"-"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	CategoryID      int32           `json:"categoryId"`
	PaymentMethodID int32           `json:"paymentMethodId"`
	IsRecurring     bool            `json:"isRecurring"`
	ReceiptKey      *string         `json:"-"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ExpenseFilters narrows List results. Date range is inclusive on both ends;
// zero-value fields are ignored.
type ExpenseFilters struct {
	CategoryID *int32
	StartDate  *time.Time
	EndDate    *time.Time
}

// CategorySpend is the aggregate of one category over a date range.
type CategorySpend struct {
	CategoryID int32
	Total      decimal.Decimal
	Count      int64
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(userID uuid.UUID, id int32) (*Expense, error)
	ListByUser(userID uuid.UUID, filters *ExpenseFilters) ([]*Expense, error)
	Update(expense *Expense) (*Expense, error)
	Delete(userID uuid.UUID, id int32) error
	SetReceiptKey(userID uuid.UUID, id int32, key *string) error

	SumByCategoryAndDateRange(userID uuid.UUID, categoryID int32, start, end time.Time) (decimal.Decimal, error)
	CountByCategoryAndDateRange(userID uuid.UUID, categoryID int32, start, end time.Time) (int64, error)
	CountAndSumByDateRange(userID uuid.UUID, start, end time.Time) (int64, decimal.Decimal, error)
	SpendByCategory(userID uuid.UUID, start, end time.Time) ([]*CategorySpend, error)
}
