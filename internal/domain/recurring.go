package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Week day anchors follow ISO-8601: 1=Monday .. 7=Sunday.
const (
	MinWeekDay = 1
	MaxWeekDay = 7
)

// Month day anchors are capped at 28 so the anchor exists in every month.
const (
	MinMonthDay = 1
	MaxMonthDay = 28
)

// RecurringDefinition is the template a recurring expense is generated from.
// Exactly one of WeekDay/MonthDay is set, matching Frequency.
type RecurringDefinition struct {
	ID              int32           `json:"id"`
	UserID          uuid.UUID       `json:"-"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	CategoryID      int32           `json:"categoryId"`
	PaymentMethodID int32           `json:"paymentMethodId"`
	Frequency       Frequency       `json:"frequency"`
	WeekDay         *int            `json:"weekDay,omitempty"`
	MonthDay        *int            `json:"monthDay,omitempty"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ValidateSchedule enforces the tagged-variant invariant: the anchor that
// matches the frequency must be set and in range, the other must be absent.
func (d *RecurringDefinition) ValidateSchedule() error {
	switch d.Frequency {
	case FrequencyWeekly:
		if d.MonthDay != nil {
			return ErrInvalidAnchor
		}
		if d.WeekDay == nil || *d.WeekDay < MinWeekDay || *d.WeekDay > MaxWeekDay {
			return ErrInvalidAnchor
		}
	case FrequencyMonthly:
		if d.WeekDay != nil {
			return ErrInvalidAnchor
		}
		if d.MonthDay == nil || *d.MonthDay < MinMonthDay || *d.MonthDay > MaxMonthDay {
			return ErrInvalidAnchor
		}
	default:
		return ErrInvalidFrequency
	}
	if d.EndDate != nil && d.EndDate.Before(d.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

type InstanceStatus string

const (
	InstanceStatusPending   InstanceStatus = "pending"
	InstanceStatusGenerated InstanceStatus = "generated"
	InstanceStatusSkipped   InstanceStatus = "skipped"
)

// RecurringInstance is one concrete occurrence of a definition. At most one
// instance exists per (definition, scheduled date); the store enforces this
// with a uniqueness constraint and the engine checks it as a fast path.
type RecurringInstance struct {
	ID            int32          `json:"id"`
	DefinitionID  int32          `json:"definitionId"`
	ScheduledDate time.Time      `json:"scheduledDate"`
	Status        InstanceStatus `json:"status"`
	ExpenseID     *int32         `json:"expenseId,omitempty"`
	GeneratedAt   *time.Time     `json:"generatedAt,omitempty"`
}

type RecurringRepository interface {
	CreateDefinition(def *RecurringDefinition) (*RecurringDefinition, error)
	GetDefinition(userID uuid.UUID, id int32) (*RecurringDefinition, error)
	ListDefinitions(userID uuid.UUID, activeOnly bool) ([]*RecurringDefinition, error)
	UpdateDefinition(def *RecurringDefinition) (*RecurringDefinition, error)
	Deactivate(userID uuid.UUID, id int32) error

	CreateInstance(instance *RecurringInstance) (*RecurringInstance, error)
	GetInstance(definitionID int32, scheduledDate time.Time) (*RecurringInstance, error)
	GetInstanceByExpense(expenseID int32) (*RecurringInstance, error)
	MarkGenerated(instanceID int32, expenseID int32, generatedAt time.Time) error
	MarkSkipped(instanceID int32) error
}
