package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	// EventTypeGenerated marks expenses materialized from a recurring schedule
	EventTypeGenerated EventType = "generated"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeExpense        EntityType = "expense"
	EntityTypeCategory       EntityType = "category"
	EntityTypePaymentMethod  EntityType = "payment_method"
	EntityTypeRecurring      EntityType = "recurring"
	EntityTypeBudget         EntityType = "budget"
	EntityTypeCategoryBudget EntityType = "category_budget"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "expense.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "expense"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseUpdated creates an expense.updated event
func ExpenseUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// ExpenseGenerated creates an expense.generated event
func ExpenseGenerated(payload interface{}) Event {
	return NewEvent(EventTypeGenerated, EntityTypeExpense, payload)
}

// RecurringCreated creates a recurring.created event
func RecurringCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeRecurring, payload)
}

// RecurringUpdated creates a recurring.updated event
func RecurringUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeRecurring, payload)
}

// RecurringDeleted creates a recurring.deleted event
func RecurringDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeRecurring, payload)
}

// BudgetCreated creates a budget.created event
func BudgetCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBudget, payload)
}

// CategoryBudgetCreated creates a category_budget.created event
func CategoryBudgetCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCategoryBudget, payload)
}

// CategoryBudgetDeleted creates a category_budget.deleted event
func CategoryBudgetDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeCategoryBudget, payload)
}
