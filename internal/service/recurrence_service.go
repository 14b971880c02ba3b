package service

import (
	"errors"
	"strings"
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RecurrenceService owns recurring definitions and materializes their
// occurrences into real expenses.
type RecurrenceService struct {
	recurringRepo domain.RecurringRepository
	expenseRepo   domain.ExpenseRepository
	categoryRepo  domain.CategoryRepository
	methodRepo    domain.PaymentMethodRepository
	logger        zerolog.Logger
}

// NewRecurrenceService creates a new RecurrenceService
func NewRecurrenceService(recurringRepo domain.RecurringRepository, expenseRepo domain.ExpenseRepository, categoryRepo domain.CategoryRepository, methodRepo domain.PaymentMethodRepository, logger zerolog.Logger) *RecurrenceService {
	return &RecurrenceService{
		recurringRepo: recurringRepo,
		expenseRepo:   expenseRepo,
		categoryRepo:  categoryRepo,
		methodRepo:    methodRepo,
		logger:        logger,
	}
}

// DefinitionInput holds the input for creating or updating a definition
type DefinitionInput struct {
	Description     string
	Amount          decimal.Decimal
	CategoryID      int32
	PaymentMethodID int32
	Frequency       domain.Frequency
	WeekDay         *int
	MonthDay        *int
	StartDate       time.Time
	EndDate         *time.Time
}

// CreateDefinition creates a new recurring definition with validation
func (s *RecurrenceService) CreateDefinition(userID uuid.UUID, input DefinitionInput) (*domain.RecurringDefinition, error) {
	def, err := s.buildDefinition(userID, input)
	if err != nil {
		return nil, err
	}
	def.IsActive = true
	return s.recurringRepo.CreateDefinition(def)
}

// UpdateDefinition updates an existing definition with validation. The
// active flag is preserved; use DeactivateDefinition to stop generation.
func (s *RecurrenceService) UpdateDefinition(userID uuid.UUID, id int32, input DefinitionInput) (*domain.RecurringDefinition, error) {
	existing, err := s.recurringRepo.GetDefinition(userID, id)
	if err != nil {
		return nil, err
	}

	def, err := s.buildDefinition(userID, input)
	if err != nil {
		return nil, err
	}
	def.ID = existing.ID
	def.IsActive = existing.IsActive

	return s.recurringRepo.UpdateDefinition(def)
}

func (s *RecurrenceService) buildDefinition(userID uuid.UUID, input DefinitionInput) (*domain.RecurringDefinition, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrNameRequired
	}
	if len(description) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.categoryRepo.GetByID(userID, input.CategoryID); err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	if _, err := s.methodRepo.GetByID(userID, input.PaymentMethodID); err != nil {
		return nil, domain.ErrPaymentMethodNotFound
	}

	def := &domain.RecurringDefinition{
		UserID:          userID,
		Description:     description,
		Amount:          input.Amount,
		CategoryID:      input.CategoryID,
		PaymentMethodID: input.PaymentMethodID,
		Frequency:       input.Frequency,
		WeekDay:         input.WeekDay,
		MonthDay:        input.MonthDay,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
	}
	if err := def.ValidateSchedule(); err != nil {
		return nil, err
	}
	return def, nil
}

// GetDefinitions retrieves a user's definitions, optionally active only
func (s *RecurrenceService) GetDefinitions(userID uuid.UUID, activeOnly bool) ([]*domain.RecurringDefinition, error) {
	return s.recurringRepo.ListDefinitions(userID, activeOnly)
}

// GetDefinitionByID retrieves a definition by ID
func (s *RecurrenceService) GetDefinitionByID(userID uuid.UUID, id int32) (*domain.RecurringDefinition, error) {
	return s.recurringRepo.GetDefinition(userID, id)
}

// DeactivateDefinition stops future generation; history is untouched
func (s *RecurrenceService) DeactivateDefinition(userID uuid.UUID, id int32) error {
	return s.recurringRepo.Deactivate(userID, id)
}

// IsDue reports whether a definition has an occurrence on the as-of date.
// The decision depends only on the definition and the date, never on the
// wall clock.
func (s *RecurrenceService) IsDue(def *domain.RecurringDefinition, asOf time.Time) bool {
	if !def.IsActive {
		return false
	}
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(def.StartDate) {
		return false
	}
	if def.EndDate != nil && day.After(*def.EndDate) {
		return false
	}

	switch def.Frequency {
	case domain.FrequencyWeekly:
		return def.WeekDay != nil && util.ISOWeekday(day) == *def.WeekDay
	case domain.FrequencyMonthly:
		return def.MonthDay != nil && day.Day() == *def.MonthDay
	}
	return false
}

// MaterializeResult reports what one materialization attempt did
type MaterializeResult struct {
	Instance *domain.RecurringInstance
	Expense  *domain.Expense
	Created  bool
}

// Materialize turns one due occurrence into an expense, exactly once per
// (definition, scheduled date). Re-running is a no-op: generated occurrences
// return the existing link, skipped occurrences stay deleted.
func (s *RecurrenceService) Materialize(def *domain.RecurringDefinition, scheduledDate time.Time) (*MaterializeResult, error) {
	scheduledDate = time.Date(scheduledDate.Year(), scheduledDate.Month(), scheduledDate.Day(), 0, 0, 0, 0, time.UTC)

	instance, err := s.recurringRepo.GetInstance(def.ID, scheduledDate)
	if err != nil && !errors.Is(err, domain.ErrInstanceNotFound) {
		return nil, err
	}

	if instance == nil {
		instance, err = s.recurringRepo.CreateInstance(&domain.RecurringInstance{
			DefinitionID:  def.ID,
			ScheduledDate: scheduledDate,
			Status:        domain.InstanceStatusPending,
		})
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost the race against a concurrent sweep; use its row
			instance, err = s.recurringRepo.GetInstance(def.ID, scheduledDate)
		}
		if err != nil {
			return nil, err
		}
	}

	switch instance.Status {
	case domain.InstanceStatusGenerated:
		var expense *domain.Expense
		if instance.ExpenseID != nil {
			expense, err = s.expenseRepo.GetByID(def.UserID, *instance.ExpenseID)
			if err != nil && !errors.Is(err, domain.ErrExpenseNotFound) {
				return nil, err
			}
		}
		return &MaterializeResult{Instance: instance, Expense: expense}, nil
	case domain.InstanceStatusSkipped:
		return &MaterializeResult{Instance: instance}, nil
	}

	expense, err := s.expenseRepo.Create(&domain.Expense{
		UserID:          def.UserID,
		Description:     def.Description,
		Amount:          def.Amount,
		Date:            scheduledDate,
		CategoryID:      def.CategoryID,
		PaymentMethodID: def.PaymentMethodID,
		IsRecurring:     true,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.recurringRepo.MarkGenerated(instance.ID, expense.ID, now); err != nil {
		return nil, err
	}
	instance.Status = domain.InstanceStatusGenerated
	instance.ExpenseID = &expense.ID
	instance.GeneratedAt = &now

	return &MaterializeResult{Instance: instance, Expense: expense, Created: true}, nil
}

// ProcessResult summarizes one due-processing sweep
type ProcessResult struct {
	Checked   int `json:"checked"`
	Generated int `json:"generated"`
}

// ProcessDue sweeps the user's active definitions and materializes the ones
// due on the as-of date. Safe to run repeatedly for the same date.
func (s *RecurrenceService) ProcessDue(userID uuid.UUID, asOf time.Time) (*ProcessResult, error) {
	defs, err := s.recurringRepo.ListDefinitions(userID, true)
	if err != nil {
		return nil, err
	}

	result := &ProcessResult{Checked: len(defs)}
	for _, def := range defs {
		if !s.IsDue(def, asOf) {
			continue
		}
		res, err := s.Materialize(def, asOf)
		if err != nil {
			// One broken definition must not block the rest of the sweep
			s.logger.Error().Err(err).Int32("definition_id", def.ID).Msg("failed to materialize occurrence")
			continue
		}
		if res.Created {
			result.Generated++
		}
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Time("as_of", asOf).
		Int("checked", result.Checked).
		Int("generated", result.Generated).
		Msg("recurring sweep completed")

	return result, nil
}

// InstanceInfo links a materialized expense back to its schedule
type InstanceInfo struct {
	Instance   *domain.RecurringInstance   `json:"instance"`
	Definition *domain.RecurringDefinition `json:"definition"`
}

// GetInstanceInfo resolves the recurring context of an expense, for clients
// deciding between occurrence and series deletion.
func (s *RecurrenceService) GetInstanceInfo(userID uuid.UUID, expenseID int32) (*InstanceInfo, error) {
	// Ownership check before touching instance data
	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return nil, err
	}
	if !expense.IsRecurring {
		return nil, domain.ErrInstanceNotFound
	}

	instance, err := s.recurringRepo.GetInstanceByExpense(expenseID)
	if err != nil {
		return nil, err
	}

	def, err := s.recurringRepo.GetDefinition(userID, instance.DefinitionID)
	if err != nil {
		return nil, err
	}

	return &InstanceInfo{Instance: instance, Definition: def}, nil
}
