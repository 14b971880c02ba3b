package testutil

import (
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	Expenses   map[int32]bool // category ID -> has expenses
	NextID     int32
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		Expenses:   make(map[int32]bool),
		NextID:     1,
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	for _, c := range m.Categories {
		if c.UserID == category.UserID && c.Name == category.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	category.ID = m.NextID
	m.NextID++
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok && c.UserID == userID {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// ListByUser retrieves all categories for a user
func (m *MockCategoryRepository) ListByUser(userID uuid.UUID) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, c := range m.Categories {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(userID uuid.UUID, id int32) error {
	if c, ok := m.Categories[id]; ok && c.UserID == userID {
		delete(m.Categories, id)
		return nil
	}
	return domain.ErrCategoryNotFound
}

// HasExpenses reports whether the category has linked expenses
func (m *MockCategoryRepository) HasExpenses(userID uuid.UUID, id int32) (bool, error) {
	return m.Expenses[id], nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
}

// MockPaymentMethodRepository is a mock implementation of domain.PaymentMethodRepository
type MockPaymentMethodRepository struct {
	Methods map[int32]*domain.PaymentMethod
	NextID  int32
}

// NewMockPaymentMethodRepository creates a new MockPaymentMethodRepository
func NewMockPaymentMethodRepository() *MockPaymentMethodRepository {
	return &MockPaymentMethodRepository{
		Methods: make(map[int32]*domain.PaymentMethod),
		NextID:  1,
	}
}

// Create creates a new payment method
func (m *MockPaymentMethodRepository) Create(method *domain.PaymentMethod) (*domain.PaymentMethod, error) {
	for _, pm := range m.Methods {
		if pm.UserID == method.UserID && pm.Name == method.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	method.ID = m.NextID
	m.NextID++
	m.Methods[method.ID] = method
	return method, nil
}

// GetByID retrieves a payment method by ID
func (m *MockPaymentMethodRepository) GetByID(userID uuid.UUID, id int32) (*domain.PaymentMethod, error) {
	if pm, ok := m.Methods[id]; ok && pm.UserID == userID {
		return pm, nil
	}
	return nil, domain.ErrPaymentMethodNotFound
}

// ListByUser retrieves all payment methods for a user
func (m *MockPaymentMethodRepository) ListByUser(userID uuid.UUID) ([]*domain.PaymentMethod, error) {
	var result []*domain.PaymentMethod
	for _, pm := range m.Methods {
		if pm.UserID == userID {
			result = append(result, pm)
		}
	}
	return result, nil
}

// Delete removes a payment method
func (m *MockPaymentMethodRepository) Delete(userID uuid.UUID, id int32) error {
	if pm, ok := m.Methods[id]; ok && pm.UserID == userID {
		delete(m.Methods, id)
		return nil
	}
	return domain.ErrPaymentMethodNotFound
}

// AddPaymentMethod adds a payment method to the mock repository (helper for tests)
func (m *MockPaymentMethodRepository) AddPaymentMethod(method *domain.PaymentMethod) {
	m.Methods[method.ID] = method
	if method.ID >= m.NextID {
		m.NextID = method.ID + 1
	}
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[int32]*domain.Expense
	NextID   int32
	CreateFn func(expense *domain.Expense) (*domain.Expense, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int32]*domain.Expense),
		NextID:   1,
	}
}

// Create creates a new expense
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	expense.ID = m.NextID
	m.NextID++
	expense.CreatedAt = time.Now().UTC()
	expense.UpdatedAt = expense.CreatedAt
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(userID uuid.UUID, id int32) (*domain.Expense, error) {
	if e, ok := m.Expenses[id]; ok && e.UserID == userID {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// ListByUser retrieves expenses for a user with optional filters
func (m *MockExpenseRepository) ListByUser(userID uuid.UUID, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	var result []*domain.Expense
	for _, e := range m.Expenses {
		if e.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.CategoryID != nil && e.CategoryID != *filters.CategoryID {
				continue
			}
			if filters.StartDate != nil && e.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && e.Date.After(*filters.EndDate) {
				continue
			}
		}
		result = append(result, e)
	}
	return result, nil
}

// Update updates an existing expense
func (m *MockExpenseRepository) Update(expense *domain.Expense) (*domain.Expense, error) {
	if e, ok := m.Expenses[expense.ID]; !ok || e.UserID != expense.UserID {
		return nil, domain.ErrExpenseNotFound
	}
	expense.UpdatedAt = time.Now().UTC()
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// Delete removes an expense
func (m *MockExpenseRepository) Delete(userID uuid.UUID, id int32) error {
	if e, ok := m.Expenses[id]; ok && e.UserID == userID {
		delete(m.Expenses, id)
		return nil
	}
	return domain.ErrExpenseNotFound
}

// SetReceiptKey sets or clears an expense's receipt key
func (m *MockExpenseRepository) SetReceiptKey(userID uuid.UUID, id int32, key *string) error {
	if e, ok := m.Expenses[id]; ok && e.UserID == userID {
		e.ReceiptKey = key
		return nil
	}
	return domain.ErrExpenseNotFound
}

// SumByCategoryAndDateRange sums one category's expenses in a date range
func (m *MockExpenseRepository) SumByCategoryAndDateRange(userID uuid.UUID, categoryID int32, start, end time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range m.Expenses {
		if e.UserID == userID && e.CategoryID == categoryID && inRange(e.Date, start, end) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// CountByCategoryAndDateRange counts one category's expenses in a date range
func (m *MockExpenseRepository) CountByCategoryAndDateRange(userID uuid.UUID, categoryID int32, start, end time.Time) (int64, error) {
	var count int64
	for _, e := range m.Expenses {
		if e.UserID == userID && e.CategoryID == categoryID && inRange(e.Date, start, end) {
			count++
		}
	}
	return count, nil
}

// CountAndSumByDateRange counts and sums expenses in a date range
func (m *MockExpenseRepository) CountAndSumByDateRange(userID uuid.UUID, start, end time.Time) (int64, decimal.Decimal, error) {
	var count int64
	total := decimal.Zero
	for _, e := range m.Expenses {
		if e.UserID == userID && inRange(e.Date, start, end) {
			count++
			total = total.Add(e.Amount)
		}
	}
	return count, total, nil
}

// SpendByCategory aggregates spend per category in a date range, largest first
func (m *MockExpenseRepository) SpendByCategory(userID uuid.UUID, start, end time.Time) ([]*domain.CategorySpend, error) {
	byCategory := make(map[int32]*domain.CategorySpend)
	for _, e := range m.Expenses {
		if e.UserID != userID || !inRange(e.Date, start, end) {
			continue
		}
		sp, ok := byCategory[e.CategoryID]
		if !ok {
			sp = &domain.CategorySpend{CategoryID: e.CategoryID, Total: decimal.Zero}
			byCategory[e.CategoryID] = sp
		}
		sp.Total = sp.Total.Add(e.Amount)
		sp.Count++
	}

	var result []*domain.CategorySpend
	for _, sp := range byCategory {
		result = append(result, sp)
	}
	// Largest total first, matching the store's ordering
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].Total.GreaterThan(result[i].Total) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func inRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	m.Expenses[expense.ID] = expense
	if expense.ID >= m.NextID {
		m.NextID = expense.ID + 1
	}
}

// MockRecurringRepository is a mock implementation of domain.RecurringRepository
type MockRecurringRepository struct {
	Definitions map[int32]*domain.RecurringDefinition
	Instances   map[int32]*domain.RecurringInstance
	NextDefID   int32
	NextInstID  int32
}

// NewMockRecurringRepository creates a new MockRecurringRepository
func NewMockRecurringRepository() *MockRecurringRepository {
	return &MockRecurringRepository{
		Definitions: make(map[int32]*domain.RecurringDefinition),
		Instances:   make(map[int32]*domain.RecurringInstance),
		NextDefID:   1,
		NextInstID:  1,
	}
}

// CreateDefinition creates a new definition
func (m *MockRecurringRepository) CreateDefinition(def *domain.RecurringDefinition) (*domain.RecurringDefinition, error) {
	def.ID = m.NextDefID
	m.NextDefID++
	m.Definitions[def.ID] = def
	return def, nil
}

// GetDefinition retrieves a definition by ID
func (m *MockRecurringRepository) GetDefinition(userID uuid.UUID, id int32) (*domain.RecurringDefinition, error) {
	if d, ok := m.Definitions[id]; ok && d.UserID == userID {
		return d, nil
	}
	return nil, domain.ErrDefinitionNotFound
}

// ListDefinitions retrieves a user's definitions
func (m *MockRecurringRepository) ListDefinitions(userID uuid.UUID, activeOnly bool) ([]*domain.RecurringDefinition, error) {
	var result []*domain.RecurringDefinition
	for _, d := range m.Definitions {
		if d.UserID != userID {
			continue
		}
		if activeOnly && !d.IsActive {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

// UpdateDefinition updates a definition
func (m *MockRecurringRepository) UpdateDefinition(def *domain.RecurringDefinition) (*domain.RecurringDefinition, error) {
	if d, ok := m.Definitions[def.ID]; !ok || d.UserID != def.UserID {
		return nil, domain.ErrDefinitionNotFound
	}
	m.Definitions[def.ID] = def
	return def, nil
}

// Deactivate turns off instantiation for a definition
func (m *MockRecurringRepository) Deactivate(userID uuid.UUID, id int32) error {
	if d, ok := m.Definitions[id]; ok && d.UserID == userID {
		d.IsActive = false
		return nil
	}
	return domain.ErrDefinitionNotFound
}

// CreateInstance creates an instance, enforcing (definition, date) uniqueness
func (m *MockRecurringRepository) CreateInstance(instance *domain.RecurringInstance) (*domain.RecurringInstance, error) {
	for _, in := range m.Instances {
		if in.DefinitionID == instance.DefinitionID && in.ScheduledDate.Equal(instance.ScheduledDate) {
			return nil, domain.ErrAlreadyExists
		}
	}
	instance.ID = m.NextInstID
	m.NextInstID++
	m.Instances[instance.ID] = instance
	return instance, nil
}

// GetInstance retrieves the instance for a (definition, scheduled date) pair
func (m *MockRecurringRepository) GetInstance(definitionID int32, scheduledDate time.Time) (*domain.RecurringInstance, error) {
	for _, in := range m.Instances {
		if in.DefinitionID == definitionID && in.ScheduledDate.Equal(scheduledDate) {
			return in, nil
		}
	}
	return nil, domain.ErrInstanceNotFound
}

// GetInstanceByExpense retrieves the instance linked to an expense
func (m *MockRecurringRepository) GetInstanceByExpense(expenseID int32) (*domain.RecurringInstance, error) {
	for _, in := range m.Instances {
		if in.ExpenseID != nil && *in.ExpenseID == expenseID {
			return in, nil
		}
	}
	return nil, domain.ErrInstanceNotFound
}

// MarkGenerated links an instance to its materialized expense
func (m *MockRecurringRepository) MarkGenerated(instanceID int32, expenseID int32, generatedAt time.Time) error {
	in, ok := m.Instances[instanceID]
	if !ok {
		return domain.ErrInstanceNotFound
	}
	in.Status = domain.InstanceStatusGenerated
	in.ExpenseID = &expenseID
	in.GeneratedAt = &generatedAt
	return nil
}

// MarkSkipped marks an instance as skipped and clears the expense link
func (m *MockRecurringRepository) MarkSkipped(instanceID int32) error {
	in, ok := m.Instances[instanceID]
	if !ok {
		return domain.ErrInstanceNotFound
	}
	in.Status = domain.InstanceStatusSkipped
	in.ExpenseID = nil
	return nil
}

// AddDefinition adds a definition to the mock repository (helper for tests)
func (m *MockRecurringRepository) AddDefinition(def *domain.RecurringDefinition) {
	m.Definitions[def.ID] = def
	if def.ID >= m.NextDefID {
		m.NextDefID = def.ID + 1
	}
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Monthly         map[int32]*domain.MonthlyBudget
	CategoryBudgets map[int32]*domain.CategoryBudget
	NextMonthlyID   int32
	NextCategoryID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Monthly:         make(map[int32]*domain.MonthlyBudget),
		CategoryBudgets: make(map[int32]*domain.CategoryBudget),
		NextMonthlyID:   1,
		NextCategoryID:  1,
	}
}

// CreateMonthly creates a monthly budget, enforcing (user, year, month) uniqueness
func (m *MockBudgetRepository) CreateMonthly(budget *domain.MonthlyBudget) (*domain.MonthlyBudget, error) {
	for _, b := range m.Monthly {
		if b.UserID == budget.UserID && b.Year == budget.Year && b.Month == budget.Month {
			return nil, domain.ErrMonthExists
		}
	}
	budget.ID = m.NextMonthlyID
	m.NextMonthlyID++
	m.Monthly[budget.ID] = budget
	return budget, nil
}

// GetMonthlyByID retrieves a monthly budget by ID
func (m *MockBudgetRepository) GetMonthlyByID(userID uuid.UUID, id int32) (*domain.MonthlyBudget, error) {
	if b, ok := m.Monthly[id]; ok && b.UserID == userID {
		return b, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// GetMonthlyByYearMonth retrieves a monthly budget by (year, month)
func (m *MockBudgetRepository) GetMonthlyByYearMonth(userID uuid.UUID, year, month int) (*domain.MonthlyBudget, error) {
	for _, b := range m.Monthly {
		if b.UserID == userID && b.Year == year && b.Month == month {
			return b, nil
		}
	}
	return nil, domain.ErrBudgetNotFound
}

// ListMonthly retrieves all monthly budgets for a user
func (m *MockBudgetRepository) ListMonthly(userID uuid.UUID) ([]*domain.MonthlyBudget, error) {
	var result []*domain.MonthlyBudget
	for _, b := range m.Monthly {
		if b.UserID == userID {
			result = append(result, b)
		}
	}
	return result, nil
}

// CountMonthlyByYear counts a user's budgets within one year
func (m *MockBudgetRepository) CountMonthlyByYear(userID uuid.UUID, year int) (int, error) {
	count := 0
	for _, b := range m.Monthly {
		if b.UserID == userID && b.Year == year {
			count++
		}
	}
	return count, nil
}

// AddMonthlyBudget adds a monthly budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddMonthlyBudget(budget *domain.MonthlyBudget) {
	m.Monthly[budget.ID] = budget
	if budget.ID >= m.NextMonthlyID {
		m.NextMonthlyID = budget.ID + 1
	}
}

// CreateCategoryBudget creates a category ceiling
func (m *MockBudgetRepository) CreateCategoryBudget(cb *domain.CategoryBudget) (*domain.CategoryBudget, error) {
	for _, existing := range m.CategoryBudgets {
		if existing.MonthlyBudgetID == cb.MonthlyBudgetID && existing.CategoryID == cb.CategoryID {
			return nil, domain.ErrBudgetExists
		}
	}
	cb.ID = m.NextCategoryID
	m.NextCategoryID++
	m.CategoryBudgets[cb.ID] = cb
	return cb, nil
}

// GetCategoryBudget retrieves a category budget by ID
func (m *MockBudgetRepository) GetCategoryBudget(userID uuid.UUID, id int32) (*domain.CategoryBudget, error) {
	if cb, ok := m.CategoryBudgets[id]; ok && cb.UserID == userID {
		return cb, nil
	}
	return nil, domain.ErrCategoryBudgetNotFound
}

// ListCategoryBudgets retrieves the ceilings inside one monthly budget
func (m *MockBudgetRepository) ListCategoryBudgets(userID uuid.UUID, monthlyBudgetID int32) ([]*domain.CategoryBudget, error) {
	var result []*domain.CategoryBudget
	for _, cb := range m.CategoryBudgets {
		if cb.UserID == userID && cb.MonthlyBudgetID == monthlyBudgetID {
			result = append(result, cb)
		}
	}
	return result, nil
}

// CategoryBudgetExists checks (monthly budget, category) uniqueness
func (m *MockBudgetRepository) CategoryBudgetExists(monthlyBudgetID, categoryID int32) (bool, error) {
	for _, cb := range m.CategoryBudgets {
		if cb.MonthlyBudgetID == monthlyBudgetID && cb.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

// AddCategoryBudget adds a category budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddCategoryBudget(cb *domain.CategoryBudget) {
	m.CategoryBudgets[cb.ID] = cb
	if cb.ID >= m.NextCategoryID {
		m.NextCategoryID = cb.ID + 1
	}
}

// DeleteCategoryBudget removes a category budget
func (m *MockBudgetRepository) DeleteCategoryBudget(userID uuid.UUID, id int32) error {
	if cb, ok := m.CategoryBudgets[id]; ok && cb.UserID == userID {
		delete(m.CategoryBudgets, id)
		return nil
	}
	return domain.ErrCategoryBudgetNotFound
}
