package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/service"
	"github.com/afuentes/gastolog/gastolog-backend/internal/testutil"
	ws "github.com/afuentes/gastolog/gastolog-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func setupRecurringHandlerTest() (*RecurringHandler, *testutil.MockRecurringRepository, *testutil.MockExpenseRepository, *testutil.MockCategoryRepository, *testutil.MockPaymentMethodRepository) {
	recurringRepo := testutil.NewMockRecurringRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	methodRepo := testutil.NewMockPaymentMethodRepository()
	recurrenceService := service.NewRecurrenceService(recurringRepo, expenseRepo, categoryRepo, methodRepo, zerolog.Nop())
	handler := NewRecurringHandler(recurrenceService, &ws.NoOpPublisher{})
	return handler, recurringRepo, expenseRepo, categoryRepo, methodRepo
}

func TestCreateDefinition_Handler_Success(t *testing.T) {
	e := echo.New()
	handler, _, _, categoryRepo, methodRepo := setupRecurringHandlerTest()

	userID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Servicios"})
	methodRepo.AddPaymentMethod(&domain.PaymentMethod{ID: 1, UserID: userID, Name: "Debito"})

	reqBody := `{"description": "Internet", "amount": "45.00", "categoryId": 1, "paymentMethodId": 1, "frequency": "monthly", "monthDay": 5, "startDate": "2026-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recurring-expenses", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", "", userID)

	err := handler.CreateDefinition(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var def domain.RecurringDefinition
	if err := json.Unmarshal(rec.Body.Bytes(), &def); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if def.Frequency != domain.FrequencyMonthly {
		t.Errorf("Expected frequency 'monthly', got %s", def.Frequency)
	}
	if !def.IsActive {
		t.Error("Expected new definition to be active")
	}
}

func TestCreateDefinition_Handler_BadFrequency(t *testing.T) {
	e := echo.New()
	handler, _, _, categoryRepo, methodRepo := setupRecurringHandlerTest()

	userID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Servicios"})
	methodRepo.AddPaymentMethod(&domain.PaymentMethod{ID: 1, UserID: userID, Name: "Debito"})

	reqBody := `{"description": "Internet", "amount": "45.00", "categoryId": 1, "paymentMethodId": 1, "frequency": "daily", "startDate": "2026-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recurring-expenses", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", "", userID)

	err := handler.CreateDefinition(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(problem.Errors) == 0 || problem.Errors[0].Field != "frequency" {
		t.Error("Expected a frequency validation error")
	}
}

func TestCreateDefinition_Handler_MismatchedAnchor(t *testing.T) {
	e := echo.New()
	handler, _, _, categoryRepo, methodRepo := setupRecurringHandlerTest()

	userID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Servicios"})
	methodRepo.AddPaymentMethod(&domain.PaymentMethod{ID: 1, UserID: userID, Name: "Debito"})

	// Weekly frequency with a month anchor
	reqBody := `{"description": "Internet", "amount": "45.00", "categoryId": 1, "paymentMethodId": 1, "frequency": "weekly", "monthDay": 5, "startDate": "2026-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recurring-expenses", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", "", userID)

	err := handler.CreateDefinition(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetDefinitions_Handler_ActiveFilter(t *testing.T) {
	e := echo.New()
	handler, recurringRepo, _, _, _ := setupRecurringHandlerTest()

	userID := uuid.New()
	monthDay := 5
	recurringRepo.AddDefinition(&domain.RecurringDefinition{
		ID: 1, UserID: userID, Description: "Activa", Frequency: domain.FrequencyMonthly,
		MonthDay: &monthDay, StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: true,
	})
	recurringRepo.AddDefinition(&domain.RecurringDefinition{
		ID: 2, UserID: userID, Description: "Inactiva", Frequency: domain.FrequencyMonthly,
		MonthDay: &monthDay, StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: false,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recurring-expenses?active=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", "", userID)

	err := handler.GetDefinitions(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var defs []domain.RecurringDefinition
	if err := json.Unmarshal(rec.Body.Bytes(), &defs); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("Expected 1 definition, got %d", len(defs))
	}
	if defs[0].Description != "Activa" {
		t.Errorf("Expected the active definition, got %s", defs[0].Description)
	}
}

func TestDeactivateDefinition_Handler(t *testing.T) {
	e := echo.New()
	handler, recurringRepo, _, _, _ := setupRecurringHandlerTest()

	userID := uuid.New()
	monthDay := 5
	recurringRepo.AddDefinition(&domain.RecurringDefinition{
		ID: 1, UserID: userID, Frequency: domain.FrequencyMonthly, MonthDay: &monthDay,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: true,
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/recurring-expenses/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", "", userID)

	err := handler.DeactivateDefinition(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if recurringRepo.Definitions[1].IsActive {
		t.Error("Expected definition to be deactivated")
	}
}

func TestProcessDue_Handler(t *testing.T) {
	e := echo.New()
	handler, recurringRepo, expenseRepo, _, _ := setupRecurringHandlerTest()

	userID := uuid.New()
	monthDay := 1
	recurringRepo.AddDefinition(&domain.RecurringDefinition{
		ID: 1, UserID: userID, Description: "Alquiler", Amount: decimal.NewFromInt(800),
		CategoryID: 1, PaymentMethodID: 1, Frequency: domain.FrequencyMonthly, MonthDay: &monthDay,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: true,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recurring-expenses/process?asOf=2026-02-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", "", userID)

	err := handler.ProcessDue(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var result service.ProcessResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if result.Checked != 1 {
		t.Errorf("Expected 1 checked, got %d", result.Checked)
	}
	if result.Generated != 1 {
		t.Errorf("Expected 1 generated, got %d", result.Generated)
	}
	if len(expenseRepo.Expenses) != 1 {
		t.Errorf("Expected 1 expense in store, got %d", len(expenseRepo.Expenses))
	}
}

func TestProcessDue_Handler_BadDate(t *testing.T) {
	e := echo.New()
	handler, _, _, _, _ := setupRecurringHandlerTest()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recurring-expenses/process?asOf=not-a-date", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", "", uuid.New())

	err := handler.ProcessDue(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetInstanceInfo_Handler_NotRecurring(t *testing.T) {
	e := echo.New()
	handler, _, expenseRepo, _, _ := setupRecurringHandlerTest()

	userID := uuid.New()
	expenseRepo.AddExpense(&domain.Expense{
		ID: 1, UserID: userID, Amount: decimal.NewFromInt(10),
		Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recurring-instance-info?gastoId=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", "", userID)

	err := handler.GetInstanceInfo(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// An unlinked expense is not an error: the client gets a null linkage
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	raw, ok := body["recurringDefinitionId"]
	if !ok {
		t.Fatal("Expected recurringDefinitionId field in response")
	}
	if string(raw) != "null" {
		t.Errorf("Expected recurringDefinitionId null, got %s", raw)
	}
}

func TestGetInstanceInfo_Handler_Linked(t *testing.T) {
	e := echo.New()
	handler, recurringRepo, expenseRepo, _, _ := setupRecurringHandlerTest()

	userID := uuid.New()
	monthDay := 1
	recurringRepo.AddDefinition(&domain.RecurringDefinition{
		ID: 1, UserID: userID, Description: "Alquiler", Amount: decimal.NewFromInt(800),
		CategoryID: 1, PaymentMethodID: 1, Frequency: domain.FrequencyMonthly, MonthDay: &monthDay,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: true,
	})
	expenseRepo.AddExpense(&domain.Expense{
		ID: 1, UserID: userID, Amount: decimal.NewFromInt(800), IsRecurring: true,
		Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	expenseID := int32(1)
	if _, err := recurringRepo.CreateInstance(&domain.RecurringInstance{
		DefinitionID:  1,
		ScheduledDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:        domain.InstanceStatusGenerated,
		ExpenseID:     &expenseID,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recurring-instance-info?gastoId=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", "", userID)

	err := handler.GetInstanceInfo(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var info InstanceInfoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if info.RecurringDefinitionID == nil || *info.RecurringDefinitionID != 1 {
		t.Error("Expected recurringDefinitionId 1")
	}
	if info.Definition == nil || info.Definition.Description != "Alquiler" {
		t.Error("Expected the linked definition to ride along")
	}
}

func TestGetInstanceInfo_Handler_MissingParam(t *testing.T) {
	e := echo.New()
	handler, _, _, _, _ := setupRecurringHandlerTest()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recurring-instance-info", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", "", uuid.New())

	err := handler.GetInstanceInfo(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
