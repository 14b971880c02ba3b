package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/testutil"
	"github.com/google/uuid"
)

func TestCreateCategory_Success(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)

	userID := uuid.New()
	category, err := service.CreateCategory(userID, "Comida")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.Name != "Comida" {
		t.Errorf("Expected name 'Comida', got %s", category.Name)
	}
	if category.ID == 0 {
		t.Error("Expected category ID to be assigned")
	}
}

func TestCreateCategory_TrimsName(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)

	category, err := service.CreateCategory(uuid.New(), "  Transporte  ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.Name != "Transporte" {
		t.Errorf("Expected trimmed name 'Transporte', got %q", category.Name)
	}
}

func TestCreateCategory_EmptyName(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)

	_, err := service.CreateCategory(uuid.New(), "   ")
	if !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestCreateCategory_NameTooLong(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)

	_, err := service.CreateCategory(uuid.New(), strings.Repeat("a", domain.MaxNameLength+1))
	if !errors.Is(err, domain.ErrNameTooLong) {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)

	userID := uuid.New()
	if _, err := service.CreateCategory(userID, "Comida"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := service.CreateCategory(userID, "Comida")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateCategory_SameNameDifferentUsers(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)

	if _, err := service.CreateCategory(uuid.New(), "Comida"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := service.CreateCategory(uuid.New(), "Comida"); err != nil {
		t.Errorf("Expected duplicate name to be allowed across users, got %v", err)
	}
}

func TestGetCategories_ScopedToUser(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)

	userID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Comida"})
	categoryRepo.AddCategory(&domain.Category{ID: 2, UserID: uuid.New(), Name: "Otro"})

	categories, err := service.GetCategories(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("Expected 1 category, got %d", len(categories))
	}
	if categories[0].Name != "Comida" {
		t.Errorf("Expected 'Comida', got %s", categories[0].Name)
	}
}

func TestDeleteCategory_Success(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)

	userID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Comida"})

	if err := service.DeleteCategory(userID, 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(categoryRepo.Categories) != 0 {
		t.Error("Expected category to be removed")
	}
}

func TestDeleteCategory_InUse(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)

	userID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Comida"})
	categoryRepo.Expenses[1] = true

	err := service.DeleteCategory(userID, 1)
	if !errors.Is(err, domain.ErrCategoryInUse) {
		t.Errorf("Expected ErrCategoryInUse, got %v", err)
	}
	if len(categoryRepo.Categories) != 1 {
		t.Error("Expected category to be kept")
	}
}

func TestDeleteCategory_NotFound(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)

	err := service.DeleteCategory(uuid.New(), 99)
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}
