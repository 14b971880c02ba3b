package service

import (
	"strings"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/google/uuid"
)

// CategoryService handles category-related business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a new category with validation
func (s *CategoryService) CreateCategory(userID uuid.UUID, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	return s.categoryRepo.Create(&domain.Category{
		UserID: userID,
		Name:   name,
	})
}

// GetCategories retrieves all categories for a user
func (s *CategoryService) GetCategories(userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.ListByUser(userID)
}

// GetCategoryByID retrieves a category by ID
func (s *CategoryService) GetCategoryByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(userID, id)
}

// DeleteCategory deletes a category unless expenses still reference it
func (s *CategoryService) DeleteCategory(userID uuid.UUID, id int32) error {
	inUse, err := s.categoryRepo.HasExpenses(userID, id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrCategoryInUse
	}
	return s.categoryRepo.Delete(userID, id)
}
