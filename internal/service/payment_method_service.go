package service

import (
	"strings"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/google/uuid"
)

// PaymentMethodService handles payment-method-related business logic
type PaymentMethodService struct {
	methodRepo domain.PaymentMethodRepository
}

// NewPaymentMethodService creates a new PaymentMethodService
func NewPaymentMethodService(methodRepo domain.PaymentMethodRepository) *PaymentMethodService {
	return &PaymentMethodService{methodRepo: methodRepo}
}

// CreatePaymentMethod creates a new payment method with validation
func (s *PaymentMethodService) CreatePaymentMethod(userID uuid.UUID, name string) (*domain.PaymentMethod, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	return s.methodRepo.Create(&domain.PaymentMethod{
		UserID: userID,
		Name:   name,
	})
}

// GetPaymentMethods retrieves all payment methods for a user
func (s *PaymentMethodService) GetPaymentMethods(userID uuid.UUID) ([]*domain.PaymentMethod, error) {
	return s.methodRepo.ListByUser(userID)
}

// GetPaymentMethodByID retrieves a payment method by ID
func (s *PaymentMethodService) GetPaymentMethodByID(userID uuid.UUID, id int32) (*domain.PaymentMethod, error) {
	return s.methodRepo.GetByID(userID, id)
}

// DeletePaymentMethod deletes a payment method
func (s *PaymentMethodService) DeletePaymentMethod(userID uuid.UUID, id int32) error {
	return s.methodRepo.Delete(userID, id)
}
