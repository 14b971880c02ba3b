package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/afuentes/gastolog/gastolog-backend/internal/domain"
	"github.com/afuentes/gastolog/gastolog-backend/internal/repository/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	MaxReceiptSize     = 5 * 1024 * 1024 // 5MB
	ReceiptMaxWidth    = 1600
	ReceiptJPEGQuality = 85
	ReceiptURLExpiry   = 15 * time.Minute
)

var (
	ErrReceiptTooLarge            = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat       = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrInvalidReceiptData         = errors.New("invalid image data")
	ErrReceiptStorageNotConfigured = errors.New("receipt storage not configured")
)

// AllowedReceiptExtensions maps extensions to content types
var AllowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptService handles receipt image processing and storage
type ReceiptService struct {
	storage     storage.ReceiptRepository
	expenseRepo domain.ExpenseRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storage storage.ReceiptRepository, expenseRepo domain.ExpenseRepository) *ReceiptService {
	return &ReceiptService{storage: storage, expenseRepo: expenseRepo}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the receipt image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedReceiptExtensions[ext]; !ok {
		return nil, ErrInvalidReceiptFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}
	return img, nil
}

// UploadReceipt attaches a receipt image to an expense. Oversized photos
// are downscaled and re-encoded as JPEG before upload; a previous receipt
// on the same expense is replaced.
func (s *ReceiptService) UploadReceipt(ctx context.Context, userID uuid.UUID, expenseID int32, data []byte, filename string) (*domain.Expense, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	if img.Bounds().Dx() > ReceiptMaxWidth {
		img = imaging.Resize(img, ReceiptMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: ReceiptJPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode receipt: %w", err)
	}

	objectPath := fmt.Sprintf("receipts/%s/%s.jpg", userID, uuid.New())
	key, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
	if err != nil {
		return nil, fmt.Errorf("failed to upload receipt: %w", err)
	}

	// Replace any previous receipt; cleanup of the old object is best effort
	if expense.ReceiptKey != nil {
		_ = s.storage.Delete(ctx, *expense.ReceiptKey)
	}

	if err := s.expenseRepo.SetReceiptKey(userID, expenseID, &key); err != nil {
		_ = s.storage.Delete(ctx, key)
		return nil, err
	}
	expense.ReceiptKey = &key

	return expense, nil
}

// GetReceiptURL returns a short-lived presigned URL for an expense's receipt
func (s *ReceiptService) GetReceiptURL(ctx context.Context, userID uuid.UUID, expenseID int32) (string, error) {
	if !s.IsEnabled() {
		return "", ErrReceiptStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return "", err
	}
	if expense.ReceiptKey == nil {
		return "", domain.ErrReceiptNotFound
	}

	return s.storage.GeneratePresignedURL(ctx, *expense.ReceiptKey, ReceiptURLExpiry)
}

// DeleteReceipt removes an expense's receipt from storage and clears the link
func (s *ReceiptService) DeleteReceipt(ctx context.Context, userID uuid.UUID, expenseID int32) error {
	if !s.IsEnabled() {
		return ErrReceiptStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return err
	}
	if expense.ReceiptKey == nil {
		return domain.ErrReceiptNotFound
	}

	if err := s.storage.Delete(ctx, *expense.ReceiptKey); err != nil {
		return err
	}
	return s.expenseRepo.SetReceiptKey(userID, expenseID, nil)
}

// ReceiptContentType returns the content type for a receipt file extension
func ReceiptContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := AllowedReceiptExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
