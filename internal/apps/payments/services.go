package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/jollyhome/jollyhome-api/internal/models"
)

var (
	ErrInvalidAmount      = errors.New("price must be greater than 0")
	ErrProcessorMissing   = errors.New("payment processor not configured")
	ErrTransactionMissing = errors.New("transaction id is required")
)

type PaymentService struct {
	db        *gorm.DB
	processor PaymentProcessor
	currency  string
}

func NewPaymentService(db *gorm.DB, processor PaymentProcessor, currency string) *PaymentService {
	return &PaymentService{db: db, processor: processor, currency: currency}
}

// ToCents converts a decimal price to the smallest currency unit, rounding
// half away from zero.
func ToCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	cents := ToCents(price)
	if cents <= 0 {
		return "", ErrInvalidAmount
	}
	if s.processor == nil {
		return "", ErrProcessorMissing
	}
	return s.processor.CreateIntent(ctx, cents, s.currency)
}

func (s *PaymentService) Record(ctx context.Context, email string, req *RecordPaymentRequest) (*Payment, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		return nil, ErrTransactionMissing
	}
	payment := Payment{
		Email:         models.NormalizeEmail(email),
		Amount:        req.Amount,
		Month:         req.Month,
		TransactionID: req.TransactionID,
	}
	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return &payment, nil
}

func (s *PaymentService) ListByEmail(ctx context.Context, email string) ([]Payment, error) {
	var payments []Payment
	if err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (s *PaymentService) ListAll(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
