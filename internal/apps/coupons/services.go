package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jollyhome/jollyhome-api/internal/database"
)

var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponExists    = errors.New("coupon code already exists")
	ErrInvalidCoupon   = errors.New("coupon code is required")
	ErrInvalidDiscount = errors.New("discount must be greater than 0 and at most 100")
)

type CouponService struct {
	db *gorm.DB
}

func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{db: db}
}

func (s *CouponService) List(ctx context.Context) ([]Coupon, error) {
	var coupons []Coupon
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

// GetAvailable looks a code up for checkout. Unavailable coupons are
// reported as not found.
func (s *CouponService) GetAvailable(ctx context.Context, code string) (*Coupon, error) {
	var coupon Coupon
	err := s.db.WithContext(ctx).
		Where("code = ? AND available = ?", normalizeCode(code), true).
		First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return &coupon, nil
}

func (s *CouponService) Create(ctx context.Context, req *CreateCouponRequest) (*Coupon, error) {
	code := normalizeCode(req.Code)
	if code == "" {
		return nil, ErrInvalidCoupon
	}
	if !validDiscount(req.Discount) {
		return nil, ErrInvalidDiscount
	}

	coupon := Coupon{
		Code:        code,
		Discount:    req.Discount,
		Description: req.Description,
		Available:   req.Available == nil || *req.Available,
	}
	if err := s.db.WithContext(ctx).Create(&coupon).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrCouponExists
		}
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	return &coupon, nil
}

func (s *CouponService) Update(ctx context.Context, id uuid.UUID, req *UpdateCouponRequest) (*Coupon, error) {
	updates := map[string]interface{}{}
	if req.Discount != nil {
		if !validDiscount(*req.Discount) {
			return nil, ErrInvalidDiscount
		}
		updates["discount"] = *req.Discount
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}

	var coupon Coupon
	db := s.db.WithContext(ctx)
	if err := db.Where("id = ?", id).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if len(updates) == 0 {
		return &coupon, nil
	}

	if err := db.Model(&Coupon{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}
	if err := db.Where("id = ?", id).First(&coupon).Error; err != nil {
		return nil, fmt.Errorf("failed to reload coupon: %w", err)
	}
	return &coupon, nil
}

func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Coupon{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validDiscount(d float64) bool {
	return d > 0 && d <= 100
}
