package coupons

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Coupon struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string    `gorm:"size:50;not null;uniqueIndex" json:"code"`
	Discount    float64   `gorm:"not null" json:"discount"`
	Description string    `gorm:"type:text" json:"description"`
	Available   bool      `gorm:"not null" json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// --- DTOs ---

type CreateCouponRequest struct {
	Code        string  `json:"code"`
	Discount    float64 `json:"discount"`
	Description string  `json:"description"`
	Available   *bool   `json:"available"`
}

type UpdateCouponRequest struct {
	Discount    *float64 `json:"discount"`
	Description *string  `json:"description"`
	Available   *bool    `json:"available"`
}
