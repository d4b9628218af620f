package payments

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string    `gorm:"size:255;not null;index" json:"email"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Month         string    `gorm:"size:20" json:"month"`
	TransactionID string    `gorm:"size:255" json:"transactionId"`
	CreatedAt     time.Time `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// --- DTOs ---

type CreateIntentRequest struct {
	Price float64 `json:"price"`
}

type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type RecordPaymentRequest struct {
	Amount        float64 `json:"amount"`
	Month         string  `json:"month"`
	TransactionID string  `json:"transactionId"`
}
