package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const AgreementPending = "pending"

// Agreement is a tenancy request. The unique index on OwnerEmail is what
// keeps concurrent submissions for one owner down to a single row.
type Agreement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerEmail  string    `gorm:"not null;size:255;uniqueIndex" json:"ownerEmail"`
	OwnerName   string    `gorm:"size:255" json:"ownerName,omitempty"`
	Apartment   string    `gorm:"size:100" json:"apartment"`
	FloorNo     string    `gorm:"size:20" json:"floorNo,omitempty"`
	BlockName   string    `gorm:"size:20" json:"blockName,omitempty"`
	ApartmentNo string    `gorm:"size:20" json:"apartmentNo,omitempty"`
	Rent        float64   `json:"rent"`
	AcceptDate  string    `gorm:"size:50" json:"agreementAcceptDate,omitempty"`
	Status      string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a *Agreement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AgreementPending
	}
	return nil
}

func (Agreement) TableName() string {
	return "agreements"
}
