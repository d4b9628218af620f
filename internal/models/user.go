package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"

	StatusRequested = "Requested"
	StatusApproved  = "Approved"
)

// User is the persisted identity, one row per email.
type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email               string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name                string         `gorm:"size:255" json:"name"`
	PhotoURL            string         `gorm:"type:text" json:"photoURL,omitempty"`
	Role                string         `gorm:"size:20;not null;default:'member'" json:"role"`
	Status              string         `gorm:"size:50" json:"status,omitempty"`
	IDs                 datatypes.JSON `json:"ids,omitempty"`
	UserEmail           string         `gorm:"size:255" json:"userEmail,omitempty"`
	UserName            string         `gorm:"size:255" json:"userName,omitempty"`
	FloorNo             string         `gorm:"size:20" json:"floorNo,omitempty"`
	BlockName           string         `gorm:"size:20" json:"blockName,omitempty"`
	ApartmentNo         string         `gorm:"size:20" json:"apartmentNo,omitempty"`
	Rent                float64        `json:"rent,omitempty"`
	AgreementAcceptDate string         `gorm:"size:50" json:"agreementAcceptDate,omitempty"`
	Timestamp           int64          `json:"timestamp"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleMember
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

// NormalizeEmail is the single form an email is stored, compared and signed in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
