package apartments

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Apartment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ApartmentImage string    `gorm:"type:text" json:"apartmentImage"`
	FloorNo        string    `gorm:"size:20;not null" json:"floorNo"`
	BlockName      string    `gorm:"size:20;not null;uniqueIndex:idx_apartment_block_no" json:"blockName"`
	ApartmentNo    string    `gorm:"size:20;not null;uniqueIndex:idx_apartment_block_no" json:"apartmentNo"`
	Rent           float64   `json:"rent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (a *Apartment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// --- DTOs ---

type CreateApartmentRequest struct {
	ApartmentImage string  `json:"apartmentImage"`
	FloorNo        string  `json:"floorNo"`
	BlockName      string  `json:"blockName"`
	ApartmentNo    string  `json:"apartmentNo"`
	Rent           float64 `json:"rent"`
}

// UpdateApartmentRequest changes only the fields that are present.
type UpdateApartmentRequest struct {
	ApartmentImage *string  `json:"apartmentImage"`
	FloorNo        *string  `json:"floorNo"`
	BlockName      *string  `json:"blockName"`
	ApartmentNo    *string  `json:"apartmentNo"`
	Rent           *float64 `json:"rent"`
}

type ApartmentsListResponse struct {
	Apartments []Apartment `json:"apartments"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
}
