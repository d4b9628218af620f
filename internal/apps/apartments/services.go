package apartments

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
	ErrApartmentNotFound = errors.New("apartment not found")
	ErrApartmentExists   = errors.New("apartment already exists in this block")
	ErrInvalidApartment  = errors.New("floor, block and apartment number are required and rent must not be negative")
)

type ApartmentService struct {
	db *gorm.DB
}

func NewApartmentService(db *gorm.DB) *ApartmentService {
	return &ApartmentService{db: db}
}

// List returns one page of apartments ordered by block and number.
func (s *ApartmentService) List(ctx context.Context, limit, offset int) ([]Apartment, int64, error) {
	var apartments []Apartment
	var total int64

	db := s.db.WithContext(ctx)
	if err := db.Model(&Apartment{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count apartments: %w", err)
	}
	err := db.Order("block_name ASC, apartment_no ASC").
		Limit(limit).
		Offset(offset).
		Find(&apartments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list apartments: %w", err)
	}
	return apartments, total, nil
}

func (s *ApartmentService) Get(ctx context.Context, id uuid.UUID) (*Apartment, error) {
	var apartment Apartment
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&apartment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApartmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get apartment: %w", err)
	}
	return &apartment, nil
}

func (s *ApartmentService) Create(ctx context.Context, req *CreateApartmentRequest) (*Apartment, error) {
	apartment := Apartment{
		ApartmentImage: req.ApartmentImage,
		FloorNo:        strings.TrimSpace(req.FloorNo),
		BlockName:      strings.TrimSpace(req.BlockName),
		ApartmentNo:    strings.TrimSpace(req.ApartmentNo),
		Rent:           req.Rent,
	}
	if apartment.FloorNo == "" || apartment.BlockName == "" || apartment.ApartmentNo == "" || apartment.Rent < 0 {
		return nil, ErrInvalidApartment
	}

	if err := s.db.WithContext(ctx).Create(&apartment).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrApartmentExists
		}
		return nil, fmt.Errorf("failed to create apartment: %w", err)
	}
	return &apartment, nil
}

func (s *ApartmentService) Update(ctx context.Context, id uuid.UUID, req *UpdateApartmentRequest) (*Apartment, error) {
	updates := map[string]interface{}{}
	if req.ApartmentImage != nil {
		updates["apartment_image"] = *req.ApartmentImage
	}
	if req.FloorNo != nil {
		updates["floor_no"] = strings.TrimSpace(*req.FloorNo)
	}
	if req.BlockName != nil {
		updates["block_name"] = strings.TrimSpace(*req.BlockName)
	}
	if req.ApartmentNo != nil {
		updates["apartment_no"] = strings.TrimSpace(*req.ApartmentNo)
	}
	if req.Rent != nil {
		if *req.Rent < 0 {
			return nil, ErrInvalidApartment
		}
		updates["rent"] = *req.Rent
	}

	apartment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return apartment, nil
	}

	if err := s.db.WithContext(ctx).Model(&Apartment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrApartmentExists
		}
		return nil, fmt.Errorf("failed to update apartment: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *ApartmentService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Apartment{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete apartment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrApartmentNotFound
	}
	return nil
}
