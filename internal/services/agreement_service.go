package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jollyhome/jollyhome-api/internal/database"
	"github.com/jollyhome/jollyhome-api/internal/dto"
	"github.com/jollyhome/jollyhome-api/internal/models"
)

const ReasonDuplicate = "duplicate"

var (
	ErrAgreementNotFound = errors.New("agreement not found")
	ErrOwnerRequired     = errors.New("owner email is required")
)

// Submission is the outcome of Submit. A duplicate is not an error.
type Submission struct {
	Accepted  bool
	Reason    string
	Agreement *models.Agreement
}

type AgreementService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAgreementService(db *gorm.DB) *AgreementService {
	return &AgreementService{db: db, now: time.Now}
}

func (s *AgreementService) GetAll(ctx context.Context) ([]models.Agreement, error) {
	var agreements []models.Agreement
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&agreements).Error; err != nil {
		return nil, fmt.Errorf("failed to list agreements: %w", err)
	}
	return agreements, nil
}

// GetByEmail returns the owner's agreement, or nil without error when the
// owner has none.
func (s *AgreementService) GetByEmail(ctx context.Context, email string) (*models.Agreement, error) {
	var agreement models.Agreement
	err := s.db.WithContext(ctx).Where("owner_email = ?", models.NormalizeEmail(email)).First(&agreement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agreement: %w", err)
	}
	return &agreement, nil
}

// Submit creates a pending agreement unless the owner already has one.
// The existence check is only a fast path: the unique index on owner_email
// settles concurrent submissions, and the loser gets the same refusal.
func (s *AgreementService) Submit(ctx context.Context, req *dto.SubmitAgreementRequest) (*Submission, error) {
	owner := models.NormalizeEmail(req.OwnerEmail)
	if owner == "" {
		return nil, ErrOwnerRequired
	}

	existing, err := s.GetByEmail(ctx, owner)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &Submission{Accepted: false, Reason: ReasonDuplicate}, nil
	}

	agreement := models.Agreement{
		OwnerEmail:  owner,
		OwnerName:   req.OwnerName,
		Apartment:   req.Apartment,
		FloorNo:     req.FloorNo,
		BlockName:   req.BlockName,
		ApartmentNo: req.ApartmentNo,
		Rent:        req.Rent,
		AcceptDate:  acceptDate(req.AgreementAcceptDate, s.now()),
		Status:      models.AgreementPending,
	}
	if err := s.db.WithContext(ctx).Create(&agreement).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return &Submission{Accepted: false, Reason: ReasonDuplicate}, nil
		}
		return nil, fmt.Errorf("failed to create agreement: %w", err)
	}
	return &Submission{Accepted: true, Agreement: &agreement}, nil
}

// DeleteByID removes an agreement regardless of its status.
func (s *AgreementService) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Agreement{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete agreement: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Approve applies an agreement to its owner's identity and removes it, in
// one transaction. Once applied the agreement is gone, so a repeated call
// returns ErrAgreementNotFound and changes nothing.
func (s *AgreementService) Approve(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var approved models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var agreement models.Agreement
		if err := tx.Where("id = ?", id).First(&agreement).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAgreementNotFound
			}
			return fmt.Errorf("failed to load agreement: %w", err)
		}

		if err := tx.Where("email = ?", agreement.OwnerEmail).First(&approved).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load owner: %w", err)
		}

		// Submissions may name the apartment only by its label.
		apartmentNo := agreement.ApartmentNo
		if apartmentNo == "" {
			apartmentNo = agreement.Apartment
		}
		updates := map[string]interface{}{
			"floor_no":              agreement.FloorNo,
			"block_name":            agreement.BlockName,
			"apartment_no":          apartmentNo,
			"rent":                  agreement.Rent,
			"agreement_accept_date": acceptDate(agreement.AcceptDate, s.now()),
			"status":                models.StatusApproved,
		}
		if err := tx.Model(&approved).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to apply agreement: %w", err)
		}
		if err := tx.Delete(&agreement).Error; err != nil {
			return fmt.Errorf("failed to remove agreement: %w", err)
		}
		return tx.Where("id = ?", approved.ID).First(&approved).Error
	})
	if err != nil {
		return nil, err
	}
	return &approved, nil
}

// acceptDate keeps a client-supplied acceptance date and otherwise stamps now.
func acceptDate(supplied string, now time.Time) string {
	if d := strings.TrimSpace(supplied); d != "" {
		return d
	}
	return now.UTC().Format(time.RFC3339)
}
