package banners

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBannerNotFound = errors.New("banner not found")
	ErrImageRequired  = errors.New("banner image is required")
)

type BannerService struct {
	db *gorm.DB
}

func NewBannerService(db *gorm.DB) *BannerService {
	return &BannerService{db: db}
}

func (s *BannerService) List(ctx context.Context) ([]Banner, error) {
	var banners []Banner
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&banners).Error; err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	return banners, nil
}

func (s *BannerService) Create(ctx context.Context, req *CreateBannerRequest) (*Banner, error) {
	if strings.TrimSpace(req.Image) == "" {
		return nil, ErrImageRequired
	}
	banner := Banner{Image: req.Image, Title: req.Title, Description: req.Description}
	if err := s.db.WithContext(ctx).Create(&banner).Error; err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}
	return &banner, nil
}

func (s *BannerService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Banner{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete banner: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBannerNotFound
	}
	return nil
}
