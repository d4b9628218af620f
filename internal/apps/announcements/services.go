package announcements

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrTitleRequired        = errors.New("announcement title is required")
	ErrStatusRequired       = errors.New("status is required")
)

type AnnouncementService struct {
	db *gorm.DB
}

func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{db: db}
}

func (s *AnnouncementService) List(ctx context.Context) ([]Announcement, error) {
	var announcements []Announcement
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&announcements).Error; err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return announcements, nil
}

func (s *AnnouncementService) Create(ctx context.Context, req *CreateAnnouncementRequest) (*Announcement, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	announcement := Announcement{Title: req.Title, Description: req.Description}
	if err := s.db.WithContext(ctx).Create(&announcement).Error; err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	return &announcement, nil
}

// SetStatus writes status unconditionally. Setting the current value again
// still counts as acknowledged.
func (s *AnnouncementService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return ErrStatusRequired
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&Announcement{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to find announcement: %w", err)
	}
	if count == 0 {
		return ErrAnnouncementNotFound
	}
	if err := db.Model(&Announcement{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	return nil
}
