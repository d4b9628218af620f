package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jollyhome/jollyhome-api/internal/dto"
	"github.com/jollyhome/jollyhome-api/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNoChange      = errors.New("no changes made to the user")
	ErrInvalidRole   = errors.New("role must be member or admin")
	ErrEmailRequired = errors.New("email is required")
)

// UpsertResult tells the caller which branch of Upsert was taken.
type UpsertResult struct {
	User          *models.User
	Created       bool
	StatusUpdated bool
}

type UserService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, now: time.Now}
}

func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// RoleOf returns the stored role for email. It always hits the store.
func (s *UserService) RoleOf(ctx context.Context, email string) (string, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// Upsert matches an identity by email. An existing identity only ever has
// its status changed, and only to "Requested"; any other ping returns it
// untouched. A missing identity is inserted as a member.
func (s *UserService) Upsert(ctx context.Context, req *dto.UpsertUserRequest) (*UpsertResult, error) {
	email := models.NormalizeEmail(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	db := s.db.WithContext(ctx)

	existing, err := s.GetByEmail(ctx, email)
	if err == nil {
		if req.Status != models.StatusRequested {
			return &UpsertResult{User: existing}, nil
		}
		if err := db.Model(&models.User{}).Where("email = ?", email).
			Update("status", models.StatusRequested).Error; err != nil {
			return nil, fmt.Errorf("failed to update user status: %w", err)
		}
		existing.Status = models.StatusRequested
		return &UpsertResult{User: existing, StatusUpdated: true}, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := models.User{
		Email:     email,
		Name:      req.DisplayName,
		PhotoURL:  req.PhotoURL,
		Role:      models.RoleMember,
		Status:    req.Status,
		Timestamp: s.now().UnixMilli(),
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&user)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to create user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// A concurrent request inserted the same email first.
		return s.Upsert(ctx, req)
	}
	return &UpsertResult{User: &user, Created: true}, nil
}

// PatchByEmail replaces the profile field set of the identity with the
// given email. An update that would leave the row unchanged is ErrNoChange.
func (s *UserService) PatchByEmail(ctx context.Context, email string, req *dto.PatchUserRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if !validRole(role) {
		return nil, ErrInvalidRole
	}

	email = models.NormalizeEmail(email)
	current, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	next := *current
	next.Role = role
	next.IDs = datatypes.JSON(req.IDs)
	next.UserEmail = req.UserEmail
	next.UserName = req.UserName
	next.FloorNo = req.FloorNo
	next.BlockName = req.BlockName
	next.ApartmentNo = req.ApartmentNo
	next.Rent = req.Rent
	next.AgreementAcceptDate = req.AgreementAcceptDate

	if sameProfile(current, &next) {
		return nil, ErrNoChange
	}

	err = s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).
		Updates(profileColumns(&next)).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.GetByEmail(ctx, email)
}

// SetRoleByID changes the role of the identity with the given id. It
// reports false both when the id is unknown and when the role already has
// the requested value.
func (s *UserService) SetRoleByID(ctx context.Context, id uuid.UUID, role string) (bool, error) {
	if !validRole(role) {
		return false, ErrInvalidRole
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND role <> ?", id, role).
		Update("role", role)
	if res.Error != nil {
		return false, fmt.Errorf("failed to set role: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// EnsureAdmins stores the admin role for each email, creating identities
// that do not exist yet.
func (s *UserService) EnsureAdmins(ctx context.Context, emails []string) error {
	for _, email := range emails {
		email = models.NormalizeEmail(email)
		if email == "" {
			continue
		}
		user := models.User{
			Email:     email,
			Role:      models.RoleAdmin,
			Timestamp: s.now().UnixMilli(),
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"role": models.RoleAdmin}),
		}).Create(&user).Error
		if err != nil {
			return fmt.Errorf("failed to promote %s: %w", email, err)
		}
	}
	return nil
}

func validRole(role string) bool {
	return role == models.RoleMember || role == models.RoleAdmin
}

func profileColumns(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"role":                  u.Role,
		"ids":                   u.IDs,
		"user_email":            u.UserEmail,
		"user_name":             u.UserName,
		"floor_no":              u.FloorNo,
		"block_name":            u.BlockName,
		"apartment_no":          u.ApartmentNo,
		"rent":                  u.Rent,
		"agreement_accept_date": u.AgreementAcceptDate,
	}
}

func sameProfile(a, b *models.User) bool {
	return a.Role == b.Role &&
		sameJSON(a.IDs, b.IDs) &&
		a.UserEmail == b.UserEmail &&
		a.UserName == b.UserName &&
		a.FloorNo == b.FloorNo &&
		a.BlockName == b.BlockName &&
		a.ApartmentNo == b.ApartmentNo &&
		a.Rent == b.Rent &&
		a.AgreementAcceptDate == b.AgreementAcceptDate
}

// sameJSON compares two JSON documents ignoring insignificant whitespace;
// empty and null are equal.
func sameJSON(a, b []byte) bool {
	return bytes.Equal(compactJSON(a), compactJSON(b))
}

func compactJSON(raw []byte) []byte {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []byte("null")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
