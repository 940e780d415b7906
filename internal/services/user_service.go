// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

type UpdateProfileRequest struct {
	FirstName *string               `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string               `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Profile   *ProfileUpdateRequest `json:"profile,omitempty"`
}

type ProfileUpdateRequest struct {
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Bio     *string `json:"bio,omitempty"`
}

type RoleChoice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUser returns an active user for public consumption. Deactivated
// accounts read as not found.
func (s *UserService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Profile").
		Where("is_active = ?", true).
		First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) ListUsers(params utils.PaginationParams, role string) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{}).
		Preload("Profile").
		Where("is_active = ?", true)

	if role != "" {
		query = query.Where("role = ?", role)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where(
			"email LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			search, search, search,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "first_name", "last_name", "email"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

// UpdateProfile updates user fields and the nested profile in one call.
func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.Preload("Profile").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.LastName = *req.LastName
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		if req.Profile != nil {
			profile := user.Profile
			if profile == nil {
				profile = &models.Profile{UserID: user.ID}
			}
			if req.Profile.Phone != nil {
				profile.Phone = *req.Profile.Phone
			}
			if req.Profile.Address != nil {
				profile.Address = *req.Profile.Address
			}
			if req.Profile.Bio != nil {
				profile.Bio = *req.Profile.Bio
			}
			if err := tx.Save(profile).Error; err != nil {
				return err
			}
			user.Profile = profile
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &user, nil
}

// DeactivateAccount is the only account delete the API offers; the row
// is kept and the flag flipped.
func (s *UserService) DeactivateAccount(userID uuid.UUID) error {
	result := s.db.Model(&models.User{}).
		Where("id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) SetProfileImage(userID uuid.UUID, imageURL string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	profile.ProfileImage = imageURL
	if err := s.db.Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile image: %w", err)
	}
	return &profile, nil
}

func (s *UserService) DeleteProfileImage(userID uuid.UUID) error {
	result := s.db.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("profile_image", "")
	if result.Error != nil {
		return fmt.Errorf("failed to delete profile image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RoleChoices lists the roles open for self-registration. Admin is
// intentionally absent.
func (s *UserService) RoleChoices() []RoleChoice {
	return []RoleChoice{
		{Value: string(models.UserRoleIndividual), Label: "Individual"},
		{Value: string(models.UserRoleFactory), Label: "Factory"},
		{Value: string(models.UserRoleCompany), Label: "Company"},
	}
}
