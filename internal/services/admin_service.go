// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type AdminService struct {
	db *gorm.DB
}

type AdminDashboardStats struct {
	TotalUsers        int64   `json:"total_users"`
	ActiveUsers       int64   `json:"active_users"`
	NewUsersThisMonth int64   `json:"new_users_this_month"`
	TotalProducts     int64   `json:"total_products"`
	ActiveProducts    int64   `json:"active_products"`
	TotalListings     int64   `json:"total_listings"`
	ActiveListings    int64   `json:"active_listings"`
	TotalOrders       int64   `json:"total_orders"`
	CompletedOrders   int64   `json:"completed_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	PendingReports    int64   `json:"pending_reports"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Role       *models.UserRole `json:"role,omitempty"`
	IsActive   *bool            `json:"is_active,omitempty"`
	IsVerified *bool            `json:"is_verified,omitempty"`
}

type AdminUserUpdateRequest struct {
	IsActive   *bool `json:"is_active,omitempty"`
	IsVerified *bool `json:"is_verified,omitempty"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// DashboardStats aggregates the numbers shown on the admin landing
// page. Revenue counts completed orders only.
func (s *AdminService) DashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	monthStart := time.Now().AddDate(0, 0, -30)

	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)

	s.db.Model(&models.Product{}).Count(&stats.TotalProducts)
	s.db.Model(&models.Product{}).Where("status = ?", models.ItemStatusActive).Count(&stats.ActiveProducts)
	s.db.Model(&models.MaterialListing{}).Count(&stats.TotalListings)
	s.db.Model(&models.MaterialListing{}).Where("status = ?", models.ItemStatusActive).Count(&stats.ActiveListings)

	s.db.Model(&models.Order{}).Count(&stats.TotalOrders)
	s.db.Model(&models.Order{}).Where("status = ?", models.OrderStatusCompleted).Count(&stats.CompletedOrders)
	s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted).
		Select("COALESCE(SUM(total_price), 0)").Scan(&stats.TotalRevenue)

	s.db.Model(&models.Report{}).Where("status = ?", models.ReportStatusPending).Count(&stats.PendingReports)

	return stats, nil
}

// ListUsers is the admin variant: deactivated accounts included.
func (s *AdminService) ListUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{}).Preload("Profile")

	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsVerified != nil {
		query = query.Where("is_verified = ?", *filter.IsVerified)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where(
			"email LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			search, search, search,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "email", "role", "last_login_at"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

// UpdateUserFlags flips the moderation flags on an account.
func (s *AdminService) UpdateUserFlags(userID uuid.UUID, req *AdminUserUpdateRequest) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Profile").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := map[string]interface{}{}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
		user.IsActive = *req.IsActive
	}
	if req.IsVerified != nil {
		updates["is_verified"] = *req.IsVerified
		user.IsVerified = *req.IsVerified
	}
	if len(updates) == 0 {
		return &user, nil
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user, nil
}
