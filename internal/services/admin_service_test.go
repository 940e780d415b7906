// internal/services/admin_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	admin := NewAdminService(db)
	orders := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 10)
	createTestProduct(t, db, seller.ID, models.ItemStatusDraft, 1)
	createTestListing(t, db, seller.ID, models.ItemStatusActive, 100)

	completed, err := orders.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = orders.ConfirmOrder(completed.ID, seller.ID)
	require.NoError(t, err)
	_, err = orders.CompleteOrder(completed.ID, seller.ID)
	require.NoError(t, err)

	_, err = orders.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 1})
	require.NoError(t, err)

	stats, err := admin.DashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.ActiveUsers)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.ActiveProducts)
	assert.Equal(t, int64(1), stats.TotalListings)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.CompletedOrders)
	assert.Equal(t, 240.0, stats.TotalRevenue) // 2 x 120, completed only
}

func TestAdminListUsersIncludesDeactivated(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminService(db)

	active := createTestUser(t, db, models.UserRoleIndividual)
	disabled := createTestUser(t, db, models.UserRoleFactory)
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", disabled.ID).
		UpdateColumn("is_active", false).Error)

	filter := AdminUserFilter{PaginationParams: utils.PaginationParams{Page: 1, Limit: 20}}

	_, total, err := svc.ListUsers(filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	inactive := false
	filter.IsActive = &inactive
	users, total, err := svc.ListUsers(filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, disabled.ID, users[0].ID)

	role := models.UserRoleIndividual
	filter = AdminUserFilter{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20},
		Role:             &role,
	}
	users, _, err = svc.ListUsers(filter)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, active.ID, users[0].ID)
}

func TestUpdateUserFlags(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminService(db)
	user := createTestUser(t, db, models.UserRoleCompany)

	verified := true
	disabled := false
	updated, err := svc.UpdateUserFlags(user.ID, &AdminUserUpdateRequest{
		IsActive:   &disabled,
		IsVerified: &verified,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.IsVerified)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.False(t, reloaded.IsActive)
	assert.True(t, reloaded.IsVerified)

	// Empty request changes nothing
	same, err := svc.UpdateUserFlags(user.ID, &AdminUserUpdateRequest{})
	require.NoError(t, err)
	assert.False(t, same.IsActive)
}
