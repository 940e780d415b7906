// internal/services/favorite_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaddid/marketplace-backend/internal/models"
)

func TestToggleFavoriteInvolution(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFavoriteService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 5)

	req := &ToggleFavoriteRequest{ProductID: &product.ID}

	on, err := svc.ToggleFavorite(buyer.ID, req)
	require.NoError(t, err)
	assert.True(t, on.Favorited)
	assert.Equal(t, int64(1), on.FavoritesCount)

	off, err := svc.ToggleFavorite(buyer.ID, req)
	require.NoError(t, err)
	assert.False(t, off.Favorited)
	assert.Equal(t, int64(0), off.FavoritesCount)

	var rows int64
	require.NoError(t, db.Model(&models.Favorite{}).
		Where("user_id = ?", buyer.ID).Count(&rows).Error)
	assert.Equal(t, int64(0), rows)
}

func TestToggleFavoriteCounterNeverNegative(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFavoriteService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 5)

	// Simulate a drifted counter: row exists, counter already at zero
	_, err := svc.ToggleFavorite(buyer.ID, &ToggleFavoriteRequest{ProductID: &product.ID})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("favorites_count", 0).Error)

	off, err := svc.ToggleFavorite(buyer.ID, &ToggleFavoriteRequest{ProductID: &product.ID})
	require.NoError(t, err)
	assert.False(t, off.Favorited)
	assert.Equal(t, int64(0), off.FavoritesCount)
}

func TestToggleFavoriteListing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFavoriteService(db)

	seller := createTestUser(t, db, models.UserRoleFactory)
	buyer := createTestUser(t, db, models.UserRoleCompany)
	listing := createTestListing(t, db, seller.ID, models.ItemStatusActive, 100)

	on, err := svc.ToggleFavorite(buyer.ID, &ToggleFavoriteRequest{MaterialListingID: &listing.ID})
	require.NoError(t, err)
	assert.True(t, on.Favorited)
	assert.Equal(t, int64(1), on.FavoritesCount)
}

func TestToggleFavoriteValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFavoriteService(db)
	user := createTestUser(t, db, models.UserRoleIndividual)

	_, err := svc.ToggleFavorite(user.ID, &ToggleFavoriteRequest{})
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	missing := uuid.New()
	_, err = svc.ToggleFavorite(user.ID, &ToggleFavoriteRequest{ProductID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)
}
