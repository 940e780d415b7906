// internal/services/listing_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

func TestCreateListingDefaultsUnitFromMaterial(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	seller := createTestUser(t, db, models.UserRoleFactory)
	material := createTestMaterial(t, db)

	listing, err := svc.CreateListing(seller.ID, &CreateListingRequest{
		MaterialID:   material.ID,
		Title:        "Baled cardboard",
		Quantity:     500,
		PricePerUnit: 0.8,
		Condition:    models.ListingConditionGood,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ItemStatusDraft, listing.Status)
	assert.Equal(t, "kg", listing.Unit) // material default
	assert.Equal(t, 1.0, listing.MinimumOrderQuantity)
}

func TestCreateListingExplicitUnitWins(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	seller := createTestUser(t, db, models.UserRoleFactory)
	material := createTestMaterial(t, db)

	listing, err := svc.CreateListing(seller.ID, &CreateListingRequest{
		MaterialID:           material.ID,
		Title:                "Scrap by the ton",
		Quantity:             12,
		Unit:                 "ton",
		PricePerUnit:         900,
		MinimumOrderQuantity: 2,
		Condition:            models.ListingConditionExcellent,
	})
	require.NoError(t, err)
	assert.Equal(t, "ton", listing.Unit)
	assert.Equal(t, 2.0, listing.MinimumOrderQuantity)
}

func TestPublishListing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	seller := createTestUser(t, db, models.UserRoleFactory)
	listing := createTestListing(t, db, seller.ID, models.ItemStatusDraft, 100)

	published, err := svc.PublishListing(listing.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusActive, published.Status)
	assert.NotNil(t, published.PublishedAt)

	_, err = svc.PublishListing(listing.ID, seller.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListListingsQuantityFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	seller := createTestUser(t, db, models.UserRoleFactory)

	createTestListing(t, db, seller.ID, models.ItemStatusActive, 50)
	createTestListing(t, db, seller.ID, models.ItemStatusActive, 500)
	createTestListing(t, db, seller.ID, models.ItemStatusDraft, 1000)

	params := utils.PaginationParams{Page: 1, Limit: 20}

	// Anonymous callers see active listings only
	_, total, err := svc.ListListings(params, ListingFilters{}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	minQty := 100.0
	_, total, err = svc.ListListings(params, ListingFilters{MinQuantity: &minQty}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestDeleteListingIsSoft(t *testing.T) {
	db := setupTestDB(t)
	svc := NewListingService(db)
	seller := createTestUser(t, db, models.UserRoleFactory)
	other := createTestUser(t, db, models.UserRoleFactory)
	listing := createTestListing(t, db, seller.ID, models.ItemStatusActive, 100)

	require.ErrorIs(t, svc.DeleteListing(listing.ID, other.ID), ErrPermissionDenied)
	require.NoError(t, svc.DeleteListing(listing.ID, seller.ID))

	var reloaded models.MaterialListing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, models.ItemStatusDeleted, reloaded.Status)
}
