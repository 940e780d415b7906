// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaddid/marketplace-backend/internal/models"
)

func TestGetCartCreatesOnFirstUse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)
	user := createTestUser(t, db, models.UserRoleIndividual)

	view, err := svc.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, view.Cart.UserID)
	assert.Empty(t, view.Cart.Items)
	assert.Zero(t, view.TotalPrice)

	again, err := svc.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, view.Cart.ID, again.Cart.ID)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 10)

	view, err := svc.AddItem(buyer.ID, &AddCartItemRequest{ProductID: &product.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Cart.Items, 1)
	assert.Equal(t, 2.0, view.Cart.Items[0].Quantity)

	view, err = svc.AddItem(buyer.ID, &AddCartItemRequest{ProductID: &product.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, view.Cart.Items, 1)
	assert.Equal(t, 5.0, view.Cart.Items[0].Quantity)
	assert.Equal(t, 5.0, view.TotalItems)
	assert.Equal(t, 600.0, view.TotalPrice) // 5 x 120
}

func TestAddItemStockChecks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 4)

	_, err := svc.AddItem(buyer.ID, &AddCartItemRequest{ProductID: &product.ID, Quantity: 5})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Merging past the available quantity fails too
	_, err = svc.AddItem(buyer.ID, &AddCartItemRequest{ProductID: &product.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = svc.AddItem(buyer.ID, &AddCartItemRequest{ProductID: &product.ID, Quantity: 2})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAddItemRejectsInactiveItem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	draft := createTestProduct(t, db, seller.ID, models.ItemStatusDraft, 10)

	_, err := svc.AddItem(buyer.ID, &AddCartItemRequest{ProductID: &draft.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddItemRequiresExactlyOneItem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	seller := createTestUser(t, db, models.UserRoleFactory)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 10)
	listing := createTestListing(t, db, seller.ID, models.ItemStatusActive, 100)

	_, err := svc.AddItem(buyer.ID, &AddCartItemRequest{Quantity: 1})
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	_, err = svc.AddItem(buyer.ID, &AddCartItemRequest{
		ProductID:         &product.ID,
		MaterialListingID: &listing.ID,
		Quantity:          1,
	})
	_, ok = AsValidationError(err)
	assert.True(t, ok)
}

func TestUpdateItemOtherUsersLineIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	owner := createTestUser(t, db, models.UserRoleIndividual)
	intruder := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 10)

	view, err := svc.AddItem(owner.ID, &AddCartItemRequest{ProductID: &product.ID, Quantity: 1})
	require.NoError(t, err)
	itemID := view.Cart.Items[0].ID

	_, err = svc.UpdateItem(intruder.ID, itemID, &UpdateCartItemRequest{Quantity: 2})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RemoveItem(intruder.ID, itemID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The owner still can
	updated, err := svc.UpdateItem(owner.ID, itemID, &UpdateCartItemRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4.0, updated.Cart.Items[0].Quantity)
}

func TestRemoveAndClearCart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)

	seller := createTestUser(t, db, models.UserRoleFactory)
	buyer := createTestUser(t, db, models.UserRoleCompany)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 10)
	listing := createTestListing(t, db, seller.ID, models.ItemStatusActive, 200)

	view, err := svc.AddItem(buyer.ID, &AddCartItemRequest{ProductID: &product.ID, Quantity: 1})
	require.NoError(t, err)
	view, err = svc.AddItem(buyer.ID, &AddCartItemRequest{MaterialListingID: &listing.ID, Quantity: 50})
	require.NoError(t, err)
	require.Len(t, view.Cart.Items, 2)

	var productLine models.CartItem
	require.NoError(t, db.Where("cart_id = ? AND product_id IS NOT NULL", view.Cart.ID).
		First(&productLine).Error)

	view, err = svc.RemoveItem(buyer.ID, productLine.ID)
	require.NoError(t, err)
	assert.Len(t, view.Cart.Items, 1)
	assert.Equal(t, 175.0, view.TotalPrice) // 50 kg x 3.50

	view, err = svc.ClearCart(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)
	assert.Zero(t, view.TotalPrice)
}
