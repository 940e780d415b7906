// internal/services/review_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

func TestCreateReviewVerifiedPurchase(t *testing.T) {
	db := setupTestDB(t)
	orders := NewOrderService(db)
	reviews := NewReviewService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 5)

	order, err := orders.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = orders.ConfirmOrder(order.ID, seller.ID)
	require.NoError(t, err)
	_, err = orders.CompleteOrder(order.ID, seller.ID)
	require.NoError(t, err)

	review, err := reviews.CreateReview(buyer.ID, &CreateReviewRequest{
		ProductID: &product.ID,
		Rating:    5,
		Comment:   "Exactly as described.",
	})
	require.NoError(t, err)
	assert.True(t, review.IsVerifiedPurchase)
	assert.True(t, review.IsApproved)
}

func TestCreateReviewUnverifiedWithoutCompletedOrder(t *testing.T) {
	db := setupTestDB(t)
	orders := NewOrderService(db)
	reviews := NewReviewService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 5)

	// No order at all
	review, err := reviews.CreateReview(buyer.ID, &CreateReviewRequest{ProductID: &product.ID, Rating: 3})
	require.NoError(t, err)
	assert.False(t, review.IsVerifiedPurchase)

	// A pending order does not count either
	_, err = orders.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 1})
	require.NoError(t, err)
	review, err = reviews.CreateReview(buyer.ID, &CreateReviewRequest{ProductID: &product.ID, Rating: 4})
	require.NoError(t, err)
	assert.False(t, review.IsVerifiedPurchase)
}

func TestCreateReviewRejectsMissingItem(t *testing.T) {
	db := setupTestDB(t)
	reviews := NewReviewService(db)
	user := createTestUser(t, db, models.UserRoleIndividual)

	_, err := reviews.CreateReview(user.ID, &CreateReviewRequest{Rating: 4})
	_, ok := AsValidationError(err)
	assert.True(t, ok)
}

func TestItemReviewsApprovedOnly(t *testing.T) {
	db := setupTestDB(t)
	reviews := NewReviewService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	alice := createTestUser(t, db, models.UserRoleIndividual)
	bob := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 5)

	_, err := reviews.CreateReview(alice.ID, &CreateReviewRequest{ProductID: &product.ID, Rating: 5})
	require.NoError(t, err)
	hidden, err := reviews.CreateReview(bob.ID, &CreateReviewRequest{ProductID: &product.ID, Rating: 1})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Review{}).
		Where("id = ?", hidden.ID).
		UpdateColumn("is_approved", false).Error)

	params := utils.PaginationParams{Page: 1, Limit: 20}
	list, total, err := reviews.ItemReviews(models.ItemRef{ProductID: &product.ID}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Rating)

	// Moderation does not hide the review from its author
	mine, total, err := reviews.MyReviews(bob.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, mine, 1)
}
