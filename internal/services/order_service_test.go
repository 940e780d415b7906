// internal/services/order_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

func TestCreateOrderDerivesTermsFromProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 10)

	order, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{
		ProductID: &product.ID,
		Quantity:  3,
		Notes:     "leave at the gate",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "PRD-"))
	assert.Equal(t, models.OrderTypeProduct, order.OrderType)
	assert.Equal(t, seller.ID, order.SellerID)
	assert.Equal(t, buyer.ID, order.BuyerID)
	assert.Equal(t, "piece", order.Unit)
	assert.Equal(t, 120.0, order.UnitPrice)
	assert.Equal(t, 360.0, order.TotalPrice)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
}

func TestCreateOrderDerivesTermsFromListing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleFactory)
	buyer := createTestUser(t, db, models.UserRoleCompany)
	listing := createTestListing(t, db, seller.ID, models.ItemStatusActive, 100)

	order, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{
		MaterialListingID: &listing.ID,
		Quantity:          20,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "MAT-"))
	assert.Equal(t, models.OrderTypeMaterial, order.OrderType)
	assert.Equal(t, "kg", order.Unit)
	assert.Equal(t, 3.5, order.UnitPrice)
	assert.Equal(t, 70.0, order.TotalPrice)
}

func TestCreateOrderRejectsOwnItem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 10)

	_, err := svc.CreateOrder(seller.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 1})
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "item")
}

func TestCreateOrderEnforcesMinimumOrderQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleFactory)
	buyer := createTestUser(t, db, models.UserRoleCompany)
	listing := createTestListing(t, db, seller.ID, models.ItemStatusActive, 100)

	// Factory minimum is 5 kg
	_, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{
		MaterialListingID: &listing.ID,
		Quantity:          2,
	})
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "quantity")
}

func TestCreateOrderRejectsFractionalProductQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 5)

	_, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 2.5})
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "quantity")

	// Materials sell by weight; fractional quantities stay legal there
	factory := createTestUser(t, db, models.UserRoleFactory)
	listing := createTestListing(t, db, factory.ID, models.ItemStatusActive, 100)

	order, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{
		MaterialListingID: &listing.ID,
		Quantity:          7.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 7.5, order.Quantity)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 2)

	_, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 3})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCreateOrderInactiveItemIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	draft := createTestProduct(t, db, seller.ID, models.ItemStatusDraft, 10)

	_, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &draft.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrderVisibleToPartiesOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	stranger := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 10)

	order, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.GetOrder(order.ID, buyer.ID)
	assert.NoError(t, err)
	_, err = svc.GetOrder(order.ID, seller.ID)
	assert.NoError(t, err)
	_, err = svc.GetOrder(order.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderLifecycleSellerDriven(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 10)

	order, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 4})
	require.NoError(t, err)
	number := order.OrderNumber
	require.NotEmpty(t, number)

	// Buyer cannot drive seller transitions
	_, err = svc.ConfirmOrder(order.ID, buyer.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	confirmed, err := svc.ConfirmOrder(order.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, number, confirmed.OrderNumber)

	// Confirming twice is an invalid transition
	_, err = svc.ConfirmOrder(order.ID, seller.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	started, err := svc.StartProgress(order.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProgress, started.Status)
	assert.Equal(t, number, started.OrderNumber)

	completed, err := svc.CompleteOrder(order.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)
	assert.Equal(t, number, completed.OrderNumber)

	// The number assigned at creation survives in the store too
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, number, reloaded.OrderNumber)
}

func TestCompleteOrderDecrementsStockAndMarksSold(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 5)

	order, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 5})
	require.NoError(t, err)
	_, err = svc.ConfirmOrder(order.ID, seller.ID)
	require.NoError(t, err)
	_, err = svc.CompleteOrder(order.ID, seller.ID)
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 0, reloaded.Quantity)
	assert.Equal(t, models.ItemStatusSold, reloaded.Status)
}

func TestCompleteOrderFailsWhenStockAlreadyGone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 5)

	order, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 5})
	require.NoError(t, err)
	_, err = svc.ConfirmOrder(order.ID, seller.ID)
	require.NoError(t, err)

	// Stock drained between confirmation and completion
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("quantity", 2).Error)

	_, err = svc.CompleteOrder(order.ID, seller.ID)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The order did not advance
	reloaded, err := svc.GetOrder(order.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, reloaded.Status)
}

func TestCompleteOrderLeavesListingQuantityAlone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleFactory)
	buyer := createTestUser(t, db, models.UserRoleCompany)
	listing := createTestListing(t, db, seller.ID, models.ItemStatusActive, 100)

	order, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{
		MaterialListingID: &listing.ID,
		Quantity:          100,
	})
	require.NoError(t, err)
	_, err = svc.ConfirmOrder(order.ID, seller.ID)
	require.NoError(t, err)
	_, err = svc.CompleteOrder(order.ID, seller.ID)
	require.NoError(t, err)

	// Sellers manage listing quantity and state themselves
	var reloaded models.MaterialListing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, 100.0, reloaded.Quantity)
	assert.Equal(t, models.ItemStatusActive, reloaded.Status)
}

func TestCancelOrderOpenToBothParties(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 10)

	first, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 1})
	require.NoError(t, err)
	cancelled, err := svc.CancelOrder(first.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	second, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.CancelOrder(second.ID, seller.ID)
	assert.NoError(t, err)

	// Cancelling a cancelled order is an invalid transition
	_, err = svc.CancelOrder(first.ID, buyer.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMyPurchasesAndSales(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	seller := createTestUser(t, db, models.UserRoleIndividual)
	buyer := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 10)

	order, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.CreateOrder(buyer.ID, &CreateOrderRequest{ProductID: &product.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.CancelOrder(order.ID, buyer.ID)
	require.NoError(t, err)

	params := utils.PaginationParams{Page: 1, Limit: 20}

	purchases, total, err := svc.MyPurchases(buyer.ID, params, OrderFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, purchases, 2)

	sales, total, err := svc.MySales(seller.ID, params, OrderFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, sales, 2)

	pending, total, err := svc.MyPurchases(buyer.ID, params, OrderFilters{Status: string(models.OrderStatusPending)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, pending, 1)

	// The seller has bought nothing
	_, total, err = svc.MyPurchases(seller.ID, params, OrderFilters{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestListOrdersRejectsUnknownFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	buyer := createTestUser(t, db, models.UserRoleIndividual)
	params := utils.PaginationParams{Page: 1, Limit: 20}

	_, _, err := svc.MyPurchases(buyer.ID, params, OrderFilters{Status: "shipped"})
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "status")

	_, _, err = svc.MySales(buyer.ID, params, OrderFilters{PaymentStatus: "overdue"})
	verr, ok = AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "payment_status")
}
