// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

func TestCreateProductStartsAsDraft(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)
	seller := createTestUser(t, db, models.UserRoleIndividual)
	category := createTestCategory(t, db)

	product, err := svc.CreateProduct(seller.ID, &CreateProductRequest{
		CategoryID: category.ID,
		Title:      "Reclaimed teak shelf",
		Price:      80,
		Condition:  models.ProductConditionLikeNew,
		Images:     []string{"/uploads/a.jpg", "/uploads/b.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.ItemStatusDraft, product.Status)
	assert.Nil(t, product.PublishedAt)
	assert.Equal(t, 1, product.Quantity) // defaults to one
	require.Len(t, product.Images, 2)
	assert.True(t, product.Images[0].IsPrimary)
	assert.False(t, product.Images[1].IsPrimary)
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)
	seller := createTestUser(t, db, models.UserRoleIndividual)

	inactive := &models.Category{Name: "Retired", IsActive: false}
	require.NoError(t, db.Create(inactive).Error)

	_, err := svc.CreateProduct(seller.ID, &CreateProductRequest{
		CategoryID: inactive.ID,
		Title:      "Orphan product",
		Price:      10,
		Condition:  models.ProductConditionGood,
	})
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "category_id")
}

func TestPublishProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)
	seller := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusDraft, 3)

	published, err := svc.PublishProduct(product.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusActive, published.Status)
	require.NotNil(t, published.PublishedAt)
	firstPublish := *published.PublishedAt

	// Only drafts publish
	_, err = svc.PublishProduct(product.ID, seller.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Re-publishing a re-drafted product keeps the original timestamp
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("status", models.ItemStatusDraft).Error)
	again, err := svc.PublishProduct(product.ID, seller.ID)
	require.NoError(t, err)
	assert.True(t, again.PublishedAt.Equal(firstPublish))
}

func TestPublishProductOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)
	seller := createTestUser(t, db, models.UserRoleIndividual)
	other := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusDraft, 3)

	_, err := svc.PublishProduct(product.ID, other.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestGetProductVisibilityAndViews(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)
	seller := createTestUser(t, db, models.UserRoleIndividual)
	viewer := createTestUser(t, db, models.UserRoleIndividual)
	draft := createTestProduct(t, db, seller.ID, models.ItemStatusDraft, 3)
	active := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 3)

	// Drafts are invisible to everyone but the owner
	_, err := svc.GetProduct(draft.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetProduct(draft.ID, &viewer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetProduct(draft.ID, &seller.ID)
	assert.NoError(t, err)

	// Each fetch of an active product counts a view
	got, err := svc.GetProduct(active.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewsCount)
	got, err = svc.GetProduct(active.ID, &viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewsCount)
}

func TestListProductsFiltersAndVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)
	seller := createTestUser(t, db, models.UserRoleIndividual)
	other := createTestUser(t, db, models.UserRoleIndividual)

	createTestProduct(t, db, seller.ID, models.ItemStatusActive, 3)
	createTestProduct(t, db, seller.ID, models.ItemStatusDraft, 3)
	createTestProduct(t, db, other.ID, models.ItemStatusActive, 3)

	params := utils.PaginationParams{Page: 1, Limit: 20}

	// Anonymous callers see active items only
	_, total, err := svc.ListProducts(params, ProductFilters{}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// The owner also sees their own draft
	_, total, err = svc.ListProducts(params, ProductFilters{}, &seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	// Price range filter
	minPrice, maxPrice := ParsePriceRange("150", "")
	_, total, err = svc.ListProducts(params, ProductFilters{MinPrice: minPrice, MaxPrice: maxPrice}, nil)
	require.NoError(t, err)
	assert.Zero(t, total) // everything costs 120
}

func TestUpdateProductPartial(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)
	seller := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 3)

	newPrice := 99.0
	updated, err := svc.UpdateProduct(product.ID, seller.ID, &UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 99.0, updated.Price)
	assert.Equal(t, product.Title, updated.Title) // untouched fields survive

	bad := models.ProductCondition("pristine")
	_, err = svc.UpdateProduct(product.ID, seller.ID, &UpdateProductRequest{Condition: &bad})
	_, ok := AsValidationError(err)
	assert.True(t, ok)
}

func TestDeleteProductIsSoft(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)
	seller := createTestUser(t, db, models.UserRoleIndividual)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 3)

	require.NoError(t, svc.DeleteProduct(product.ID, seller.ID))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, models.ItemStatusDeleted, reloaded.Status)
}

func TestMyProductsStatusFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)
	seller := createTestUser(t, db, models.UserRoleIndividual)

	createTestProduct(t, db, seller.ID, models.ItemStatusActive, 3)
	createTestProduct(t, db, seller.ID, models.ItemStatusDraft, 3)

	params := utils.PaginationParams{Page: 1, Limit: 20}
	_, total, err := svc.MyProducts(seller.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	params.Status = string(models.ItemStatusDraft)
	_, total, err = svc.MyProducts(seller.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
