// internal/services/services_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaddid/marketplace-backend/internal/config"
	"github.com/jaddid/marketplace-backend/internal/models"
)

var userSeq int

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database survives gorm's connection pooling but
	// stays isolated per test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.RevokedToken{},
		&models.Category{},
		&models.Material{},
		&models.Product{},
		&models.ProductImage{},
		&models.MaterialListing{},
		&models.ListingImage{},
		&models.Cart{},
		&models.CartItem{},
		&models.Favorite{},
		&models.Order{},
		&models.Review{},
		&models.Message{},
		&models.Report{},
		&models.AuditLog{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	userSeq++
	user := &models.User{
		Email:     fmt.Sprintf("user%d@example.com", userSeq),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", userSeq),
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, user.SetPassword("unrelated-passphrase"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     fmt.Sprintf("Category %s", uuid.New().String()[:8]),
		IsActive: true,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestMaterial(t *testing.T, db *gorm.DB) *models.Material {
	t.Helper()

	category := createTestCategory(t, db)
	material := &models.Material{
		Name:        fmt.Sprintf("Material %s", uuid.New().String()[:8]),
		CategoryID:  category.ID,
		DefaultUnit: "kg",
		IsActive:    true,
	}
	require.NoError(t, db.Create(material).Error)
	return material
}

func createTestProduct(t *testing.T, db *gorm.DB, sellerID uuid.UUID, status models.ItemStatus, quantity int) *models.Product {
	t.Helper()

	category := createTestCategory(t, db)
	product := &models.Product{
		SellerID:   sellerID,
		CategoryID: category.ID,
		Title:      "Refurbished oak table",
		Price:      120,
		Quantity:   quantity,
		Condition:  models.ProductConditionGood,
		Status:     status,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createTestListing(t *testing.T, db *gorm.DB, sellerID uuid.UUID, status models.ItemStatus, quantity float64) *models.MaterialListing {
	t.Helper()

	material := createTestMaterial(t, db)
	listing := &models.MaterialListing{
		SellerID:             sellerID,
		MaterialID:           material.ID,
		Title:                "Sorted scrap aluminium",
		Quantity:             quantity,
		Unit:                 "kg",
		PricePerUnit:         3.5,
		MinimumOrderQuantity: 5,
		Condition:            models.ListingConditionGood,
		Status:               status,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}
