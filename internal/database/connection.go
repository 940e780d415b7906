// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaddid/marketplace-backend/internal/config"
	"github.com/jaddid/marketplace-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
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
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes and constraints
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_role_active ON users(role, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_revoked_tokens_expires ON revoked_tokens(expires_at)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_seller ON products(seller_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_status ON products(category_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Material listing indexes
		"CREATE INDEX IF NOT EXISTS idx_listings_seller ON material_listings(seller_id)",
		"CREATE INDEX IF NOT EXISTS idx_listings_material_status ON material_listings(material_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_listings_created_at ON material_listings(created_at DESC)",

		// One line per item per cart; partial because exactly one side
		// of the item reference is set
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_product ON cart_items(cart_id, product_id) WHERE product_id IS NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_listing ON cart_items(cart_id, material_listing_id) WHERE material_listing_id IS NOT NULL",

		// One favorite per user per item
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_favorites_user_product ON favorites(user_id, product_id) WHERE product_id IS NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_favorites_user_listing ON favorites(user_id, material_listing_id) WHERE material_listing_id IS NOT NULL",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, payment_status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Engagement indexes
		"CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_reviews_listing ON reviews(material_listing_id)",
		"CREATE INDEX IF NOT EXISTS idx_messages_recipient_read ON messages(recipient_id, is_read)",
		"CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status, created_at DESC)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('english', title || ' ' || description))",
		"CREATE INDEX IF NOT EXISTS idx_listings_search ON material_listings USING GIN(to_tsvector('english', title || ' ' || description))",
	}

	// Exactly one of product_id / material_listing_id per row. Messages
	// may reference no item at all.
	constraints := []string{
		"ALTER TABLE cart_items ADD CONSTRAINT chk_cart_items_item_ref CHECK ((product_id IS NULL) != (material_listing_id IS NULL))",
		"ALTER TABLE favorites ADD CONSTRAINT chk_favorites_item_ref CHECK ((product_id IS NULL) != (material_listing_id IS NULL))",
		"ALTER TABLE orders ADD CONSTRAINT chk_orders_item_ref CHECK ((product_id IS NULL) != (material_listing_id IS NULL))",
		"ALTER TABLE reviews ADD CONSTRAINT chk_reviews_item_ref CHECK ((product_id IS NULL) != (material_listing_id IS NULL))",
		"ALTER TABLE reports ADD CONSTRAINT chk_reports_item_ref CHECK ((product_id IS NULL) != (material_listing_id IS NULL))",
		"ALTER TABLE messages ADD CONSTRAINT chk_messages_item_ref CHECK (product_id IS NULL OR material_listing_id IS NULL)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	for _, constraint := range constraints {
		if err := db.Exec(constraint).Error; err != nil {
			// Already exists on re-run
			continue
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Email:      "admin@jaddid.com",
			FirstName:  "System",
			LastName:   "Administrator",
			Role:       models.UserRoleAdmin,
			IsActive:   true,
			IsVerified: true,
			IsStaff:    true,
		}

		if err := admin.SetPassword("ChangeMe123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		// Admin user and profile land together or not at all
		if err := WithTransaction(db, func(tx *gorm.DB) error {
			if err := tx.Create(admin).Error; err != nil {
				return err
			}
			return tx.Create(&models.Profile{UserID: admin.ID}).Error
		}); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	// Base categories for recycled goods
	defaultCategories := []models.Category{
		{Name: "Furniture", NameAr: "أثاث", IsActive: true},
		{Name: "Electronics", NameAr: "إلكترونيات", IsActive: true},
		{Name: "Clothing", NameAr: "ملابس", IsActive: true},
		{Name: "Home & Garden", NameAr: "المنزل والحديقة", IsActive: true},
		{Name: "Construction", NameAr: "البناء", IsActive: true},
	}

	for _, category := range defaultCategories {
		var count int64
		db.Model(&models.Category{}).Where("name = ?", category.Name).Count(&count)
		if count == 0 {
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Warning: Failed to create category %s: %v", category.Name, err)
			}
		}
	}

	// Base raw materials
	type seedMaterial struct {
		name     string
		nameAr   string
		category string
		unit     string
	}
	defaultMaterials := []seedMaterial{
		{"Scrap Metal", "خردة معادن", "Construction", "ton"},
		{"Plastic (PET)", "بلاستيك", "Construction", "kg"},
		{"Cardboard", "كرتون", "Home & Garden", "kg"},
		{"Glass", "زجاج", "Construction", "kg"},
		{"Textile Waste", "مخلفات نسيجية", "Clothing", "kg"},
	}

	for _, m := range defaultMaterials {
		var count int64
		db.Model(&models.Material{}).Where("name = ?", m.name).Count(&count)
		if count > 0 {
			continue
		}

		var category models.Category
		if err := db.Where("name = ?", m.category).First(&category).Error; err != nil {
			continue
		}

		material := models.Material{
			Name:        m.name,
			NameAr:      m.nameAr,
			CategoryID:  category.ID,
			DefaultUnit: m.unit,
		}
		if err := db.Create(&material).Error; err != nil {
			log.Printf("Warning: Failed to create material %s: %v", m.name, err)
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
