// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	CategoryID    uuid.UUID               `json:"category_id" validate:"required"`
	Title         string                  `json:"title" validate:"required,max=255"`
	TitleAr       string                  `json:"title_ar" validate:"omitempty,max=255"`
	Description   string                  `json:"description"`
	DescriptionAr string                  `json:"description_ar"`
	Price         float64                 `json:"price" validate:"required,gt=0"`
	Quantity      int                     `json:"quantity" validate:"omitempty,min=1"`
	Condition     models.ProductCondition `json:"condition" validate:"required"`
	Location      string                  `json:"location" validate:"omitempty,max=255"`
	Latitude      *float64                `json:"latitude,omitempty"`
	Longitude     *float64                `json:"longitude,omitempty"`
	Images        []string                `json:"images,omitempty"`
}

type UpdateProductRequest struct {
	CategoryID    *uuid.UUID               `json:"category_id,omitempty"`
	Title         *string                  `json:"title,omitempty" validate:"omitempty,max=255"`
	TitleAr       *string                  `json:"title_ar,omitempty" validate:"omitempty,max=255"`
	Description   *string                  `json:"description,omitempty"`
	DescriptionAr *string                  `json:"description_ar,omitempty"`
	Price         *float64                 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Quantity      *int                     `json:"quantity,omitempty" validate:"omitempty,min=0"`
	Condition     *models.ProductCondition `json:"condition,omitempty"`
	Location      *string                  `json:"location,omitempty" validate:"omitempty,max=255"`
	Latitude      *float64                 `json:"latitude,omitempty"`
	Longitude     *float64                 `json:"longitude,omitempty"`
}

type ProductFilters struct {
	CategoryID *uuid.UUID
	Condition  string
	MinPrice   *float64
	MaxPrice   *float64
	Location   string
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// ParsePriceRange reads optional min/max price query values.
func ParsePriceRange(minStr, maxStr string) (*float64, *float64) {
	var minPrice, maxPrice *float64
	if v, err := strconv.ParseFloat(minStr, 64); err == nil {
		minPrice = &v
	}
	if v, err := strconv.ParseFloat(maxStr, 64); err == nil {
		maxPrice = &v
	}
	return minPrice, maxPrice
}

func (s *ProductService) CreateProduct(sellerID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !req.Condition.IsValid() {
		return nil, NewValidationError("condition", "Condition must be one of: new, like_new, good, fair, poor.")
	}

	var category models.Category
	if err := s.db.Where("is_active = ?", true).First(&category, req.CategoryID).Error; err != nil {
		return nil, NewValidationError("category_id", "Category does not exist.")
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	product := &models.Product{
		SellerID:      sellerID,
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		TitleAr:       req.TitleAr,
		Description:   req.Description,
		DescriptionAr: req.DescriptionAr,
		Price:         req.Price,
		Quantity:      quantity,
		Condition:     req.Condition,
		Status:        models.ItemStatusDraft,
		Location:      req.Location,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		// First image becomes the primary one, order preserved
		for i, url := range req.Images {
			image := &models.ProductImage{
				ProductID: product.ID,
				ImageURL:  url,
				IsPrimary: i == 0,
				SortOrder: i,
			}
			if err := tx.Create(image).Error; err != nil {
				return err
			}
			product.Images = append(product.Images, *image)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetProduct fetches one product and counts the view. Non-active items
// are only visible to their owner.
func (s *ProductService) GetProduct(productID uuid.UUID, viewerID *uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Seller").Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !product.IsVisibleTo(viewerID) {
		return nil, ErrNotFound
	}

	// Every single fetch counts as a view
	s.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("views_count", gorm.Expr("views_count + 1"))
	product.ViewsCount++

	return &product, nil
}

func (s *ProductService) ListProducts(params utils.PaginationParams, filters ProductFilters, viewerID *uuid.UUID) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).
		Preload("Seller").Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		})

	// Anonymous callers see active items only; authenticated callers
	// also see their own regardless of status.
	if viewerID != nil {
		query = query.Where("status = ? OR seller_id = ?", models.ItemStatusActive, *viewerID)
	} else {
		query = query.Where("status = ?", models.ItemStatusActive)
	}

	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Condition != "" {
		query = query.Where("condition = ?", filters.Condition)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.Location != "" {
		query = query.Where("location LIKE ?", "%"+filters.Location+"%")
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where(
			"title LIKE ? OR title_ar LIKE ? OR description LIKE ?",
			search, search, search,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "price", "views_count", "published_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) MyProducts(sellerID uuid.UUID, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		Where("seller_id = ?", sellerID)

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "price", "status", "views_count"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) UpdateProduct(productID, sellerID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.ownedProduct(productID, sellerID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		var category models.Category
		if err := s.db.Where("is_active = ?", true).First(&category, *req.CategoryID).Error; err != nil {
			return nil, NewValidationError("category_id", "Category does not exist.")
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Condition != nil {
		if !req.Condition.IsValid() {
			return nil, NewValidationError("condition", "Condition must be one of: new, like_new, good, fair, poor.")
		}
		product.Condition = *req.Condition
	}
	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.TitleAr != nil {
		product.TitleAr = *req.TitleAr
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.DescriptionAr != nil {
		product.DescriptionAr = *req.DescriptionAr
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.Location != nil {
		product.Location = *req.Location
	}
	if req.Latitude != nil {
		product.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		product.Longitude = req.Longitude
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct moves the product into the deleted status; nothing is
// physically removed.
func (s *ProductService) DeleteProduct(productID, sellerID uuid.UUID) error {
	product, err := s.ownedProduct(productID, sellerID)
	if err != nil {
		return err
	}

	product.Status = models.ItemStatusDeleted
	if err := s.db.Save(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// PublishProduct activates a draft. published_at is stamped on the
// first activation only and never moves afterwards.
func (s *ProductService) PublishProduct(productID, sellerID uuid.UUID) (*models.Product, error) {
	product, err := s.ownedProduct(productID, sellerID)
	if err != nil {
		return nil, err
	}

	if product.Status != models.ItemStatusDraft {
		return nil, fmt.Errorf("%w: only draft products can be published", ErrInvalidTransition)
	}

	product.Status = models.ItemStatusActive
	if product.PublishedAt == nil {
		now := time.Now()
		product.PublishedAt = &now
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to publish product: %w", err)
	}
	return product, nil
}

func (s *ProductService) ownedProduct(productID, sellerID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if product.SellerID != sellerID {
		return nil, ErrPermissionDenied
	}
	return &product, nil
}
