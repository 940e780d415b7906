// internal/services/listing_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

// ListingService manages material listings, the bulk-goods counterpart
// of products.
type ListingService struct {
	db *gorm.DB
}

type CreateListingRequest struct {
	MaterialID           uuid.UUID               `json:"material_id" validate:"required"`
	Title                string                  `json:"title" validate:"required,max=255"`
	TitleAr              string                  `json:"title_ar" validate:"omitempty,max=255"`
	Description          string                  `json:"description"`
	DescriptionAr        string                  `json:"description_ar"`
	Quantity             float64                 `json:"quantity" validate:"required,gt=0"`
	Unit                 string                  `json:"unit" validate:"omitempty,unit"`
	PricePerUnit         float64                 `json:"price_per_unit" validate:"required,gt=0"`
	MinimumOrderQuantity float64                 `json:"minimum_order_quantity" validate:"omitempty,gt=0"`
	Condition            models.ListingCondition `json:"condition" validate:"required"`
	Location             string                  `json:"location" validate:"omitempty,max=255"`
	Latitude             *float64                `json:"latitude,omitempty"`
	Longitude            *float64                `json:"longitude,omitempty"`
	AvailableFrom        *time.Time              `json:"available_from,omitempty"`
	AvailableUntil       *time.Time              `json:"available_until,omitempty"`
	Images               []string                `json:"images,omitempty"`
}

type UpdateListingRequest struct {
	Title                *string                  `json:"title,omitempty" validate:"omitempty,max=255"`
	TitleAr              *string                  `json:"title_ar,omitempty" validate:"omitempty,max=255"`
	Description          *string                  `json:"description,omitempty"`
	DescriptionAr        *string                  `json:"description_ar,omitempty"`
	Quantity             *float64                 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit                 *string                  `json:"unit,omitempty" validate:"omitempty,unit"`
	PricePerUnit         *float64                 `json:"price_per_unit,omitempty" validate:"omitempty,gt=0"`
	MinimumOrderQuantity *float64                 `json:"minimum_order_quantity,omitempty" validate:"omitempty,gt=0"`
	Condition            *models.ListingCondition `json:"condition,omitempty"`
	Location             *string                  `json:"location,omitempty" validate:"omitempty,max=255"`
	Latitude             *float64                 `json:"latitude,omitempty"`
	Longitude            *float64                 `json:"longitude,omitempty"`
	AvailableFrom        *time.Time               `json:"available_from,omitempty"`
	AvailableUntil       *time.Time               `json:"available_until,omitempty"`
}

type ListingFilters struct {
	MaterialID  *uuid.UUID
	Condition   string
	MinPrice    *float64
	MaxPrice    *float64
	MinQuantity *float64
	MaxQuantity *float64
	Location    string
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

func (s *ListingService) CreateListing(sellerID uuid.UUID, req *CreateListingRequest) (*models.MaterialListing, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !req.Condition.IsValid() {
		return nil, NewValidationError("condition", "Condition must be one of: excellent, good, acceptable, poor.")
	}

	var material models.Material
	if err := s.db.Where("is_active = ?", true).First(&material, req.MaterialID).Error; err != nil {
		return nil, NewValidationError("material_id", "Material does not exist.")
	}

	// The material's default unit applies unless the seller overrides it
	unit := req.Unit
	if unit == "" {
		unit = material.DefaultUnit
	}

	minOrder := req.MinimumOrderQuantity
	if minOrder == 0 {
		minOrder = 1
	}

	listing := &models.MaterialListing{
		SellerID:             sellerID,
		MaterialID:           req.MaterialID,
		Title:                req.Title,
		TitleAr:              req.TitleAr,
		Description:          req.Description,
		DescriptionAr:        req.DescriptionAr,
		Quantity:             req.Quantity,
		Unit:                 unit,
		PricePerUnit:         req.PricePerUnit,
		MinimumOrderQuantity: minOrder,
		Condition:            req.Condition,
		Status:               models.ItemStatusDraft,
		Location:             req.Location,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		AvailableFrom:        req.AvailableFrom,
		AvailableUntil:       req.AvailableUntil,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return err
		}
		for i, url := range req.Images {
			image := &models.ListingImage{
				ListingID: listing.ID,
				ImageURL:  url,
				IsPrimary: i == 0,
				SortOrder: i,
			}
			if err := tx.Create(image).Error; err != nil {
				return err
			}
			listing.Images = append(listing.Images, *image)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return listing, nil
}

func (s *ListingService) GetListing(listingID uuid.UUID, viewerID *uuid.UUID) (*models.MaterialListing, error) {
	var listing models.MaterialListing
	if err := s.db.Preload("Seller").Preload("Material").Preload("Material.Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !listing.IsVisibleTo(viewerID) {
		return nil, ErrNotFound
	}

	s.db.Model(&models.MaterialListing{}).
		Where("id = ?", listingID).
		UpdateColumn("views_count", gorm.Expr("views_count + 1"))
	listing.ViewsCount++

	return &listing, nil
}

func (s *ListingService) ListListings(params utils.PaginationParams, filters ListingFilters, viewerID *uuid.UUID) ([]models.MaterialListing, int64, error) {
	query := s.db.Model(&models.MaterialListing{}).
		Preload("Seller").Preload("Material").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		})

	if viewerID != nil {
		query = query.Where("status = ? OR seller_id = ?", models.ItemStatusActive, *viewerID)
	} else {
		query = query.Where("status = ?", models.ItemStatusActive)
	}

	if filters.MaterialID != nil {
		query = query.Where("material_id = ?", *filters.MaterialID)
	}
	if filters.Condition != "" {
		query = query.Where("condition = ?", filters.Condition)
	}
	if filters.MinPrice != nil {
		query = query.Where("price_per_unit >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price_per_unit <= ?", *filters.MaxPrice)
	}
	if filters.MinQuantity != nil {
		query = query.Where("quantity >= ?", *filters.MinQuantity)
	}
	if filters.MaxQuantity != nil {
		query = query.Where("quantity <= ?", *filters.MaxQuantity)
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
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	allowedSortFields := []string{"created_at", "price_per_unit", "quantity", "views_count", "published_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var listings []models.MaterialListing
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}

func (s *ListingService) MyListings(sellerID uuid.UUID, params utils.PaginationParams) ([]models.MaterialListing, int64, error) {
	query := s.db.Model(&models.MaterialListing{}).
		Preload("Material").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		Where("seller_id = ?", sellerID)

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	allowedSortFields := []string{"created_at", "price_per_unit", "status", "views_count"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var listings []models.MaterialListing
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}

func (s *ListingService) UpdateListing(listingID, sellerID uuid.UUID, req *UpdateListingRequest) (*models.MaterialListing, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	listing, err := s.ownedListing(listingID, sellerID)
	if err != nil {
		return nil, err
	}

	if req.Condition != nil {
		if !req.Condition.IsValid() {
			return nil, NewValidationError("condition", "Condition must be one of: excellent, good, acceptable, poor.")
		}
		listing.Condition = *req.Condition
	}
	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.TitleAr != nil {
		listing.TitleAr = *req.TitleAr
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.DescriptionAr != nil {
		listing.DescriptionAr = *req.DescriptionAr
	}
	if req.Quantity != nil {
		listing.Quantity = *req.Quantity
	}
	if req.Unit != nil && *req.Unit != "" {
		listing.Unit = *req.Unit
	}
	if req.PricePerUnit != nil {
		listing.PricePerUnit = *req.PricePerUnit
	}
	if req.MinimumOrderQuantity != nil {
		listing.MinimumOrderQuantity = *req.MinimumOrderQuantity
	}
	if req.Location != nil {
		listing.Location = *req.Location
	}
	if req.Latitude != nil {
		listing.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		listing.Longitude = req.Longitude
	}
	if req.AvailableFrom != nil {
		listing.AvailableFrom = req.AvailableFrom
	}
	if req.AvailableUntil != nil {
		listing.AvailableUntil = req.AvailableUntil
	}

	if err := s.db.Save(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	return listing, nil
}

func (s *ListingService) DeleteListing(listingID, sellerID uuid.UUID) error {
	listing, err := s.ownedListing(listingID, sellerID)
	if err != nil {
		return err
	}

	listing.Status = models.ItemStatusDeleted
	if err := s.db.Save(listing).Error; err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

func (s *ListingService) PublishListing(listingID, sellerID uuid.UUID) (*models.MaterialListing, error) {
	listing, err := s.ownedListing(listingID, sellerID)
	if err != nil {
		return nil, err
	}

	if listing.Status != models.ItemStatusDraft {
		return nil, fmt.Errorf("%w: only draft listings can be published", ErrInvalidTransition)
	}

	listing.Status = models.ItemStatusActive
	if listing.PublishedAt == nil {
		now := time.Now()
		listing.PublishedAt = &now
	}

	if err := s.db.Save(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to publish listing: %w", err)
	}
	return listing, nil
}

func (s *ListingService) ownedListing(listingID, sellerID uuid.UUID) (*models.MaterialListing, error) {
	var listing models.MaterialListing
	if err := s.db.First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if listing.SellerID != sellerID {
		return nil, ErrPermissionDenied
	}
	return &listing, nil
}
