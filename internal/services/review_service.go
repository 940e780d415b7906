// internal/services/review_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type ReviewService struct {
	db *gorm.DB
}

type CreateReviewRequest struct {
	ProductID         *uuid.UUID `json:"product_id,omitempty"`
	MaterialListingID *uuid.UUID `json:"material_listing_id,omitempty"`
	OrderID           *uuid.UUID `json:"order_id,omitempty"`
	Rating            int        `json:"rating" validate:"required,min=1,max=5"`
	Comment           string     `json:"comment"`
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// CreateReview records a rating for one item. is_verified_purchase is
// computed, never accepted from the client: it is true only when the
// reviewer completed an order for the same item.
func (s *ReviewService) CreateReview(reviewerID uuid.UUID, req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	ref := models.ItemRef{ProductID: req.ProductID, MaterialListingID: req.MaterialListingID}
	if err := ref.Validate(); err != nil {
		return nil, NewValidationError("item", err.Error())
	}

	if err := s.checkItemExists(ref); err != nil {
		return nil, err
	}

	review := &models.Review{
		ReviewerID: reviewerID,
		ItemRef:    ref,
		OrderID:    req.OrderID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		IsApproved: true,
	}
	review.IsVerifiedPurchase = s.isVerifiedPurchase(reviewerID, ref, req.OrderID)

	if err := s.db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

// ItemReviews lists approved reviews for one item.
func (s *ReviewService) ItemReviews(ref models.ItemRef, params utils.PaginationParams) ([]models.Review, int64, error) {
	if err := ref.Validate(); err != nil {
		return nil, 0, NewValidationError("item", err.Error())
	}

	query := s.db.Model(&models.Review{}).
		Preload("Reviewer").
		Where("is_approved = ?", true)
	if ref.ProductID != nil {
		query = query.Where("product_id = ?", *ref.ProductID)
	} else {
		query = query.Where("material_listing_id = ?", *ref.MaterialListingID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	allowedSortFields := []string{"created_at", "rating"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	return reviews, total, nil
}

func (s *ReviewService) MyReviews(reviewerID uuid.UUID, params utils.PaginationParams) ([]models.Review, int64, error) {
	query := s.db.Model(&models.Review{}).
		Preload("Product").Preload("MaterialListing").
		Where("reviewer_id = ?", reviewerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	allowedSortFields := []string{"created_at", "rating"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	return reviews, total, nil
}

func (s *ReviewService) checkItemExists(ref models.ItemRef) error {
	if ref.ProductID != nil {
		var product models.Product
		if err := s.db.First(&product, *ref.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}
		return nil
	}
	var listing models.MaterialListing
	if err := s.db.First(&listing, *ref.MaterialListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

func (s *ReviewService) isVerifiedPurchase(reviewerID uuid.UUID, ref models.ItemRef, orderID *uuid.UUID) bool {
	query := s.db.Model(&models.Order{}).
		Where("buyer_id = ? AND status = ?", reviewerID, models.OrderStatusCompleted)
	if orderID != nil {
		query = query.Where("id = ?", *orderID)
	}
	if ref.ProductID != nil {
		query = query.Where("product_id = ?", *ref.ProductID)
	} else {
		query = query.Where("material_listing_id = ?", *ref.MaterialListingID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}
