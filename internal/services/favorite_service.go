// internal/services/favorite_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type FavoriteService struct {
	db *gorm.DB
}

type ToggleFavoriteRequest struct {
	ProductID         *uuid.UUID `json:"product_id,omitempty"`
	MaterialListingID *uuid.UUID `json:"material_listing_id,omitempty"`
}

type ToggleFavoriteResult struct {
	Favorited      bool  `json:"favorited"`
	FavoritesCount int64 `json:"favorites_count"`
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// ToggleFavorite flips the favorite state for (user, item). Two calls
// in a row restore the original state; the denormalized counter moves
// with the row and never drops below zero.
func (s *FavoriteService) ToggleFavorite(userID uuid.UUID, req *ToggleFavoriteRequest) (*ToggleFavoriteResult, error) {
	ref := models.ItemRef{ProductID: req.ProductID, MaterialListingID: req.MaterialListingID}
	if err := ref.Validate(); err != nil {
		return nil, NewValidationError("item", err.Error())
	}

	if err := s.checkItemExists(ref); err != nil {
		return nil, err
	}

	var result ToggleFavoriteResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Favorite
		query := tx.Where("user_id = ?", userID)
		if ref.ProductID != nil {
			query = query.Where("product_id = ?", *ref.ProductID)
		} else {
			query = query.Where("material_listing_id = ?", *ref.MaterialListingID)
		}

		if err := query.First(&existing).Error; err == nil {
			if err := tx.Unscoped().Delete(&existing).Error; err != nil {
				return err
			}
			if err := s.adjustCounter(tx, ref, -1); err != nil {
				return err
			}
			result.Favorited = false
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			favorite := &models.Favorite{UserID: userID, ItemRef: ref}
			if err := tx.Create(favorite).Error; err != nil {
				return err
			}
			if err := s.adjustCounter(tx, ref, 1); err != nil {
				return err
			}
			result.Favorited = true
		} else {
			return err
		}

		count, err := s.currentCounter(tx, ref)
		if err != nil {
			return err
		}
		result.FavoritesCount = count
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return &result, nil
}

func (s *FavoriteService) MyFavorites(userID uuid.UUID, params utils.PaginationParams) ([]models.Favorite, int64, error) {
	query := s.db.Model(&models.Favorite{}).
		Preload("Product").Preload("Product.Images").
		Preload("MaterialListing").Preload("MaterialListing.Images").
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count favorites: %w", err)
	}

	allowedSortFields := []string{"created_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var favorites []models.Favorite
	if err := query.Find(&favorites).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch favorites: %w", err)
	}

	return favorites, total, nil
}

func (s *FavoriteService) checkItemExists(ref models.ItemRef) error {
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

// adjustCounter moves favorites_count atomically; decrements clamp at
// zero so a drifted counter converges instead of going negative.
func (s *FavoriteService) adjustCounter(tx *gorm.DB, ref models.ItemRef, delta int) error {
	expr := gorm.Expr("favorites_count + 1")
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN favorites_count > 0 THEN favorites_count - 1 ELSE 0 END")
	}

	if ref.ProductID != nil {
		return tx.Model(&models.Product{}).
			Where("id = ?", *ref.ProductID).
			UpdateColumn("favorites_count", expr).Error
	}
	return tx.Model(&models.MaterialListing{}).
		Where("id = ?", *ref.MaterialListingID).
		UpdateColumn("favorites_count", expr).Error
}

func (s *FavoriteService) currentCounter(tx *gorm.DB, ref models.ItemRef) (int64, error) {
	var count int64
	if ref.ProductID != nil {
		err := tx.Model(&models.Product{}).
			Where("id = ?", *ref.ProductID).
			Pluck("favorites_count", &count).Error
		return count, err
	}
	err := tx.Model(&models.MaterialListing{}).
		Where("id = ?", *ref.MaterialListingID).
		Pluck("favorites_count", &count).Error
	return count, err
}
