// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/models"
)

type CartService struct {
	db *gorm.DB
}

type AddCartItemRequest struct {
	ProductID         *uuid.UUID `json:"product_id,omitempty"`
	MaterialListingID *uuid.UUID `json:"material_listing_id,omitempty"`
	Quantity          float64    `json:"quantity" validate:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

// CartView is the cart plus its computed totals.
type CartView struct {
	Cart       *models.Cart `json:"cart"`
	TotalItems float64      `json:"total_items"`
	TotalPrice float64      `json:"total_price"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetCart returns the caller's cart, creating it on first use.
func (s *CartService) GetCart(userID uuid.UUID) (*CartView, error) {
	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	return s.cartView(cart.ID)
}

// AddItem puts an item in the cart. Adding an item already present
// merges the quantities into the existing line.
func (s *CartService) AddItem(userID uuid.UUID, req *AddCartItemRequest) (*CartView, error) {
	ref := models.ItemRef{ProductID: req.ProductID, MaterialListingID: req.MaterialListingID}
	if err := ref.Validate(); err != nil {
		return nil, NewValidationError("item", err.Error())
	}
	if req.Quantity <= 0 {
		return nil, NewValidationError("quantity", "Quantity must be greater than zero.")
	}

	unitPrice, available, err := s.resolveItem(ref)
	if err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CartItem
		query := tx.Where("cart_id = ?", cart.ID)
		if ref.ProductID != nil {
			query = query.Where("product_id = ?", *ref.ProductID)
		} else {
			query = query.Where("material_listing_id = ?", *ref.MaterialListingID)
		}

		if err := query.First(&existing).Error; err == nil {
			newQuantity := existing.Quantity + req.Quantity
			if newQuantity > available {
				return fmt.Errorf("%w: requested %.2f, available %.2f", ErrInsufficientStock, newQuantity, available)
			}
			existing.Quantity = newQuantity
			existing.UnitPrice = unitPrice
			return tx.Save(&existing).Error
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if req.Quantity > available {
			return fmt.Errorf("%w: requested %.2f, available %.2f", ErrInsufficientStock, req.Quantity, available)
		}
		item := &models.CartItem{
			CartID:    cart.ID,
			ItemRef:   ref,
			Quantity:  req.Quantity,
			UnitPrice: unitPrice,
		}
		return tx.Create(item).Error
	}); err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.cartView(cart.ID)
}

func (s *CartService) UpdateItem(userID, itemID uuid.UUID, req *UpdateCartItemRequest) (*CartView, error) {
	if req.Quantity <= 0 {
		return nil, NewValidationError("quantity", "Quantity must be greater than zero.")
	}

	item, cart, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	_, available, err := s.resolveItem(item.ItemRef)
	if err != nil {
		return nil, err
	}
	if req.Quantity > available {
		return nil, fmt.Errorf("%w: requested %.2f, available %.2f", ErrInsufficientStock, req.Quantity, available)
	}

	item.Quantity = req.Quantity
	if err := s.db.Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.cartView(cart.ID)
}

func (s *CartService) RemoveItem(userID, itemID uuid.UUID) (*CartView, error) {
	item, cart, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Unscoped().Delete(item).Error; err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return s.cartView(cart.ID)
}

func (s *CartService) ClearCart(userID uuid.UUID) (*CartView, error) {
	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Unscoped().
		Where("cart_id = ?", cart.ID).
		Delete(&models.CartItem{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	return s.cartView(cart.ID)
}

func (s *CartService) getOrCreateCart(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	cart = models.Cart{UserID: userID}
	if err := s.db.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

func (s *CartService) cartView(cartID uuid.UUID) (*CartView, error) {
	var cart models.Cart
	if err := s.db.Preload("Items").
		Preload("Items.Product").Preload("Items.Product.Images").
		Preload("Items.MaterialListing").Preload("Items.MaterialListing.Images").
		First(&cart, cartID).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return &CartView{
		Cart:       &cart,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}, nil
}

func (s *CartService) ownedItem(userID, itemID uuid.UUID) (*models.CartItem, *models.Cart, error) {
	var item models.CartItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	var cart models.Cart
	if err := s.db.First(&cart, item.CartID).Error; err != nil {
		return nil, nil, fmt.Errorf("database error: %w", err)
	}
	// Another user's cart line reads as missing, not forbidden
	if cart.UserID != userID {
		return nil, nil, ErrNotFound
	}

	return &item, &cart, nil
}

// resolveItem returns the current unit price and purchasable quantity
// for an active item.
func (s *CartService) resolveItem(ref models.ItemRef) (float64, float64, error) {
	if ref.ProductID != nil {
		var product models.Product
		if err := s.db.First(&product, *ref.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, 0, ErrNotFound
			}
			return 0, 0, fmt.Errorf("database error: %w", err)
		}
		if product.Status != models.ItemStatusActive {
			return 0, 0, ErrNotFound
		}
		return product.Price, float64(product.Quantity), nil
	}

	var listing models.MaterialListing
	if err := s.db.First(&listing, *ref.MaterialListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrNotFound
		}
		return 0, 0, fmt.Errorf("database error: %w", err)
	}
	if listing.Status != models.ItemStatusActive {
		return 0, 0, ErrNotFound
	}
	return listing.PricePerUnit, listing.Quantity, nil
}
