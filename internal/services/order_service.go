// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type OrderService struct {
	db *gorm.DB
}

type CreateOrderRequest struct {
	ProductID         *uuid.UUID `json:"product_id,omitempty"`
	MaterialListingID *uuid.UUID `json:"material_listing_id,omitempty"`
	Quantity          float64    `json:"quantity" validate:"required,gt=0"`
	Notes             string     `json:"notes"`
	DeliveryAddress   string     `json:"delivery_address" validate:"omitempty,max=500"`
}

type OrderFilters struct {
	Status        string
	PaymentStatus string
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrder places an order against one item. Seller, order type,
// unit and unit price come from the item, never from the request.
func (s *OrderService) CreateOrder(buyerID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	ref := models.ItemRef{ProductID: req.ProductID, MaterialListingID: req.MaterialListingID}
	if err := ref.Validate(); err != nil {
		return nil, NewValidationError("item", err.Error())
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var (
			sellerID  uuid.UUID
			unit      string
			unitPrice float64
		)

		if ref.ProductID != nil {
			var product models.Product
			if err := tx.First(&product, *ref.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if product.Status != models.ItemStatusActive {
				return ErrNotFound
			}
			if product.SellerID == buyerID {
				return NewValidationError("item", "You cannot order your own item.")
			}
			// Products are unit goods; a fractional quantity would bill
			// an amount the stock decrement can never match.
			if req.Quantity != math.Trunc(req.Quantity) {
				return NewValidationError("quantity", "Quantity must be a whole number for products.")
			}
			if req.Quantity > float64(product.Quantity) {
				return fmt.Errorf("%w: requested %.0f, available %d", ErrInsufficientStock, req.Quantity, product.Quantity)
			}
			sellerID = product.SellerID
			unit = "piece"
			unitPrice = product.Price
		} else {
			var listing models.MaterialListing
			if err := tx.First(&listing, *ref.MaterialListingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if listing.Status != models.ItemStatusActive {
				return ErrNotFound
			}
			if listing.SellerID == buyerID {
				return NewValidationError("item", "You cannot order your own item.")
			}
			if req.Quantity < listing.MinimumOrderQuantity {
				return NewValidationError("quantity",
					fmt.Sprintf("Minimum order quantity is %.2f %s.", listing.MinimumOrderQuantity, listing.Unit))
			}
			if req.Quantity > listing.Quantity {
				return fmt.Errorf("%w: requested %.2f, available %.2f", ErrInsufficientStock, req.Quantity, listing.Quantity)
			}
			sellerID = listing.SellerID
			unit = listing.Unit
			unitPrice = listing.PricePerUnit
		}

		order = &models.Order{
			OrderNumber:     models.GenerateOrderNumber(ref.Kind()),
			OrderType:       ref.Kind(),
			BuyerID:         buyerID,
			SellerID:        sellerID,
			ItemRef:         ref,
			Quantity:        req.Quantity,
			Unit:            unit,
			UnitPrice:       unitPrice,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusUnpaid,
			Notes:           req.Notes,
			DeliveryAddress: req.DeliveryAddress,
		}
		return tx.Create(order).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInsufficientStock) {
			return nil, err
		}
		if _, ok := AsValidationError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// GetOrder returns an order to its buyer or seller; anyone else sees
// not found.
func (s *OrderService) GetOrder(orderID, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Buyer").Preload("Seller").
		Preload("Product").Preload("MaterialListing").
		First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.BuyerID != userID && order.SellerID != userID {
		return nil, ErrNotFound
	}
	return &order, nil
}

func (s *OrderService) MyPurchases(buyerID uuid.UUID, params utils.PaginationParams, filters OrderFilters) ([]models.Order, int64, error) {
	return s.listOrders(s.db.Where("buyer_id = ?", buyerID), params, filters)
}

func (s *OrderService) MySales(sellerID uuid.UUID, params utils.PaginationParams, filters OrderFilters) ([]models.Order, int64, error) {
	return s.listOrders(s.db.Where("seller_id = ?", sellerID), params, filters)
}

func (s *OrderService) listOrders(base *gorm.DB, params utils.PaginationParams, filters OrderFilters) ([]models.Order, int64, error) {
	if filters.Status != "" && !models.OrderStatus(filters.Status).IsValid() {
		return nil, 0, NewValidationError("status", "Unknown order status.")
	}
	if filters.PaymentStatus != "" && !models.PaymentStatus(filters.PaymentStatus).IsValid() {
		return nil, 0, NewValidationError("payment_status", "Unknown payment status.")
	}

	query := base.Model(&models.Order{}).
		Preload("Buyer").Preload("Seller").
		Preload("Product").Preload("MaterialListing")

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filters.PaymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "total_price", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// ConfirmOrder moves pending to confirmed. Seller only.
func (s *OrderService) ConfirmOrder(orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.SellerID != userID {
		return nil, ErrPermissionDenied
	}
	if !order.CanTransitionTo(models.OrderStatusConfirmed) {
		return nil, fmt.Errorf("%w: %s -> confirmed", ErrInvalidTransition, order.Status)
	}

	now := time.Now()
	order.Status = models.OrderStatusConfirmed
	order.ConfirmedAt = &now
	if err := s.db.Save(order).Error; err != nil {
		return nil, fmt.Errorf("failed to confirm order: %w", err)
	}
	return order, nil
}

// StartProgress moves confirmed to in_progress. Seller only.
func (s *OrderService) StartProgress(orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.SellerID != userID {
		return nil, ErrPermissionDenied
	}
	if !order.CanTransitionTo(models.OrderStatusInProgress) {
		return nil, fmt.Errorf("%w: %s -> in_progress", ErrInvalidTransition, order.Status)
	}

	order.Status = models.OrderStatusInProgress
	if err := s.db.Save(order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return order, nil
}

// CompleteOrder finishes a confirmed or in-progress order. Seller only.
// Product stock is decremented with a guarded UPDATE inside the same
// transaction, so two concurrent completions cannot oversell; the
// product flips to sold when stock hits zero. Material listings carry
// no automatic sold rule; sellers manage listing state themselves.
func (s *OrderService) CompleteOrder(orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.SellerID != userID {
		return nil, ErrPermissionDenied
	}
	if !order.CanTransitionTo(models.OrderStatusCompleted) {
		return nil, fmt.Errorf("%w: %s -> completed", ErrInvalidTransition, order.Status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if order.ProductID != nil {
			qty := int(order.Quantity)
			result := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", *order.ProductID, qty).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}

			var remaining int
			if err := tx.Model(&models.Product{}).
				Where("id = ?", *order.ProductID).
				Pluck("quantity", &remaining).Error; err != nil {
				return err
			}
			if remaining == 0 {
				if err := tx.Model(&models.Product{}).
					Where("id = ?", *order.ProductID).
					UpdateColumn("status", models.ItemStatusSold).Error; err != nil {
					return err
				}
			}
		}

		now := time.Now()
		order.Status = models.OrderStatusCompleted
		order.CompletedAt = &now
		return tx.Save(order).Error
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to complete order: %w", err)
	}

	return order, nil
}

// CancelOrder is open to both parties while the order is not terminal.
func (s *OrderService) CancelOrder(orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(orderID, userID)
	if err != nil {
		return nil, err
	}
	if !order.CanTransitionTo(models.OrderStatusCancelled) {
		return nil, fmt.Errorf("%w: %s -> cancelled", ErrInvalidTransition, order.Status)
	}

	now := time.Now()
	order.Status = models.OrderStatusCancelled
	order.CancelledAt = &now
	if err := s.db.Save(order).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	return order, nil
}
