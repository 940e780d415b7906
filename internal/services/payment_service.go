// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/config"
	"github.com/jaddid/marketplace-backend/internal/models"
)

type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string    `json:"payment_intent_id" validate:"required"`
	OrderID         uuid.UUID `json:"order_id" validate:"required"`
}

type RefundRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Reason  string    `json:"reason" validate:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

// CreatePaymentIntent opens a Stripe payment for an order. Buyer only;
// the amount always comes from the stored order total.
func (s *PaymentService) CreatePaymentIntent(userID, orderID uuid.UUID) (*PaymentIntentResponse, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.BuyerID != userID {
		return nil, ErrPermissionDenied
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, order.Status)
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: order already paid", ErrInvalidTransition)
	}

	amountInCents := int64(order.TotalPrice * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("order_number", order.OrderNumber)
	params.AddMetadata("buyer_id", userID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmPayment reconciles the order's payment status with Stripe.
func (s *PaymentService) ConfirmPayment(userID uuid.UUID, req *ConfirmPaymentRequest) (*models.Order, error) {
	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	var order models.Order
	if err := s.db.First(&order, req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.BuyerID != userID {
		return nil, ErrPermissionDenied
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		order.PaymentStatus = models.PaymentStatusPaid
		order.PaymentRef = pi.ID
	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusProcessing:
		// Not settled yet; leave payment status untouched
	default:
		order.PaymentStatus = models.PaymentStatusUnpaid
	}

	if err := s.db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return &order, nil
}

// ProcessRefund refunds a paid order through Stripe and moves it into
// the refunded terminal state. Admin only, enforced at the route.
func (s *PaymentService) ProcessRefund(req *RefundRequest) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.PaymentStatus != models.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: can only refund paid orders", ErrInvalidTransition)
	}
	if !order.CanTransitionTo(models.OrderStatusRefunded) {
		return nil, fmt.Errorf("%w: %s -> refunded", ErrInvalidTransition, order.Status)
	}

	if order.PaymentRef != "" {
		params := &stripe.RefundParams{
			PaymentIntent: stripe.String(order.PaymentRef),
			Reason:        stripe.String("requested_by_customer"),
		}
		if _, err := refund.New(params); err != nil {
			return nil, fmt.Errorf("failed to process refund: %w", err)
		}
	}

	now := time.Now()
	order.Status = models.OrderStatusRefunded
	order.PaymentStatus = models.PaymentStatusUnpaid
	order.RefundedAt = &now
	if req.Reason != "" {
		if order.Notes != "" {
			order.Notes += "\n"
		}
		order.Notes += "Refund reason: " + req.Reason
	}

	if err := s.db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return &order, nil
}
