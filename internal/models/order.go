// internal/models/order.go
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	BaseModel
	OrderNumber string    `json:"order_number" gorm:"uniqueIndex;size:40;not null"`
	OrderType   OrderType `json:"order_type" gorm:"type:varchar(20);not null;index"`
	BuyerID     uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SellerID    uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	ItemRef
	Quantity        float64       `json:"quantity" gorm:"type:decimal(10,2);not null"`
	Unit            string        `json:"unit" gorm:"size:20"`
	UnitPrice       float64       `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	TotalPrice      float64       `json:"total_price" gorm:"type:decimal(12,2);not null"`
	Status          OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'unpaid';index"`
	PaymentRef      string        `json:"payment_ref,omitempty" gorm:"size:255"`
	Notes           string        `json:"notes" gorm:"type:text"`
	DeliveryAddress string        `json:"delivery_address" gorm:"size:500"`
	ConfirmedAt     *time.Time    `json:"confirmed_at"`
	CompletedAt     *time.Time    `json:"completed_at"`
	CancelledAt     *time.Time    `json:"cancelled_at"`
	RefundedAt      *time.Time    `json:"refunded_at"`

	// Relationships
	Buyer           User             `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller          User             `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Product         *Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	MaterialListing *MaterialListing `json:"material_listing,omitempty" gorm:"foreignKey:MaterialListingID"`
}

// GenerateOrderNumber builds the immutable human-facing identifier:
// a type prefix, a second-resolution timestamp and 8 hex characters of
// a fresh UUID, upper-cased.
func GenerateOrderNumber(orderType OrderType) string {
	prefix := "PRD"
	if orderType == OrderTypeMaterial {
		prefix = "MAT"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102150405"), suffix)
}

// BeforeSave recomputes the total so it can never drift from
// quantity x unit_price, whatever code path wrote the order.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	o.TotalPrice = o.Quantity * o.UnitPrice
	return nil
}

// CanTransitionTo encodes the order state machine. Refunded is a modeled
// terminal state reached through the payment flow only.
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	switch next {
	case OrderStatusConfirmed:
		return o.Status == OrderStatusPending
	case OrderStatusInProgress:
		return o.Status == OrderStatusConfirmed
	case OrderStatusCompleted:
		return o.Status == OrderStatusConfirmed || o.Status == OrderStatusInProgress
	case OrderStatusCancelled:
		return o.Status != OrderStatusCompleted && o.Status != OrderStatusCancelled &&
			o.Status != OrderStatusRefunded
	case OrderStatusRefunded:
		return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
	}
	return false
}

// IsTerminal reports whether no further status transitions apply.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCancelled || o.Status == OrderStatusRefunded
}
