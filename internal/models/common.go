// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the primary key client-side; no column default,
// so every driver behaves the same.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleIndividual UserRole = "individual"
	UserRoleFactory    UserRole = "factory"
	UserRoleCompany    UserRole = "company"
	UserRoleAdmin      UserRole = "admin"
)

// IsValid reports whether the role is one of the closed set.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleIndividual, UserRoleFactory, UserRoleCompany, UserRoleAdmin:
		return true
	}
	return false
}

// ItemStatus is the shared lifecycle for products and material listings.
type ItemStatus string

const (
	ItemStatusDraft    ItemStatus = "draft"
	ItemStatusActive   ItemStatus = "active"
	ItemStatusSold     ItemStatus = "sold"
	ItemStatusReserved ItemStatus = "reserved"
	ItemStatusDeleted  ItemStatus = "deleted"
)

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusDraft, ItemStatusActive, ItemStatusSold, ItemStatusReserved, ItemStatusDeleted:
		return true
	}
	return false
}

type ProductCondition string

const (
	ProductConditionNew     ProductCondition = "new"
	ProductConditionLikeNew ProductCondition = "like_new"
	ProductConditionGood    ProductCondition = "good"
	ProductConditionFair    ProductCondition = "fair"
	ProductConditionPoor    ProductCondition = "poor"
)

func (c ProductCondition) IsValid() bool {
	switch c {
	case ProductConditionNew, ProductConditionLikeNew, ProductConditionGood,
		ProductConditionFair, ProductConditionPoor:
		return true
	}
	return false
}

type ListingCondition string

const (
	ListingConditionExcellent  ListingCondition = "excellent"
	ListingConditionGood       ListingCondition = "good"
	ListingConditionAcceptable ListingCondition = "acceptable"
	ListingConditionPoor       ListingCondition = "poor"
)

func (c ListingCondition) IsValid() bool {
	switch c {
	case ListingConditionExcellent, ListingConditionGood,
		ListingConditionAcceptable, ListingConditionPoor:
		return true
	}
	return false
}

type OrderType string

const (
	OrderTypeProduct  OrderType = "product"
	OrderTypeMaterial OrderType = "material"
)

func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypeProduct, OrderTypeMaterial:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInProgress,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusPartial:
		return true
	}
	return false
}

type ReportReason string

const (
	ReportReasonSpam          ReportReason = "spam"
	ReportReasonInappropriate ReportReason = "inappropriate"
	ReportReasonFraud         ReportReason = "fraud"
	ReportReasonDuplicate     ReportReason = "duplicate"
	ReportReasonOther         ReportReason = "other"
)

func (r ReportReason) IsValid() bool {
	switch r {
	case ReportReasonSpam, ReportReasonInappropriate, ReportReasonFraud,
		ReportReasonDuplicate, ReportReasonOther:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewing ReportStatus = "reviewing"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// ErrItemRefExclusive is returned when an item reference does not point at
// exactly one sellable item.
var ErrItemRefExclusive = errors.New("exactly one of product_id or material_listing_id must be set")

// ItemRef is the polymorphic reference shared by cart items, favorites,
// orders, reviews, messages and reports. Exactly one side must be set;
// the invariant is validated here and backed by a CHECK constraint.
type ItemRef struct {
	ProductID         *uuid.UUID `json:"product_id,omitempty" gorm:"type:uuid;index"`
	MaterialListingID *uuid.UUID `json:"material_listing_id,omitempty" gorm:"type:uuid;index"`
}

func (r ItemRef) Validate() error {
	if (r.ProductID == nil) == (r.MaterialListingID == nil) {
		return ErrItemRefExclusive
	}
	return nil
}

// IsEmpty reports whether neither side is set. Messages allow an empty
// reference (a message need not be about an item).
func (r ItemRef) IsEmpty() bool {
	return r.ProductID == nil && r.MaterialListingID == nil
}

// Kind returns the order type implied by the reference.
func (r ItemRef) Kind() OrderType {
	if r.MaterialListingID != nil {
		return OrderTypeMaterial
	}
	return OrderTypeProduct
}

// SameItem reports whether two references point at the same sellable item.
func (r ItemRef) SameItem(other ItemRef) bool {
	if r.ProductID != nil && other.ProductID != nil {
		return *r.ProductID == *other.ProductID
	}
	if r.MaterialListingID != nil && other.MaterialListingID != nil {
		return *r.MaterialListingID == *other.MaterialListingID
	}
	return false
}
