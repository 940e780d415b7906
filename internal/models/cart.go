// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

// Cart is a singleton per user, created lazily on first access.
type Cart struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`

	// Relationships
	User  User       `json:"-" gorm:"foreignKey:UserID"`
	Items []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID"`
}

// TotalItems sums line quantities across the cart.
func (c *Cart) TotalItems() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums line subtotals across the cart.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// CartItem carries one line per distinct item; uniqueness per
// (cart, product) and (cart, material_listing) is enforced with partial
// unique indexes created at migration time.
type CartItem struct {
	BaseModel
	CartID uuid.UUID `json:"cart_id" gorm:"type:uuid;not null;index"`
	ItemRef
	Quantity  float64 `json:"quantity" gorm:"type:decimal(10,2);not null;default:1"`
	UnitPrice float64 `json:"unit_price" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Cart            Cart             `json:"-" gorm:"foreignKey:CartID"`
	Product         *Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	MaterialListing *MaterialListing `json:"material_listing,omitempty" gorm:"foreignKey:MaterialListingID"`
}

func (i *CartItem) Subtotal() float64 {
	return i.Quantity * i.UnitPrice
}
