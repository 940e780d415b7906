// internal/models/listing.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	SellerID       uuid.UUID        `json:"seller_id" gorm:"type:uuid;not null;index"`
	CategoryID     uuid.UUID        `json:"category_id" gorm:"type:uuid;not null;index"`
	Title          string           `json:"title" gorm:"size:255;not null"`
	TitleAr        string           `json:"title_ar" gorm:"size:255"`
	Description    string           `json:"description" gorm:"type:text"`
	DescriptionAr  string           `json:"description_ar" gorm:"type:text"`
	Price          float64          `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity       int              `json:"quantity" gorm:"not null;default:1"`
	Condition      ProductCondition `json:"condition" gorm:"type:varchar(20);not null"`
	Status         ItemStatus       `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Location       string           `json:"location" gorm:"size:255"`
	Latitude       *float64         `json:"latitude" gorm:"type:decimal(9,6)"`
	Longitude      *float64         `json:"longitude" gorm:"type:decimal(9,6)"`
	ViewsCount     int64            `json:"views_count" gorm:"default:0"`
	FavoritesCount int64            `json:"favorites_count" gorm:"default:0"`
	PublishedAt    *time.Time       `json:"published_at"`

	// Relationships
	Seller   User           `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Category Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Images   []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID"`
}

// IsVisibleTo reports whether a viewer may see this product. Non-active
// items are visible to their owner only.
func (p *Product) IsVisibleTo(viewerID *uuid.UUID) bool {
	if p.Status == ItemStatusActive {
		return true
	}
	return viewerID != nil && *viewerID == p.SellerID
}

type ProductImage struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ImageURL  string    `json:"image_url" gorm:"size:500;not null"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
}

type MaterialListing struct {
	BaseModel
	SellerID             uuid.UUID        `json:"seller_id" gorm:"type:uuid;not null;index"`
	MaterialID           uuid.UUID        `json:"material_id" gorm:"type:uuid;not null;index"`
	Title                string           `json:"title" gorm:"size:255;not null"`
	TitleAr              string           `json:"title_ar" gorm:"size:255"`
	Description          string           `json:"description" gorm:"type:text"`
	DescriptionAr        string           `json:"description_ar" gorm:"type:text"`
	Quantity             float64          `json:"quantity" gorm:"type:decimal(10,2);not null"`
	Unit                 string           `json:"unit" gorm:"size:20;not null"`
	PricePerUnit         float64          `json:"price_per_unit" gorm:"type:decimal(10,2);not null"`
	MinimumOrderQuantity float64          `json:"minimum_order_quantity" gorm:"type:decimal(10,2);default:1"`
	Condition            ListingCondition `json:"condition" gorm:"type:varchar(20);not null"`
	Status               ItemStatus       `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Location             string           `json:"location" gorm:"size:255"`
	Latitude             *float64         `json:"latitude" gorm:"type:decimal(9,6)"`
	Longitude            *float64         `json:"longitude" gorm:"type:decimal(9,6)"`
	AvailableFrom        *time.Time       `json:"available_from"`
	AvailableUntil       *time.Time       `json:"available_until"`
	ViewsCount           int64            `json:"views_count" gorm:"default:0"`
	FavoritesCount       int64            `json:"favorites_count" gorm:"default:0"`
	PublishedAt          *time.Time       `json:"published_at"`

	// Relationships
	Seller   User           `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Material Material       `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
	Images   []ListingImage `json:"images,omitempty" gorm:"foreignKey:ListingID"`
}

// TotalPrice is the derived asking price for the whole quantity.
func (l *MaterialListing) TotalPrice() float64 {
	return l.Quantity * l.PricePerUnit
}

func (l *MaterialListing) IsVisibleTo(viewerID *uuid.UUID) bool {
	if l.Status == ItemStatusActive {
		return true
	}
	return viewerID != nil && *viewerID == l.SellerID
}

type ListingImage struct {
	BaseModel
	ListingID uuid.UUID `json:"listing_id" gorm:"type:uuid;not null;index"`
	ImageURL  string    `json:"image_url" gorm:"size:500;not null"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
}
