// internal/models/catalog.go
package models

import (
	"github.com/google/uuid"
)

type Category struct {
	BaseModel
	Name        string     `json:"name" gorm:"uniqueIndex;size:100;not null"`
	NameAr      string     `json:"name_ar" gorm:"size:100"`
	Description string     `json:"description" gorm:"type:text"`
	ParentID    *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`
	// No column default: a zero value must reach the store as false,
	// and the service layer always sets the flag explicitly.
	IsActive bool `json:"is_active"`

	// Relationships
	Parent   *Category  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Products []Product  `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

// Material is master data describing a tradable raw material. Listings
// reference a material and inherit its default unit.
type Material struct {
	BaseModel
	Name        string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	NameAr      string    `json:"name_ar" gorm:"size:100"`
	Description string    `json:"description" gorm:"type:text"`
	CategoryID  uuid.UUID `json:"category_id" gorm:"type:uuid;not null;index"`
	DefaultUnit string    `json:"default_unit" gorm:"size:20;not null"`
	IsActive    bool      `json:"is_active"`

	// Relationships
	Category Category          `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Listings []MaterialListing `json:"listings,omitempty" gorm:"foreignKey:MaterialID"`
}
