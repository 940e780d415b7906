// internal/models/engagement.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	ItemRef

	// Relationships
	User            User             `json:"-" gorm:"foreignKey:UserID"`
	Product         *Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	MaterialListing *MaterialListing `json:"material_listing,omitempty" gorm:"foreignKey:MaterialListingID"`
}

type Review struct {
	BaseModel
	ReviewerID uuid.UUID `json:"reviewer_id" gorm:"type:uuid;not null;index"`
	ItemRef
	OrderID            *uuid.UUID `json:"order_id" gorm:"type:uuid;index"`
	Rating             int        `json:"rating" gorm:"not null"`
	Comment            string     `json:"comment" gorm:"type:text"`
	IsVerifiedPurchase bool       `json:"is_verified_purchase" gorm:"default:false"`
	IsApproved         bool       `json:"is_approved" gorm:"default:true"`

	// Relationships
	Reviewer        User             `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
	Order           *Order           `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Product         *Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	MaterialListing *MaterialListing `json:"material_listing,omitempty" gorm:"foreignKey:MaterialListingID"`
}

type Message struct {
	BaseModel
	SenderID    uuid.UUID `json:"sender_id" gorm:"type:uuid;not null;index"`
	RecipientID uuid.UUID `json:"recipient_id" gorm:"type:uuid;not null;index"`
	ItemRef
	Subject string     `json:"subject" gorm:"size:255"`
	Body    string     `json:"body" gorm:"type:text;not null"`
	IsRead  bool       `json:"is_read" gorm:"default:false;index"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	Sender          User             `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Recipient       User             `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
	Product         *Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	MaterialListing *MaterialListing `json:"material_listing,omitempty" gorm:"foreignKey:MaterialListingID"`
}

type Report struct {
	BaseModel
	ReporterID uuid.UUID `json:"reporter_id" gorm:"type:uuid;not null;index"`
	ItemRef
	Reason      ReportReason `json:"reason" gorm:"type:varchar(20);not null"`
	Description string       `json:"description" gorm:"type:text"`
	Status      ReportStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	AdminNotes  string       `json:"admin_notes,omitempty" gorm:"type:text"`
	ResolvedBy  *uuid.UUID   `json:"resolved_by" gorm:"type:uuid"`
	ResolvedAt  *time.Time   `json:"resolved_at"`

	// Relationships
	Reporter        User             `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
	Resolver        *User            `json:"resolver,omitempty" gorm:"foreignKey:ResolvedBy"`
	Product         *Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	MaterialListing *MaterialListing `json:"material_listing,omitempty" gorm:"foreignKey:MaterialListingID"`
}
