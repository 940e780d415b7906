// internal/models/user.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	BaseModel
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	FirstName    string     `json:"first_name" gorm:"size:100;not null"`
	LastName     string     `json:"last_name" gorm:"size:100;not null"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'individual'"`
	IsVerified   bool       `json:"is_verified" gorm:"default:false"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	IsStaff      bool       `json:"is_staff" gorm:"default:false"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Profile          *Profile          `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	Products         []Product         `json:"products,omitempty" gorm:"foreignKey:SellerID"`
	MaterialListings []MaterialListing `json:"material_listings,omitempty" gorm:"foreignKey:SellerID"`
}

// BeforeSave keeps emails canonical regardless of which code path writes them.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

type Profile struct {
	BaseModel
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	Phone        string    `json:"phone" gorm:"size:30"`
	Address      string    `json:"address" gorm:"size:500"`
	Bio          string    `json:"bio" gorm:"type:text"`
	ProfileImage string    `json:"profile_image" gorm:"size:500"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

// RevokedToken records a blacklisted refresh token. Tokens are keyed by
// JTI so a logout invalidates only the presented token.
type RevokedToken struct {
	BaseModel
	JTI       string    `json:"jti" gorm:"uniqueIndex;size:64;not null"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
}
