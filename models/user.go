package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleTailor   = "tailor"
)

// User represents a user in the system (customer or tailor)
type User struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string         `json:"phone,omitempty"`
	Role      string         `gorm:"not null;default:'customer';index" json:"role"` // "customer" or "tailor"
	PushToken *string        `json:"-"`                                             // Expo push token, never returned to clients
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an id when none was set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsTailor reports whether the user holds the tailor role
func (u *User) IsTailor() bool {
	return u.Role == RoleTailor
}
