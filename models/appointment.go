package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment statuses
const (
	AppointmentPending   = "Pending"
	AppointmentConfirmed = "Confirmed"
	AppointmentRejected  = "Rejected"
)

// Payment statuses shared by appointments and orders
const (
	PaymentStatusPending     = "Pending Payment"
	PaymentStatusAdvancePaid = "Advance Paid"
	PaymentStatusFullPaid    = "Full Paid"
)

// Fabric sources
const (
	FabricCustomer = "customer"
	FabricTailor   = "tailor"
)

// Complexity tiers
const (
	ComplexitySimple = "Simple"
	ComplexityMedium = "Medium"
	ComplexityHeavy  = "Heavy"
)

// Appointment is a customer's booking request, created once the advance payment is confirmed.
// There is a single row per appointment; the customer's view is the same row filtered by UserID.
type Appointment struct {
	ID            string         `gorm:"primaryKey;size:64" json:"id"`
	UserID        string         `gorm:"not null;index;size:64" json:"user_id"`
	FullName      string         `gorm:"not null" json:"full_name"`
	Contact       string         `gorm:"not null" json:"contact"`
	Address       string         `gorm:"not null" json:"address"`
	Date          string         `gorm:"not null;index" json:"date"` // YYYY-MM-DD
	Time          string         `gorm:"not null" json:"time"`
	StyleCategory string         `gorm:"not null" json:"style_category"`
	StyleImageRef *string        `json:"style_image_ref,omitempty"`
	StyleImageURL *string        `gorm:"-" json:"style_image_url,omitempty"` // computed field, resolved from StyleImageRef
	FabricSource  string         `gorm:"not null" json:"fabric_source"`
	Complexity    string         `gorm:"not null" json:"complexity"`
	TotalCost     int64          `gorm:"not null" json:"total_cost"`
	AdvancePaid   int64          `gorm:"not null" json:"advance_paid"`
	BalanceDue    int64          `gorm:"not null" json:"balance_due"`
	PaymentStatus string         `gorm:"not null;default:'Pending Payment'" json:"payment_status"`
	Status        string         `gorm:"not null;default:'Pending';index" json:"status"`
	OrderStatus   *string        `json:"order_status,omitempty"` // mirrors the linked order once confirmed
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// BeforeCreate assigns an id when none was set
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
