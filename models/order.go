package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses, in lifecycle order
const (
	OrderConfirmed        = "Confirmed"
	OrderInProgress       = "In Progress"
	OrderReadyForDelivery = "Ready for Delivery"
	OrderCompleted        = "Completed"
)

// OrderStatuses lists the lifecycle in its only allowed direction
var OrderStatuses = []string{OrderConfirmed, OrderInProgress, OrderReadyForDelivery, OrderCompleted}

// OrderStatusRank returns the position of status in the lifecycle, or -1 if unknown
func OrderStatusRank(status string) int {
	for i, s := range OrderStatuses {
		if s == status {
			return i
		}
	}
	return -1
}

// Order is the confirmed, in-production unit of work derived from a confirmed appointment.
// Its ID is always the source appointment's ID.
type Order struct {
	ID            string         `gorm:"primaryKey;size:64" json:"id"`
	AppointmentID string         `gorm:"not null;uniqueIndex;size:64" json:"appointment_id"`
	UserID        string         `gorm:"not null;index;size:64" json:"user_id"`
	CustomerName  string         `gorm:"not null" json:"customer_name"`
	StyleCategory string         `json:"style_category"`
	Fabric        string         `json:"fabric"`
	Address       string         `json:"address"`
	Date          string         `json:"date"`
	Time          string         `json:"time"`
	TotalCost     int64          `gorm:"not null" json:"total_cost"`
	AdvancePaid   int64          `gorm:"not null" json:"advance_paid"`
	BalanceDue    int64          `gorm:"not null" json:"balance_due"`
	PaymentStatus string         `gorm:"not null" json:"payment_status"`
	Status        string         `gorm:"not null;default:'Confirmed';index" json:"status"`
	Tasks         []Task         `gorm:"foreignKey:OrderID" json:"tasks,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
