package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment types
const (
	PaymentTypeAdvance = "advance"
	PaymentTypeFinal   = "final"
)

// Payment statuses. A submitted payment is only a customer claim; only the tailor can verify it.
const (
	PaymentSubmitted = "submitted"
	PaymentVerified  = "verified"
)

// Payment records a manual (UPI) payment claim made by a customer
type Payment struct {
	ID         string     `gorm:"primaryKey;size:64" json:"id"`
	UserID     string     `gorm:"not null;index;size:64" json:"user_id"`
	OrderID    string     `gorm:"not null;index;size:64" json:"order_id"` // appointment id for advance payments, which is also the order id
	Type       string     `gorm:"not null" json:"type"`
	Amount     int64      `gorm:"not null" json:"amount"`
	Status     string     `gorm:"not null;default:'submitted';index" json:"status"`
	TxnID      string     `json:"txn_id"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate assigns an id when none was set
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
