package models

import "time"

// Measurement is one measured field of one garment category for a customer
type Measurement struct {
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`
	Category  string    `gorm:"primaryKey;size:64" json:"category"`
	Field     string    `gorm:"primaryKey;size:64" json:"field"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Measurement model
func (Measurement) TableName() string {
	return "measurements"
}
