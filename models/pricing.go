package models

import "time"

// Pricing holds the base price and surcharges of a style category
type Pricing struct {
	Category          string    `gorm:"primaryKey;size:64" json:"category"`
	BasePrice         int64     `gorm:"not null;default:0" json:"base_price"`
	SimpleAdd         int64     `gorm:"not null;default:0" json:"simple_add"`
	MediumAdd         int64     `gorm:"not null;default:0" json:"medium_add"`
	HeavyAdd          int64     `gorm:"not null;default:0" json:"heavy_add"`
	TailorFabricExtra int64     `gorm:"not null;default:0" json:"tailor_fabric_extra"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Pricing model
func (Pricing) TableName() string {
	return "pricing"
}
