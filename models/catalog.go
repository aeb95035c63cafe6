package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogStyle is one browsable style image of a category
type CatalogStyle struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Category  string    `gorm:"not null;index;size:64" json:"category"`
	Name      string    `gorm:"not null" json:"name"`
	ImageKey  string    `gorm:"not null" json:"image_key"`
	ImageURL  *string   `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for image
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the CatalogStyle model
func (CatalogStyle) TableName() string {
	return "catalog_styles"
}

// BeforeCreate assigns an id when none was set
func (s *CatalogStyle) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
