package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an in-app notification. Rows are append-only except for the Read flag.
type Notification struct {
	ID          string            `gorm:"primaryKey;size:64" json:"id"`
	RecipientID string            `gorm:"not null;index;size:64" json:"recipient_id"`
	SenderID    string            `gorm:"size:64" json:"sender_id"`
	Title       string            `gorm:"not null" json:"title"`
	Message     string            `gorm:"type:text;not null" json:"message"`
	Data        string            `gorm:"type:text" json:"-"` // JSON encoded extra data
	Extra       map[string]string `gorm:"-" json:"data,omitempty"`
	Read        bool              `gorm:"not null;default:false;index" json:"read"`
	CreatedAt   time.Time         `json:"timestamp"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate assigns an id and encodes the extra data
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if len(n.Extra) > 0 && n.Data == "" {
		encoded, err := json.Marshal(n.Extra)
		if err != nil {
			return err
		}
		n.Data = string(encoded)
	}
	return nil
}

// AfterFind decodes the extra data
func (n *Notification) AfterFind(tx *gorm.DB) error {
	if n.Data == "" {
		return nil
	}
	return json.Unmarshal([]byte(n.Data), &n.Extra)
}
