package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task statuses
const (
	TaskPending    = "Pending"
	TaskInProgress = "In Progress"
	TaskDone       = "Done"
)

// DefaultTaskStages are created, in this order, for every confirmed order
var DefaultTaskStages = []string{"Cutting", "Stitching", "Handwork", "Packaging"}

// Task is one production stage tracked against an order
type Task struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	OrderID      string    `gorm:"not null;index;size:64" json:"order_id"`
	UserID       string    `gorm:"not null;index;size:64" json:"user_id"`
	CustomerName string    `json:"customer_name"`
	Stage        string    `json:"stage,omitempty"` // one of DefaultTaskStages
	Title        string    `json:"title,omitempty"` // free text for manually added tasks
	Sequence     int       `gorm:"not null;default:0" json:"sequence"`
	Status       string    `gorm:"not null;default:'Pending'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// BeforeCreate assigns an id when none was set
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsValidTaskStatus reports whether status is a known task status
func IsValidTaskStatus(status string) bool {
	switch status {
	case TaskPending, TaskInProgress, TaskDone:
		return true
	}
	return false
}
