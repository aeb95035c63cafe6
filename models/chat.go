package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat is a conversation between two participants. Its ID is the sorted pair of participant ids.
type Chat struct {
	ID           string    `gorm:"primaryKey;size:160" json:"id"`
	ParticipantA string    `gorm:"not null;index;size:64" json:"participant_a"`
	ParticipantB string    `gorm:"not null;index;size:64" json:"participant_b"`
	LastMessage  string    `gorm:"type:text" json:"last_message"`
	LastUpdated  time.Time `json:"last_updated"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the Chat model
func (Chat) TableName() string {
	return "chats"
}

// ChatMessage represents a single message in a chat
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	ChatID    string    `gorm:"not null;index;size:160" json:"chat_id"`
	SenderID  string    `gorm:"not null;index;size:64" json:"sender_id"`
	Sender    User      `gorm:"foreignKey:SenderID" json:"sender"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the ChatMessage model
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// BeforeCreate assigns an id when none was set
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ChatIDFor returns the chat id shared by two participants regardless of argument order
func ChatIDFor(a, b string) (string, string, string) {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "_"), pair[0], pair[1]
}
