package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vastramitra/vastramitra-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatService stores one-to-one conversations between customers and the tailor
type ChatService struct {
	db        *gorm.DB
	publisher EventPublisher
}

// NewChatService creates a chat service. A nil publisher disables live delivery.
func NewChatService(db *gorm.DB, publisher EventPublisher) *ChatService {
	return &ChatService{db: db, publisher: publisherOrNop(publisher)}
}

// SendMessage appends a message to the chat between sender and peer, creating the chat on first use
func (s *ChatService) SendMessage(ctx context.Context, senderID, peerID, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationError("Message cannot be empty")
	}
	chatID, first, second := models.ChatIDFor(senderID, peerID)
	message := models.ChatMessage{ChatID: chatID, SenderID: senderID, Message: text}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkChatPair(tx, senderID, peerID); err != nil {
			return err
		}

		now := time.Now()
		chat := models.Chat{ID: chatID, ParticipantA: first, ParticipantB: second, LastMessage: text, LastUpdated: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_message", "last_updated"}),
		}).Create(&chat).Error; err != nil {
			return fmt.Errorf("failed to update chat: %w", err)
		}
		if err := tx.Create(&message).Error; err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}
		return tx.Preload("Sender").Where("id = ?", message.ID).First(&message).Error
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(Event{
		Type:       EventChatMessage,
		Collection: "chats",
		ID:         chatID,
		UserID:     senderID,
		Recipients: []string{peerID},
		Data:       message,
	})
	return &message, nil
}

// Messages returns the conversation between user and peer, oldest first. A positive limit keeps
// only the most recent messages.
func (s *ChatService) Messages(ctx context.Context, userID, peerID string, limit int) ([]models.ChatMessage, error) {
	if err := checkChatPair(s.db.WithContext(ctx), userID, peerID); err != nil {
		return nil, err
	}

	chatID, _, _ := models.ChatIDFor(userID, peerID)
	query := s.db.WithContext(ctx).Preload("Sender").Where("chat_id = ?", chatID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var messages []models.ChatMessage
	if err := query.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// checkChatPair loads both participants. A chat always pairs the tailor with a customer.
func checkChatPair(tx *gorm.DB, userID, peerID string) error {
	if peerID == "" || peerID == userID {
		return validationError("Invalid chat participant")
	}

	var users []models.User
	if err := tx.Where("id IN ?", []string{userID, peerID}).Find(&users).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if len(users) != 2 {
		return ErrUserNotFound
	}
	if users[0].IsTailor() == users[1].IsTailor() {
		return ErrNotOwner
	}
	return nil
}

// Chats returns the conversations a user takes part in, most recent first
func (s *ChatService) Chats(ctx context.Context, userID string) ([]models.Chat, error) {
	var chats []models.Chat
	err := s.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("last_updated DESC").
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return chats, nil
}
