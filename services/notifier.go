package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/vastramitra/vastramitra-api/models"
	"gorm.io/gorm"
)

// Notifier delivers a notification to a user. Delivery is best-effort: implementations log
// failures instead of returning them.
type Notifier interface {
	Send(ctx context.Context, senderID, recipientID, title, message string, data map[string]string)
	NotifyRole(ctx context.Context, senderID, role, title, message string, data map[string]string)
}

// PushMessage is the payload accepted by the Expo push gateway
type PushMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// DBNotifier stores notifications in the database and forwards them to the push gateway
type DBNotifier struct {
	db         *gorm.DB
	gatewayURL string
	httpClient *http.Client
	publisher  EventPublisher
}

var notifierInstance Notifier

// NewDBNotifier creates a notifier that writes to db and pushes through gatewayURL.
// An empty gatewayURL disables push delivery.
func NewDBNotifier(db *gorm.DB, gatewayURL string, publisher EventPublisher) *DBNotifier {
	return &DBNotifier{
		db:         db,
		gatewayURL: gatewayURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		publisher: publisherOrNop(publisher),
	}
}

// InitNotifier initializes the global notifier
func InitNotifier(db *gorm.DB, gatewayURL string, publisher EventPublisher) Notifier {
	notifierInstance = NewDBNotifier(db, gatewayURL, publisher)
	return notifierInstance
}

// GetNotifier returns the initialized notifier instance
func GetNotifier() Notifier {
	return notifierInstance
}

// SetNotifier sets the notifier instance (primarily for testing)
func SetNotifier(n Notifier) {
	notifierInstance = n
}

// Send appends a notification to the recipient's log and pushes it to their device
func (n *DBNotifier) Send(ctx context.Context, senderID, recipientID, title, message string, data map[string]string) {
	notification := models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Title:       title,
		Message:     message,
		Extra:       data,
	}
	if err := n.db.WithContext(ctx).Create(&notification).Error; err != nil {
		log.Printf("Failed to store notification for %s: %v", recipientID, err)
		return
	}
	n.publisher.Publish(Event{
		Type:       EventNotificationCreated,
		Collection: "notifications",
		ID:         notification.ID,
		UserID:     recipientID,
		Data:       notification,
	})

	var recipient models.User
	if err := n.db.WithContext(ctx).Select("id", "push_token").Where("id = ?", recipientID).First(&recipient).Error; err != nil {
		log.Printf("Failed to load recipient %s for push: %v", recipientID, err)
		return
	}
	if recipient.PushToken == nil || *recipient.PushToken == "" {
		log.Printf("No push token for recipient %s", recipientID)
		return
	}

	if err := n.push(ctx, PushMessage{
		To:    *recipient.PushToken,
		Sound: "default",
		Title: title,
		Body:  message,
		Data:  data,
	}); err != nil {
		log.Printf("Push delivery to %s failed: %v", recipientID, err)
	}
}

// NotifyRole sends the notification to every user holding role
func (n *DBNotifier) NotifyRole(ctx context.Context, senderID, role, title, message string, data map[string]string) {
	var ids []string
	if err := n.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Pluck("id", &ids).Error; err != nil {
		log.Printf("Failed to load %s recipients: %v", role, err)
		return
	}
	for _, id := range ids {
		n.Send(ctx, senderID, id, title, message, data)
	}
}

func (n *DBNotifier) push(ctx context.Context, message PushMessage) error {
	if n.gatewayURL == "" {
		return nil
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call push gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

type nopNotifier struct{}

func (nopNotifier) Send(context.Context, string, string, string, string, map[string]string) {}

func (nopNotifier) NotifyRole(context.Context, string, string, string, string, map[string]string) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
