package services

import "time"

// Event types published after a change has been committed
const (
	EventAppointmentCreated  = "appointment.created"
	EventAppointmentUpdated  = "appointment.updated"
	EventOrderCreated        = "order.created"
	EventOrderUpdated        = "order.updated"
	EventTaskCreated         = "task.created"
	EventTaskUpdated         = "task.updated"
	EventPaymentCreated      = "payment.created"
	EventPaymentUpdated      = "payment.updated"
	EventNotificationCreated = "notification.created"
	EventChatMessage         = "chat.message"
)

// Event describes a committed change to a record. UserID is the record's owner; subscribers
// receive events they own or are listed in Recipients, tailors receive everything.
type Event struct {
	Type       string      `json:"type"`
	Collection string      `json:"collection"`
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Recipients []string    `json:"-"`
	Data       interface{} `json:"data,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Audience returns every user the event is addressed to, besides tailors
func (e Event) Audience() []string {
	audience := make([]string, 0, len(e.Recipients)+1)
	if e.UserID != "" {
		audience = append(audience, e.UserID)
	}
	for _, id := range e.Recipients {
		if id != "" && id != e.UserID {
			audience = append(audience, id)
		}
	}
	return audience
}

// EventPublisher fans committed changes out to live subscribers
type EventPublisher interface {
	Publish(event Event)
}

var publisherInstance EventPublisher

// GetEventPublisher returns the registered publisher
func GetEventPublisher() EventPublisher {
	return publisherInstance
}

// SetEventPublisher registers the publisher used by the workflow
func SetEventPublisher(p EventPublisher) {
	publisherInstance = p
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
