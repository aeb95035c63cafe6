package services

import (
	"context"
	"sync"
)

type sentNotification struct {
	SenderID    string
	RecipientID string
	Role        string
	Title       string
	Message     string
	Data        map[string]string
}

// recordingNotifier keeps every notification instead of delivering it
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) Send(_ context.Context, senderID, recipientID, title, message string, data map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{SenderID: senderID, RecipientID: recipientID, Title: title, Message: message, Data: data})
}

func (n *recordingNotifier) NotifyRole(_ context.Context, senderID, role, title, message string, data map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{SenderID: senderID, Role: role, Title: title, Message: message, Data: data})
}

func (n *recordingNotifier) titled(title string) []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var matched []sentNotification
	for _, s := range n.sent {
		if s.Title == title {
			matched = append(matched, s)
		}
	}
	return matched
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	n.sent = nil
	n.mu.Unlock()
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) ofType(eventType string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var matched []Event
	for _, e := range p.events {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	p.events = nil
	p.mu.Unlock()
}
