package services

import (
	"errors"
	"fmt"

	"github.com/vastramitra/vastramitra-api/config"
	"gorm.io/gorm"
)

// WorkflowService coordinates the appointment, order, task and payment records.
// Every multi-record change runs in one transaction; notifications and events are emitted
// only after the transaction commits.
type WorkflowService struct {
	db        *gorm.DB
	pricing   *PricingService
	notifier  Notifier
	publisher EventPublisher
	cfg       *config.Config
}

// NewWorkflowService creates a workflow service. A nil notifier or publisher disables that side effect.
func NewWorkflowService(db *gorm.DB, notifier Notifier, publisher EventPublisher, cfg *config.Config) *WorkflowService {
	if cfg == nil {
		cfg = config.GetConfig()
	}
	return &WorkflowService{
		db:        db,
		pricing:   NewPricingService(db),
		notifier:  notifierOrNop(notifier),
		publisher: publisherOrNop(publisher),
		cfg:       cfg,
	}
}

// Pricing returns the pricing service backing the workflow
func (s *WorkflowService) Pricing() *PricingService {
	return s.pricing
}

// notFound translates gorm's missing-record error into the given workflow error
func notFound(err error, notFoundErr *WorkflowError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr
	}
	return fmt.Errorf("database error: %w", err)
}

func (s *WorkflowService) publish(events ...Event) {
	for _, event := range events {
		s.publisher.Publish(event)
	}
}
