package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vastramitra/vastramitra-api/models"
	"github.com/vastramitra/vastramitra-api/utils"
	"gorm.io/gorm"
)

// AppointmentDraft is the booking a customer assembles before paying the advance
type AppointmentDraft struct {
	FullName      string  `json:"full_name" binding:"required"`
	Contact       string  `json:"contact" binding:"required"`
	Address       string  `json:"address" binding:"required"`
	Date          string  `json:"date" binding:"required"`
	Time          string  `json:"time" binding:"required"`
	StyleCategory string  `json:"style_category" binding:"required"`
	StyleImageRef *string `json:"style_image_ref"`
	FabricSource  string  `json:"fabric_source" binding:"required"`
	Complexity    string  `json:"complexity" binding:"required"`
}

// Quote is a priced draft together with the link to pay its advance
type Quote struct {
	Draft              AppointmentDraft `json:"draft"`
	Estimate           Estimate         `json:"estimate"`
	AdvancePaymentLink string           `json:"advance_payment_link"`
}

// validate checks the draft and normalizes the fabric source
func (d *AppointmentDraft) validate() error {
	required := []struct{ field, value string }{
		{"full_name", d.FullName},
		{"contact", d.Contact},
		{"address", d.Address},
		{"date", d.Date},
		{"time", d.Time},
		{"style_category", d.StyleCategory},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return validationError("Please fill all fields and select style/fabric (%s is missing)", r.field)
		}
	}
	if _, err := time.Parse("2006-01-02", d.Date); err != nil {
		return validationError("Date must be in YYYY-MM-DD format")
	}

	fabric := NormalizeFabricSource(d.FabricSource)
	if fabric == "" {
		return validationError("Unknown fabric source %q", d.FabricSource)
	}
	d.FabricSource = fabric

	if !IsValidComplexity(d.Complexity) {
		return validationError("Complexity must be Simple, Medium or Heavy")
	}
	return nil
}

// QuoteAppointment prices a draft without persisting anything. Persistence is deferred until the
// customer confirms the advance payment.
func (s *WorkflowService) QuoteAppointment(ctx context.Context, customer *models.User, draft AppointmentDraft) (*Quote, error) {
	if customer == nil || customer.ID == "" {
		return nil, validationError("User not logged in")
	}
	if err := draft.validate(); err != nil {
		return nil, err
	}

	estimate, err := s.pricing.Resolve(ctx, draft.StyleCategory, draft.Complexity, draft.FabricSource)
	if err != nil {
		return nil, err
	}
	if !estimate.Available {
		return nil, ErrEstimateUnavailable
	}

	return &Quote{
		Draft:              draft,
		Estimate:           estimate,
		AdvancePaymentLink: utils.BuildUPILink(s.cfg.UPIID, s.cfg.UPIName, estimate.Advance, "Advance Payment"),
	}, nil
}

// ConfirmAdvancePayment records the customer's claim that the advance has been paid and books the
// appointment. The appointment and its advance payment are written in one transaction.
func (s *WorkflowService) ConfirmAdvancePayment(ctx context.Context, customer *models.User, draft AppointmentDraft, txnID string) (*models.Appointment, error) {
	quote, err := s.QuoteAppointment(ctx, customer, draft)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(txnID) == "" {
		txnID = "MANUAL_CONFIRM"
	}

	estimate := quote.Estimate
	appointment := models.Appointment{
		UserID:        customer.ID,
		FullName:      quote.Draft.FullName,
		Contact:       quote.Draft.Contact,
		Address:       quote.Draft.Address,
		Date:          quote.Draft.Date,
		Time:          quote.Draft.Time,
		StyleCategory: quote.Draft.StyleCategory,
		StyleImageRef: quote.Draft.StyleImageRef,
		FabricSource:  quote.Draft.FabricSource,
		Complexity:    quote.Draft.Complexity,
		TotalCost:     estimate.Total,
		AdvancePaid:   estimate.Advance,
		BalanceDue:    estimate.Total - estimate.Advance,
		PaymentStatus: models.PaymentStatusAdvancePaid,
		Status:        models.AppointmentPending,
	}
	var payment models.Payment

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&appointment).Error; err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		payment = models.Payment{
			UserID:  customer.ID,
			OrderID: appointment.ID,
			Type:    models.PaymentTypeAdvance,
			Amount:  estimate.Advance,
			Status:  models.PaymentSubmitted,
			TxnID:   txnID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to record advance payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(
		Event{Type: EventAppointmentCreated, Collection: "appointments", ID: appointment.ID, UserID: appointment.UserID, Data: appointment},
		Event{Type: EventPaymentCreated, Collection: "payments", ID: payment.ID, UserID: payment.UserID, Data: payment},
	)
	s.notifier.NotifyRole(ctx, customer.ID, models.RoleTailor,
		"Advance Payment Received",
		fmt.Sprintf("%s paid ₹%d advance. Awaiting confirmation.", appointment.FullName, appointment.AdvancePaid),
		map[string]string{"appointmentId": appointment.ID, "type": "appointment"},
	)

	return &appointment, nil
}
