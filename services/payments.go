package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vastramitra/vastramitra-api/models"
	"github.com/vastramitra/vastramitra-api/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FinalPaymentDetails is what the customer sees when following the final payment deep link
type FinalPaymentDetails struct {
	OrderID        string `json:"order_id"`
	AppointmentID  string `json:"appointment_id"`
	TotalCost      int64  `json:"total_cost"`
	AdvancePaid    int64  `json:"advance_paid"`
	Remaining      int64  `json:"remaining"`
	PaymentStatus  string `json:"payment_status"`
	AwaitingReview bool   `json:"awaiting_review"`
	UPILink        string `json:"upi_link,omitempty"`
}

// Invoice is the data a client renders into the final invoice
type Invoice struct {
	InvoiceNumber string    `json:"invoice_number"`
	OrderID       string    `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	Address       string    `json:"address"`
	StyleCategory string    `json:"style_category"`
	Fabric        string    `json:"fabric"`
	Date          string    `json:"date"`
	TotalCost     int64     `json:"total_cost"`
	AdvancePaid   int64     `json:"advance_paid"`
	FinalPaid     int64     `json:"final_paid"`
	PaymentStatus string    `json:"payment_status"`
	IssuedAt      time.Time `json:"issued_at"`
}

// remainingBalance is what is still owed on an order, never negative
func remainingBalance(order *models.Order) int64 {
	remaining := order.TotalCost - order.AdvancePaid
	if remaining < 0 {
		return 0
	}
	return remaining
}

// canAccessOrder reports whether user may see order
func canAccessOrder(user *models.User, order *models.Order) bool {
	return user != nil && (user.IsTailor() || user.ID == order.UserID)
}

// GetFinalPaymentDetails returns the remaining amount of an order and the UPI link to pay it
func (s *WorkflowService) GetFinalPaymentDetails(ctx context.Context, user *models.User, orderID string) (*FinalPaymentDetails, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	if !canAccessOrder(user, &order) {
		return nil, ErrNotOwner
	}

	details := &FinalPaymentDetails{
		OrderID:       order.ID,
		AppointmentID: order.AppointmentID,
		TotalCost:     order.TotalCost,
		AdvancePaid:   order.AdvancePaid,
		PaymentStatus: order.PaymentStatus,
	}
	if order.PaymentStatus == models.PaymentStatusFullPaid {
		return details, nil
	}

	details.Remaining = remainingBalance(&order)
	var pending int64
	if err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("order_id = ? AND type = ? AND status = ?", order.ID, models.PaymentTypeFinal, models.PaymentSubmitted).
		Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	details.AwaitingReview = pending > 0
	if details.Remaining > 0 {
		details.UPILink = utils.BuildUPILink(s.cfg.UPIID, s.cfg.UPIName, details.Remaining, "Final Payment")
	}
	return details, nil
}

// SubmitFinalPayment records the customer's claim that the remaining balance has been paid.
// The order stays unpaid until the tailor verifies the payment.
func (s *WorkflowService) SubmitFinalPayment(ctx context.Context, customer *models.User, orderID, txnID string) (*models.Payment, error) {
	if customer == nil || customer.ID == "" {
		return nil, validationError("User not logged in")
	}
	if strings.TrimSpace(txnID) == "" {
		txnID = "MANUAL_CONFIRM"
	}

	var payment models.Payment
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the lock serializes concurrent submissions for the same order on Postgres
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", orderID).First(&order).Error; err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		if order.UserID != customer.ID {
			return ErrNotOwner
		}
		if order.PaymentStatus == models.PaymentStatusFullPaid {
			return ErrAlreadyPaid
		}
		remaining := remainingBalance(&order)
		if remaining == 0 {
			return ErrNothingDue
		}

		var pending int64
		if err := tx.Model(&models.Payment{}).
			Where("order_id = ? AND type = ? AND status = ?", order.ID, models.PaymentTypeFinal, models.PaymentSubmitted).
			Count(&pending).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if pending > 0 {
			return ErrPaymentPending
		}

		payment = models.Payment{
			UserID:  customer.ID,
			OrderID: order.ID,
			Type:    models.PaymentTypeFinal,
			Amount:  remaining,
			Status:  models.PaymentSubmitted,
			TxnID:   txnID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to record final payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(Event{Type: EventPaymentCreated, Collection: "payments", ID: payment.ID, UserID: payment.UserID, Data: payment})
	s.notifier.NotifyRole(ctx, customer.ID, models.RoleTailor,
		"Final Payment Submitted",
		fmt.Sprintf("%s submitted a final payment of ₹%d. Please verify.", order.CustomerName, payment.Amount),
		map[string]string{"orderId": order.ID, "paymentId": payment.ID, "type": "payment"},
	)
	return &payment, nil
}

// ListPayments returns payments, newest first, optionally filtered by status
func (s *WorkflowService) ListPayments(ctx context.Context, status string) ([]models.Payment, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return payments, nil
}

// VerifyPayment marks a submitted payment as verified. Verifying a final payment settles the order
// and its appointment. A payment that is already verified is returned unchanged.
func (s *WorkflowService) VerifyPayment(ctx context.Context, actor *models.User, paymentID string) (*models.Payment, error) {
	var payment models.Payment
	var order models.Order
	changed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", paymentID).First(&payment).Error; err != nil {
			return notFound(err, ErrPaymentNotFound)
		}
		if payment.Status == models.PaymentVerified {
			return nil
		}

		now := time.Now()
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentSubmitted).
			Updates(map[string]interface{}{"status": models.PaymentVerified, "verified_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to verify payment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return tx.Where("id = ?", paymentID).First(&payment).Error
		}
		payment.Status = models.PaymentVerified
		payment.VerifiedAt = &now
		changed = true

		if payment.Type != models.PaymentTypeFinal {
			return nil
		}

		if err := tx.Where("id = ?", payment.OrderID).First(&order).Error; err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		settled := map[string]interface{}{
			"payment_status": models.PaymentStatusFullPaid,
			"balance_due":    0,
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(settled).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		if err := tx.Model(&models.Appointment{}).Where("id = ?", order.AppointmentID).Updates(settled).Error; err != nil {
			return fmt.Errorf("failed to update appointment: %w", err)
		}
		order.PaymentStatus = models.PaymentStatusFullPaid
		order.BalanceDue = 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return &payment, nil
	}

	s.publish(Event{Type: EventPaymentUpdated, Collection: "payments", ID: payment.ID, UserID: payment.UserID, Data: payment})
	if payment.Type != models.PaymentTypeFinal {
		return &payment, nil
	}

	s.publish(
		Event{Type: EventOrderUpdated, Collection: "orders", ID: order.ID, UserID: order.UserID, Data: order},
		Event{Type: EventAppointmentUpdated, Collection: "appointments", ID: order.AppointmentID, UserID: order.UserID},
	)
	s.notifier.Send(ctx, actorID(actor), order.UserID,
		"Final Payment Verified",
		fmt.Sprintf("Hi %s, your final payment has been verified. You can now download your invoice.", order.CustomerName),
		map[string]string{"orderId": order.ID, "paymentId": payment.ID, "type": "invoice"},
	)
	return &payment, nil
}

// BuildInvoice returns the invoice of a fully paid order
func (s *WorkflowService) BuildInvoice(ctx context.Context, user *models.User, orderID string) (*Invoice, error) {
	var order models.Order
	db := s.db.WithContext(ctx)
	if err := db.Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	if !canAccessOrder(user, &order) {
		return nil, ErrNotOwner
	}
	if order.PaymentStatus != models.PaymentStatusFullPaid {
		return nil, ErrPaymentIncomplete
	}

	invoice := &Invoice{
		InvoiceNumber: invoiceNumber(order.ID),
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		Address:       order.Address,
		StyleCategory: order.StyleCategory,
		Fabric:        order.Fabric,
		Date:          order.Date,
		TotalCost:     order.TotalCost,
		AdvancePaid:   order.AdvancePaid,
		FinalPaid:     remainingBalance(&order),
		PaymentStatus: order.PaymentStatus,
		IssuedAt:      order.UpdatedAt,
	}

	var final models.Payment
	err := db.Where("order_id = ? AND type = ? AND status = ?", order.ID, models.PaymentTypeFinal, models.PaymentVerified).
		Order("verified_at DESC").First(&final).Error
	if err == nil && final.VerifiedAt != nil {
		invoice.IssuedAt = *final.VerifiedAt
	}
	return invoice, nil
}

func invoiceNumber(orderID string) string {
	short := strings.ReplaceAll(orderID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return "INV-" + strings.ToUpper(short)
}
