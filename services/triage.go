package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vastramitra/vastramitra-api/models"
	"gorm.io/gorm"
)

// TriageResult is the outcome of a triage decision
type TriageResult struct {
	Appointment *models.Appointment `json:"appointment"`
	Order       *models.Order       `json:"order,omitempty"`
	Changed     bool                `json:"changed"`
}

// TriageAppointment accepts or rejects a pending appointment.
//
// Confirming creates the order (same id as the appointment) and its four default tasks in the
// same transaction that flips the appointment, so an order exists iff its appointment is
// Confirmed. Repeating a decision that has already been applied changes nothing and returns the
// current state.
func (s *WorkflowService) TriageAppointment(ctx context.Context, actor *models.User, appointmentID, target string) (*TriageResult, error) {
	if target != models.AppointmentConfirmed && target != models.AppointmentRejected {
		return nil, ErrInvalidStatus
	}

	result := &TriageResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := tx.Where("id = ?", appointmentID).First(&appointment).Error; err != nil {
			return notFound(err, ErrAppointmentNotFound)
		}
		if target == models.AppointmentConfirmed && strings.TrimSpace(appointment.UserID) == "" {
			return ErrMissingCustomer
		}

		updates := map[string]interface{}{"status": target}
		if target == models.AppointmentConfirmed {
			updates["order_status"] = models.OrderConfirmed
			updates["balance_due"] = appointment.TotalCost - appointment.AdvancePaid
		}

		// The status guard makes concurrent decisions on the same appointment serialize:
		// only one of them can move it out of Pending.
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", appointmentID, models.AppointmentPending).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update appointment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			if err := tx.Where("id = ?", appointmentID).First(&appointment).Error; err != nil {
				return notFound(err, ErrAppointmentNotFound)
			}
			if appointment.Status != target {
				return ErrInvalidTransition
			}
			result.Appointment = &appointment
			if target == models.AppointmentConfirmed {
				order, err := loadOrderWithTasks(tx, appointment.ID)
				if errors.Is(err, ErrOrderNotFound) {
					// Confirmed without an order: finish the fan-out instead of failing
					order, err = createOrderWithTasks(tx, &appointment)
					result.Changed = true
				}
				if err != nil {
					return err
				}
				result.Order = order
			}
			return nil
		}

		if err := tx.Where("id = ?", appointmentID).First(&appointment).Error; err != nil {
			return notFound(err, ErrAppointmentNotFound)
		}
		result.Appointment = &appointment
		result.Changed = true

		if target == models.AppointmentRejected {
			return nil
		}

		order, err := createOrderWithTasks(tx, &appointment)
		if err != nil {
			return err
		}
		result.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Changed {
		s.afterTriage(ctx, actor, result)
	}
	return result, nil
}

func (s *WorkflowService) afterTriage(ctx context.Context, actor *models.User, result *TriageResult) {
	appointment := result.Appointment
	s.publish(Event{Type: EventAppointmentUpdated, Collection: "appointments", ID: appointment.ID, UserID: appointment.UserID, Data: appointment})

	if appointment.Status == models.AppointmentRejected {
		s.notifier.Send(ctx, actorID(actor), appointment.UserID,
			"Appointment Rejected",
			fmt.Sprintf("Sorry, your appointment on %s at %s was rejected.", appointment.Date, appointment.Time),
			map[string]string{"appointmentId": appointment.ID, "type": "appointment"},
		)
		return
	}

	order := result.Order
	s.publish(Event{Type: EventOrderCreated, Collection: "orders", ID: order.ID, UserID: order.UserID, Data: order})
	for _, task := range order.Tasks {
		s.publish(Event{Type: EventTaskCreated, Collection: "tasks", ID: task.ID, UserID: task.UserID, Data: task})
	}
	s.notifier.Send(ctx, actorID(actor), appointment.UserID,
		"Appointment Confirmed",
		fmt.Sprintf("Your appointment on %s at %s has been confirmed.", appointment.Date, appointment.Time),
		map[string]string{"appointmentId": appointment.ID, "orderId": order.ID, "type": "appointment"},
	)
}

// createOrderWithTasks writes the order of a confirmed appointment and its default tasks
func createOrderWithTasks(tx *gorm.DB, appointment *models.Appointment) (*models.Order, error) {
	order := orderFromAppointment(appointment)
	if err := tx.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	tasks := make([]models.Task, 0, len(models.DefaultTaskStages))
	for i, stage := range models.DefaultTaskStages {
		tasks = append(tasks, models.Task{
			OrderID:      order.ID,
			UserID:       order.UserID,
			CustomerName: order.CustomerName,
			Stage:        stage,
			Sequence:     i + 1,
			Status:       models.TaskPending,
		})
	}
	if err := tx.Create(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to create tasks: %w", err)
	}
	order.Tasks = tasks
	return order, nil
}

// orderFromAppointment builds the order created when an appointment is confirmed
func orderFromAppointment(appointment *models.Appointment) *models.Order {
	customerName := appointment.FullName
	if customerName == "" {
		customerName = "Customer"
	}
	paymentStatus := appointment.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusAdvancePaid
	}
	return &models.Order{
		ID:            appointment.ID,
		AppointmentID: appointment.ID,
		UserID:        appointment.UserID,
		CustomerName:  customerName,
		StyleCategory: appointment.StyleCategory,
		Fabric:        appointment.FabricSource,
		Address:       appointment.Address,
		Date:          appointment.Date,
		Time:          appointment.Time,
		TotalCost:     appointment.TotalCost,
		AdvancePaid:   appointment.AdvancePaid,
		BalanceDue:    appointment.TotalCost - appointment.AdvancePaid,
		PaymentStatus: paymentStatus,
		Status:        models.OrderConfirmed,
	}
}

// loadOrderWithTasks loads an order and its tasks in production order
func loadOrderWithTasks(db *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC").Order("created_at ASC")
	}).Where("id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return &order, nil
}

func actorID(actor *models.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
