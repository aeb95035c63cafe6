package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vastramitra/vastramitra-api/models"
	"github.com/vastramitra/vastramitra-api/utils"
	"gorm.io/gorm"
)

// StatusUpdate is the outcome of an order status change
type StatusUpdate struct {
	Order   *models.Order `json:"order"`
	Changed bool          `json:"changed"`
}

// UpdateOrderStatus moves an order forward through its lifecycle. Statuses can be skipped but
// never revisited; setting the current status again is a no-op.
func (s *WorkflowService) UpdateOrderStatus(ctx context.Context, actor *models.User, orderID, status string) (*StatusUpdate, error) {
	targetRank := models.OrderStatusRank(status)
	if targetRank < 0 {
		return nil, ErrInvalidStatus
	}

	update := &StatusUpdate{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("id = ?", orderID).First(&order).Error; err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		update.Order = &order

		currentRank := models.OrderStatusRank(order.Status)
		if currentRank == targetRank {
			return nil
		}
		if targetRank < currentRank {
			return ErrInvalidTransition
		}

		balanceDue := order.BalanceDue
		if status == models.OrderReadyForDelivery {
			balanceDue = order.TotalCost - order.AdvancePaid
			if order.PaymentStatus == models.PaymentStatusFullPaid || balanceDue < 0 {
				balanceDue = 0
			}
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(map[string]interface{}{"status": status, "balance_due": balanceDue})
		if res.Error != nil {
			return fmt.Errorf("failed to update order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// another session moved the order first
			return ErrInvalidTransition
		}

		if order.AppointmentID != "" {
			err := tx.Model(&models.Appointment{}).
				Where("id = ?", order.AppointmentID).
				Updates(map[string]interface{}{
					"order_status": status,
					"total_cost":   order.TotalCost,
					"advance_paid": order.AdvancePaid,
					"balance_due":  balanceDue,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to update appointment: %w", err)
			}
		}

		order.Status = status
		order.BalanceDue = balanceDue
		update.Changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if update.Changed {
		s.afterStatusChange(ctx, actor, update.Order)
	}
	return update, nil
}

func (s *WorkflowService) afterStatusChange(ctx context.Context, actor *models.User, order *models.Order) {
	s.publish(
		Event{Type: EventOrderUpdated, Collection: "orders", ID: order.ID, UserID: order.UserID, Data: order},
		Event{Type: EventAppointmentUpdated, Collection: "appointments", ID: order.AppointmentID, UserID: order.UserID},
	)

	data := map[string]string{"orderId": order.ID, "status": order.Status, "type": "order"}
	switch order.Status {
	case models.OrderReadyForDelivery:
		if order.PaymentStatus == models.PaymentStatusFullPaid {
			s.notifier.Send(ctx, actorID(actor), order.UserID,
				"Your Order is Ready",
				"Your outfit is ready for delivery!",
				data,
			)
			return
		}
		data["type"] = "final_payment"
		data["deepLink"] = utils.BuildFinalPaymentDeepLink(s.cfg.DeepLinkScheme, order.AppointmentID, order.UserID)
		data["balanceDue"] = fmt.Sprintf("%d", order.BalanceDue)
		s.notifier.Send(ctx, actorID(actor), order.UserID,
			"Your Order is Ready",
			fmt.Sprintf("Your outfit is ready! Please pay the remaining ₹%d to confirm delivery.", order.BalanceDue),
			data,
		)
	case models.OrderCompleted:
		s.notifier.Send(ctx, actorID(actor), order.UserID,
			"Order Completed",
			"Your order has been successfully delivered. Thank you for choosing VastraMitra!",
			data,
		)
	default:
		s.notifier.Send(ctx, actorID(actor), order.UserID,
			fmt.Sprintf("Order %s", order.Status),
			fmt.Sprintf("Your order %s status has been updated to: %s", order.ID, order.Status),
			data,
		)
	}
}

// AddTask adds a manual task to an order after its default stages
func (s *WorkflowService) AddTask(ctx context.Context, orderID, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationError("Task title is required")
	}

	var task models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("id = ?", orderID).First(&order).Error; err != nil {
			return notFound(err, ErrOrderNotFound)
		}

		var maxSequence int
		if err := tx.Model(&models.Task{}).Where("order_id = ?", orderID).
			Select("COALESCE(MAX(sequence), 0)").Scan(&maxSequence).Error; err != nil {
			return fmt.Errorf("failed to read task sequence: %w", err)
		}

		task = models.Task{
			OrderID:      order.ID,
			UserID:       order.UserID,
			CustomerName: order.CustomerName,
			Title:        title,
			Sequence:     maxSequence + 1,
			Status:       models.TaskPending,
		}
		if err := tx.Create(&task).Error; err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(Event{Type: EventTaskCreated, Collection: "tasks", ID: task.ID, UserID: task.UserID, Data: task})
	return &task, nil
}

// UpdateTaskStatus sets the status of a production task
func (s *WorkflowService) UpdateTaskStatus(ctx context.Context, taskID, status string) (*models.Task, error) {
	if !models.IsValidTaskStatus(status) {
		return nil, ErrInvalidStatus
	}

	var task models.Task
	db := s.db.WithContext(ctx)
	if err := db.Where("id = ?", taskID).First(&task).Error; err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}
	if task.Status == status {
		return &task, nil
	}
	if err := db.Model(&task).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	task.Status = status

	s.publish(Event{Type: EventTaskUpdated, Collection: "tasks", ID: task.ID, UserID: task.UserID, Data: task})
	return &task, nil
}
