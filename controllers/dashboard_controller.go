package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/models"
)

// DashboardStats summarises the shop for the tailor's home screen
type DashboardStats struct {
	TotalOrders         int64 `json:"total_orders"`
	ActiveOrders        int64 `json:"active_orders"`
	TotalSales          int64 `json:"total_sales"`
	TotalAppointments   int64 `json:"total_appointments"`
	PendingAppointments int64 `json:"pending_appointments"`
	SubmittedPayments   int64 `json:"submitted_payments"`
	UnreadNotifications int64 `json:"unread_notifications"`
	RegisteredCustomers int64 `json:"registered_customers"`
}

// GetDashboard handles GET /api/v1/dashboard (tailor only)
func GetDashboard(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var stats DashboardStats
	counts := []struct {
		dest  *int64
		model interface{}
		where string
		args  []interface{}
	}{
		{&stats.TotalOrders, &models.Order{}, "", nil},
		{&stats.ActiveOrders, &models.Order{}, "status <> ?", []interface{}{models.OrderCompleted}},
		{&stats.TotalAppointments, &models.Appointment{}, "", nil},
		{&stats.PendingAppointments, &models.Appointment{}, "status = ?", []interface{}{models.AppointmentPending}},
		{&stats.SubmittedPayments, &models.Payment{}, "status = ?", []interface{}{models.PaymentSubmitted}},
		{&stats.UnreadNotifications, &models.Notification{}, "recipient_id = ? AND read = ?", []interface{}{tailor.ID, false}},
		{&stats.RegisteredCustomers, &models.User{}, "role = ?", []interface{}{models.RoleCustomer}},
	}
	for _, q := range counts {
		query := db.Model(q.model)
		if q.where != "" {
			query = query.Where(q.where, q.args...)
		}
		if err := query.Count(q.dest).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load dashboard")
			return
		}
	}

	// sales are the booked value of every order, paid or not
	if err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_cost), 0)").
		Scan(&stats.TotalSales).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
