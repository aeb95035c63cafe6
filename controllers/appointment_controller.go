package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/models"
	"github.com/vastramitra/vastramitra-api/services"
)

// CreateAppointmentRequest is a draft together with the UPI transaction reference of the advance
type CreateAppointmentRequest struct {
	services.AppointmentDraft
	TxnID string `json:"txn_id"`
}

// StatusRequest carries a target status
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// QuoteAppointment handles POST /api/v1/appointments/quote - prices a draft without booking it
func QuoteAppointment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var draft services.AppointmentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondValidationError(c, err)
		return
	}

	quote, err := workflow().QuoteAppointment(c.Request.Context(), user, draft)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// CreateAppointment handles POST /api/v1/appointments - books the appointment once the customer
// confirms the advance payment
func CreateAppointment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.IsTailor() {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only customers can book appointments")
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	appointment, err := workflow().ConfirmAdvancePayment(c.Request.Context(), user, req.AppointmentDraft, req.TxnID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    appointment,
	})
}

// ListAppointments handles GET /api/v1/appointments. Customers see their own appointments; the
// tailor sees all of them and may filter by date and status.
func ListAppointments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	query := config.GetDB().Order("date DESC").Order("time ASC").Order("created_at DESC")
	if !user.IsTailor() {
		query = query.Where("user_id = ?", user.ID)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch appointments")
		return
	}

	images := services.GetImageService()
	for i := range appointments {
		services.ResolveStyleImage(c.Request.Context(), images, &appointments[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appointments,
	})
}

// UpdateAppointmentStatus handles PATCH /api/v1/appointments/:id/status - confirms or rejects an
// appointment (tailor only)
func UpdateAppointmentStatus(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := workflow().TriageAppointment(c.Request.Context(), tailor, c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
