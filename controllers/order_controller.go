package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/models"
	"gorm.io/gorm"
)

// FinalPaymentRequest carries the UPI transaction reference of the final payment
type FinalPaymentRequest struct {
	TxnID string `json:"txn_id"`
}

// ListOrders handles GET /api/v1/orders - lists orders with pagination. Customers see their own
// orders; the tailor sees every order.
func ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	db := config.GetDB()
	query := db.Model(&models.Order{})
	if !user.IsTailor() {
		query = query.Where("user_id = ?", user.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count orders")
		return
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&orders).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch orders")
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - returns an order with its tasks
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var order models.Order
	err := config.GetDB().Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	}).Where("id = ?", c.Param("id")).First(&order).Error
	if err != nil {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
		return
	}

	if !user.IsTailor() && order.UserID != user.ID {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to view this order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - moves an order forward (tailor only)
func UpdateOrderStatus(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	update, err := workflow().UpdateOrderStatus(c.Request.Context(), tailor, c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    update,
	})
}

// GetFinalPayment handles GET /api/v1/orders/:id/final-payment - the deep link target showing what
// is left to pay
func GetFinalPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	details, err := workflow().GetFinalPaymentDetails(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    details,
	})
}

// SubmitFinalPayment handles POST /api/v1/orders/:id/final-payment - records the customer's
// final payment for the tailor to verify
func SubmitFinalPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req FinalPaymentRequest
	// the body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
	}

	payment, err := workflow().SubmitFinalPayment(c.Request.Context(), user, c.Param("id"), req.TxnID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    payment,
	})
}

// GetInvoice handles GET /api/v1/orders/:id/invoice - invoice data of a fully paid order
func GetInvoice(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	invoice, err := workflow().BuildInvoice(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    invoice,
	})
}
