package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/models"
)

// CreateTaskRequest is a manually added production task
type CreateTaskRequest struct {
	Title string `json:"title" binding:"required"`
}

// ListOrderTasks handles GET /api/v1/orders/:id/tasks
func ListOrderTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
		return
	}
	if !user.IsTailor() && order.UserID != user.ID {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to view this order")
		return
	}

	var tasks []models.Task
	if err := db.Where("order_id = ?", order.ID).Order("sequence ASC").Find(&tasks).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tasks,
	})
}

// ListTasks handles GET /api/v1/tasks - every open task across orders (tailor only)
func ListTasks(c *gin.Context) {
	if _, ok := currentTailor(c); !ok {
		return
	}

	query := config.GetDB().Order("created_at DESC").Order("sequence ASC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tasks,
	})
}

// CreateTask handles POST /api/v1/orders/:id/tasks (tailor only)
func CreateTask(c *gin.Context) {
	if _, ok := currentTailor(c); !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	task, err := workflow().AddTask(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    task,
	})
}

// UpdateTaskStatus handles PATCH /api/v1/tasks/:id/status (tailor only)
func UpdateTaskStatus(c *gin.Context) {
	if _, ok := currentTailor(c); !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	task, err := workflow().UpdateTaskStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
	})
}
