package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/services"
)

// SaveMeasurementsRequest holds the fields of one garment category
type SaveMeasurementsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

// SaveMeasurements handles PUT /api/v1/measurements/:userId/:category - replaces a category of a
// customer's measurements (tailor only)
func SaveMeasurements(c *gin.Context) {
	if _, ok := currentTailor(c); !ok {
		return
	}

	var req SaveMeasurementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	saved, err := services.NewMeasurementService(config.GetDB()).
		SaveCategory(c.Request.Context(), c.Param("userId"), c.Param("category"), req.Fields)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    saved,
	})
}

// GetMeasurements handles GET /api/v1/measurements/:userId - the tailor or the customer themself
func GetMeasurements(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	userID := c.Param("userId")
	if !user.IsTailor() && user.ID != userID {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to view these measurements")
		return
	}

	book, err := services.NewMeasurementService(config.GetDB()).Book(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    book,
	})
}
