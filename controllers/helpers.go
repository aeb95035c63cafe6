package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/middleware"
	"github.com/vastramitra/vastramitra-api/models"
	"github.com/vastramitra/vastramitra-api/services"
)

// respondError writes the standard error envelope
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondValidationError writes a 400 with the binding error as details
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// respondServiceError maps a service error onto a status code. Anything that is not a
// workflow error is treated as a storage failure.
func respondServiceError(c *gin.Context, err error) {
	var wfErr *services.WorkflowError
	if !errors.As(err, &wfErr) {
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "An internal error occurred")
		return
	}

	status := http.StatusBadRequest
	switch wfErr.Kind {
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindForbidden:
		status = http.StatusForbidden
	case services.KindConflict:
		status = http.StatusConflict
	}
	respondError(c, status, wfErr.Code, wfErr.Message)
}

// currentUser loads the profile of the authenticated caller. It writes the error response
// and returns false when there is none.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return nil, false
	}

	var user models.User
	if err := config.GetDB().Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found. Please create a profile first.")
		return nil, false
	}
	return &user, true
}

// currentTailor is currentUser restricted to tailors
func currentTailor(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	if !user.IsTailor() {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only the tailor can perform this action")
		return nil, false
	}
	return user, true
}

// workflow builds the workflow service from the registered dependencies
func workflow() *services.WorkflowService {
	return services.NewWorkflowService(config.GetDB(), services.GetNotifier(), services.GetEventPublisher(), config.GetConfig())
}
