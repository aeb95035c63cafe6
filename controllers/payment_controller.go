package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListPayments handles GET /api/v1/payments?status=submitted - payments awaiting review (tailor only)
func ListPayments(c *gin.Context) {
	if _, ok := currentTailor(c); !ok {
		return
	}

	payments, err := workflow().ListPayments(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payments,
	})
}

// VerifyPayment handles PATCH /api/v1/payments/:id/verify (tailor only)
func VerifyPayment(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}

	payment, err := workflow().VerifyPayment(c.Request.Context(), tailor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payment,
	})
}
