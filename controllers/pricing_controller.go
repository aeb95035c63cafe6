package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/models"
	"github.com/vastramitra/vastramitra-api/services"
)

// PricingRequest is the body of a pricing update
type PricingRequest struct {
	BasePrice         int64 `json:"base_price" binding:"gte=0"`
	SimpleAdd         int64 `json:"simple_add" binding:"gte=0"`
	MediumAdd         int64 `json:"medium_add" binding:"gte=0"`
	HeavyAdd          int64 `json:"heavy_add" binding:"gte=0"`
	TailorFabricExtra int64 `json:"tailor_fabric_extra" binding:"gte=0"`
}

// GetEstimate handles GET /api/v1/pricing/estimate?category=&complexity=&fabric=
func GetEstimate(c *gin.Context) {
	complexity := c.Query("complexity")
	if !services.IsValidComplexity(complexity) {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Complexity must be Simple, Medium or Heavy")
		return
	}

	estimate, err := services.NewPricingService(config.GetDB()).
		Resolve(c.Request.Context(), c.Query("category"), complexity, c.Query("fabric"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    estimate,
	})
}

// ListPricing handles GET /api/v1/pricing
func ListPricing(c *gin.Context) {
	records, err := services.NewPricingService(config.GetDB()).List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records,
	})
}

// UpsertPricing handles PUT /api/v1/pricing/:category (tailor only)
func UpsertPricing(c *gin.Context) {
	if _, ok := currentTailor(c); !ok {
		return
	}

	var req PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	record := models.Pricing{
		Category:          c.Param("category"),
		BasePrice:         req.BasePrice,
		SimpleAdd:         req.SimpleAdd,
		MediumAdd:         req.MediumAdd,
		HeavyAdd:          req.HeavyAdd,
		TailorFabricExtra: req.TailorFabricExtra,
	}
	if err := services.NewPricingService(config.GetDB()).Upsert(c.Request.Context(), &record); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}
