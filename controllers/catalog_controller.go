package controllers

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/models"
	"github.com/vastramitra/vastramitra-api/services"
	"github.com/vastramitra/vastramitra-api/utils"
)

// respondUploadError maps image upload failures onto the error envelope
func respondUploadError(c *gin.Context, err error) {
	var fileErr *utils.FileUploadError
	if errors.As(err, &fileErr) {
		respondError(c, http.StatusBadRequest, fileErr.Code, fileErr.Message)
		return
	}
	respondError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to store image")
}

// ListCategories handles GET /api/v1/catalog/categories - every priced or catalogued category
func ListCategories(c *gin.Context) {
	db := config.GetDB()

	var priced []string
	if err := db.Model(&models.Pricing{}).Pluck("category", &priced).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch categories")
		return
	}
	var styled []string
	if err := db.Model(&models.CatalogStyle{}).Distinct("category").Pluck("category", &styled).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch categories")
		return
	}

	seen := make(map[string]bool)
	categories := make([]string, 0, len(priced)+len(styled))
	for _, category := range append(priced, styled...) {
		category = strings.ToLower(category)
		if !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// ListStyles handles GET /api/v1/catalog/styles?category=
func ListStyles(c *gin.Context) {
	query := config.GetDB().Order("created_at DESC")
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("category = ?", strings.ToLower(category))
	}

	var styles []models.CatalogStyle
	if err := query.Find(&styles).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch styles")
		return
	}

	images := services.GetImageService()
	for i := range styles {
		services.ResolveCatalogImage(c.Request.Context(), images, &styles[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    styles,
	})
}

// CreateStyle handles POST /api/v1/catalog/styles - multipart form with category, name and image (tailor only)
func CreateStyle(c *gin.Context) {
	if _, ok := currentTailor(c); !ok {
		return
	}

	category := strings.ToLower(strings.TrimSpace(c.PostForm("category")))
	name := strings.TrimSpace(c.PostForm("name"))
	if category == "" || name == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Category and name are required")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_IMAGE", "An image file is required")
		return
	}

	images := services.GetImageService()
	key, err := images.UploadImage(c.Request.Context(), fileHeader, services.FolderCatalog)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	style := models.CatalogStyle{Category: category, Name: name, ImageKey: key}
	if err := config.GetDB().Create(&style).Error; err != nil {
		_ = images.DeleteImage(c.Request.Context(), key)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create style")
		return
	}
	services.ResolveCatalogImage(c.Request.Context(), images, &style)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    style,
	})
}
