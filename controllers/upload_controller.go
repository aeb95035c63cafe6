package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/services"
	"github.com/vastramitra/vastramitra-api/utils"
)

// UploadStyleImage handles POST /api/v1/uploads/style-images - stores a customer's style reference
// image and returns the reference to put on the appointment draft
func UploadStyleImage(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_IMAGE", "An image file is required")
		return
	}

	images := services.GetImageService()
	key, err := images.UploadImage(c.Request.Context(), fileHeader, services.FolderStyles)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	url, err := images.GetImageURL(c.Request.Context(), key)
	if err != nil {
		url = ""
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"style_image_ref": key,
			"url":             url,
		},
	})
}

// GetUploadedImage handles GET /uploads/*filepath - serves images stored on local disk
func GetUploadedImage(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("filepath"), "/")
	if key == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Prevent directory traversal
	if strings.Contains(key, "..") || strings.Contains(key, "\\") {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	contentType := utils.ImageContentType(key)
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only PNG and JPEG files are supported")
		return
	}

	filePath := filepath.Join(config.GetConfig().UploadDir, filepath.FromSlash(key))
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(filePath)
}
