package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/vastramitra/vastramitra-api/models"
	"github.com/vastramitra/vastramitra-api/utils"
)

// Image folders
const (
	FolderStyles  = "styles"
	FolderCatalog = "catalog"
)

// ImageService stores style reference and catalog images
type ImageService interface {
	// UploadImage validates and stores an image inside folder, returns the storage key
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error)

	// GetImageURL returns a URL a client can load the image from
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(ctx context.Context, imageKey string) error
}

// S3ImageService implements ImageService using AWS S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

// LocalImageService stores images on local disk and serves them from /uploads
type LocalImageService struct {
	dir string
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{
		s3Service: s3Service,
	}
	return imageServiceInstance
}

// InitLocalImageService initializes the image service with a local directory backend
func InitLocalImageService(dir string) ImageService {
	imageServiceInstance = &LocalImageService{dir: dir}
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// UploadImage validates and uploads an image file to S3
func (s *S3ImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	key, err := s.s3Service.UploadFile(ctx, fileHeader, utils.NewImageKey(folder, fileHeader.Filename))
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

// GetImageURL generates a presigned URL for accessing an image
func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}
	if err := s.s3Service.DeleteFile(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// UploadImage validates and saves an image below the upload directory
func (s *LocalImageService) UploadImage(_ context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}
	return utils.SaveUploadedFile(fileHeader, s.dir, utils.NewImageKey(folder, fileHeader.Filename))
}

// GetImageURL returns the static path the image is served from
func (s *LocalImageService) GetImageURL(_ context.Context, imageKey string) (string, error) {
	return utils.GetImageURL(imageKey), nil
}

// DeleteImage removes a locally stored image
func (s *LocalImageService) DeleteImage(_ context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(imageKey)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// ResolveStyleImage fills in the style image URL of an appointment. Lookup failures leave the URL empty.
func ResolveStyleImage(ctx context.Context, images ImageService, appointment *models.Appointment) {
	if images == nil || appointment.StyleImageRef == nil || *appointment.StyleImageRef == "" {
		return
	}
	if url, err := images.GetImageURL(ctx, *appointment.StyleImageRef); err == nil && url != "" {
		appointment.StyleImageURL = &url
	}
}

// ResolveCatalogImage fills in the image URL of a catalog style
func ResolveCatalogImage(ctx context.Context, images ImageService, style *models.CatalogStyle) {
	if images == nil || style.ImageKey == "" {
		return
	}
	if url, err := images.GetImageURL(ctx, style.ImageKey); err == nil && url != "" {
		style.ImageURL = &url
	}
}
