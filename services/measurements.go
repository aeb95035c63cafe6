package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vastramitra/vastramitra-api/models"
	"gorm.io/gorm"
)

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// MeasurementBook maps category to field to value
type MeasurementBook map[string]map[string]string

// MeasurementService keeps the tailor's measurement book
type MeasurementService struct {
	db *gorm.DB
}

// NewMeasurementService creates a new measurement service
func NewMeasurementService(db *gorm.DB) *MeasurementService {
	return &MeasurementService{db: db}
}

// CleanMeasurement strips everything but digits and dots from a measured value
func CleanMeasurement(value string) string {
	return nonNumeric.ReplaceAllString(value, "")
}

// SaveCategory replaces every field of one category for a customer. Values are cleaned and
// fields left empty after cleaning are dropped.
func (s *MeasurementService) SaveCategory(ctx context.Context, userID, category string, fields map[string]string) (map[string]string, error) {
	category = strings.TrimSpace(category)
	if userID == "" || category == "" {
		return nil, validationError("Customer and category are required")
	}

	rows := make([]models.Measurement, 0, len(fields))
	saved := make(map[string]string, len(fields))
	for field, value := range fields {
		field = strings.TrimSpace(field)
		cleaned := CleanMeasurement(value)
		if field == "" || cleaned == "" {
			continue
		}
		rows = append(rows, models.Measurement{UserID: userID, Category: category, Field: field, Value: cleaned})
		saved[field] = cleaned
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			return ErrUserNotFound
		}
		if err := tx.Where("user_id = ? AND category = ?", userID, category).Delete(&models.Measurement{}).Error; err != nil {
			return fmt.Errorf("failed to clear measurements: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save measurements: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Book returns every measurement recorded for a customer. No measurements is an empty book.
func (s *MeasurementService) Book(ctx context.Context, userID string) (MeasurementBook, error) {
	var rows []models.Measurement
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("category, field").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	book := MeasurementBook{}
	for _, row := range rows {
		if book[row.Category] == nil {
			book[row.Category] = map[string]string{}
		}
		book[row.Category][row.Field] = row.Value
	}
	return book, nil
}
