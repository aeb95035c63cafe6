package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vastramitra/vastramitra-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdvanceRate is the share of the total collected before the appointment is booked
var AdvanceRate = decimal.RequireFromString("0.30")

// Estimate is a price quote. A zero estimate with Available=false means no quote exists.
type Estimate struct {
	Total     int64 `json:"total"`
	Advance   int64 `json:"advance"`
	Balance   int64 `json:"balance"`
	Available bool  `json:"available"`
}

// SplitTotal splits a total into the advance (30%, rounded) and the remaining balance
func SplitTotal(total int64) (advance, balance int64) {
	advance = decimal.NewFromInt(total).Mul(AdvanceRate).Round(0).IntPart()
	return advance, total - advance
}

// NormalizeFabricSource maps client spellings of the fabric choice onto the canonical values.
// It returns "" for anything it does not recognise.
func NormalizeFabricSource(fabric string) string {
	switch strings.ToLower(strings.TrimSpace(fabric)) {
	case models.FabricCustomer, "own fabric", "customer fabric", "customer-supplied":
		return models.FabricCustomer
	case models.FabricTailor, "tailor's fabric", "tailor fabric", "tailor-supplied":
		return models.FabricTailor
	}
	return ""
}

// IsValidComplexity reports whether tier is one of the priced complexity tiers
func IsValidComplexity(tier string) bool {
	switch tier {
	case models.ComplexitySimple, models.ComplexityMedium, models.ComplexityHeavy:
		return true
	}
	return false
}

// PricingService resolves price quotes from the pricing table
type PricingService struct {
	db *gorm.DB
}

// NewPricingService creates a new pricing service
func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{db: db}
}

// Resolve computes the quote for a style, complexity tier and fabric source.
// A missing pricing record yields a zero estimate rather than an error.
func (s *PricingService) Resolve(ctx context.Context, category, complexity, fabricSource string) (Estimate, error) {
	pricing, err := s.find(ctx, category)
	if err != nil {
		return Estimate{}, err
	}
	if pricing == nil {
		return Estimate{}, nil
	}
	return EstimateFor(pricing, complexity, fabricSource), nil
}

// EstimateFor applies the pricing rules of a record
func EstimateFor(pricing *models.Pricing, complexity, fabricSource string) Estimate {
	total := pricing.BasePrice
	switch complexity {
	case models.ComplexitySimple:
		total += pricing.SimpleAdd
	case models.ComplexityMedium:
		total += pricing.MediumAdd
	case models.ComplexityHeavy:
		total += pricing.HeavyAdd
	}
	if NormalizeFabricSource(fabricSource) == models.FabricTailor {
		total += pricing.TailorFabricExtra
	}

	advance, balance := SplitTotal(total)
	return Estimate{Total: total, Advance: advance, Balance: balance, Available: true}
}

// List returns every pricing record ordered by category
func (s *PricingService) List(ctx context.Context) ([]models.Pricing, error) {
	var records []models.Pricing
	if err := s.db.WithContext(ctx).Order("category ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list pricing: %w", err)
	}
	return records, nil
}

// Upsert creates or replaces the pricing record of a category
func (s *PricingService) Upsert(ctx context.Context, pricing *models.Pricing) error {
	pricing.Category = normalizeCategory(pricing.Category)
	if pricing.Category == "" {
		return validationError("Category is required")
	}
	if pricing.BasePrice < 0 || pricing.SimpleAdd < 0 || pricing.MediumAdd < 0 ||
		pricing.HeavyAdd < 0 || pricing.TailorFabricExtra < 0 {
		return validationError("Prices cannot be negative")
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"base_price", "simple_add", "medium_add", "heavy_add", "tailor_fabric_extra", "updated_at"}),
	}).Create(pricing).Error
	if err != nil {
		return fmt.Errorf("failed to save pricing: %w", err)
	}
	return nil
}

func (s *PricingService) find(ctx context.Context, category string) (*models.Pricing, error) {
	category = normalizeCategory(category)
	if category == "" {
		return nil, nil
	}

	var pricing models.Pricing
	err := s.db.WithContext(ctx).Where("category = ?", category).First(&pricing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing for %s: %w", category, err)
	}
	return &pricing, nil
}

// normalizeCategory makes category lookups case-insensitive
func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
