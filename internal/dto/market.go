package dto

import (
	"strings"

	"rentwatch/internal/model"
)

// AnalyzeRequest is the boundary tuple handed in by the presentation
// layer. Bedrooms arrives as free text because onboarding stores it that
// way ("3 bed", "Three bedrooms").
type AnalyzeRequest struct {
	UserID         uint     `json:"user_id" validate:"required"`
	PropertyType   string   `json:"property_type" validate:"required"`
	Bedrooms       string   `json:"bedrooms" validate:"required"`
	Location       string   `json:"location" validate:"required"`
	UserWeeklyRent *float64 `json:"user_weekly_rent,omitempty"`
	ForceRefresh   bool     `json:"force_refresh"`
}

// AnalyzeResult bundles the snapshot, the comparables trimmed for
// presentation, and the optional market position of the user's own rent.
type AnalyzeResult struct {
	Analysis    *model.MarketAnalysis `json:"analysis"`
	Comparables []model.Listing       `json:"comparable_properties"`
	Position    *MarketPosition       `json:"market_position,omitempty"`
	Reused      bool                  `json:"reused"`
}

// MarketPosition places a rent value against a comparable set. The
// percentile numerator counts rents <= the user's rent, while
// CheaperCount is strictly less-than; exact-rent ties therefore appear
// in the percentile but in neither count.
type MarketPosition struct {
	Percentile         float64 `json:"percentile"`
	TotalProperties    int     `json:"total_properties"`
	CheaperCount       int     `json:"cheaper_count"`
	MoreExpensiveCount int     `json:"more_expensive_count"`
}

type EnsureCoverageRequest struct {
	Location     string `json:"location" validate:"required"`
	PropertyType string `json:"property_type" validate:"required"`
	Bedrooms     int    `json:"bedrooms" validate:"gte=0"`
	MinCount     int    `json:"min_count" validate:"gte=0"`
}

// NormalizePropertyType folds user-facing variants onto stored values:
// anything mentioning "flat" or "apartment" becomes "flat".
func NormalizePropertyType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" {
		return model.PropertyTypeFlat
	}
	if strings.Contains(t, "flat") || strings.Contains(t, "apartment") {
		return model.PropertyTypeFlat
	}
	return t
}
