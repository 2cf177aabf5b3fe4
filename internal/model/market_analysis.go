package model

import (
	"time"

	"gorm.io/datatypes"
)

// MarketAnalysis is a frozen snapshot of a market query for one user at
// one point in time. Statistics are pointers: nil means "no data", which
// is distinct from zero. Once created a snapshot is never mutated; a new
// analysis replaces it.
type MarketAnalysis struct {
	ID     uint `gorm:"primarykey"`
	UserID uint `gorm:"not null;index"`

	// Search criteria used
	PropertyType      string         `gorm:"type:varchar(50);not null"`
	Bedrooms          int            `gorm:"not null"`
	SearchArea        string         `gorm:"type:varchar(200);not null"`
	SearchRadiusMiles float64        `gorm:"not null;default:2"`
	Criteria          datatypes.JSON `gorm:"type:jsonb"`

	// Analysis results
	AverageRent          *float64
	MedianRent           *float64
	MinRent              *float64
	MaxRent              *float64
	TotalPropertiesFound int    `gorm:"not null;default:0"`
	MarketSummary        string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`

	Comparables []Listing `gorm:"many2many:market_analysis_listings"`
}

func (MarketAnalysis) TableName() string {
	return "market_analyses"
}

// AnalysisCriteria is the JSON shape stored in MarketAnalysis.Criteria.
type AnalysisCriteria struct {
	PropertyType string `json:"property_type"`
	Bedrooms     int    `json:"bedrooms"`
	Location     string `json:"location"`
	ForceRefresh bool   `json:"force_refresh"`
}
