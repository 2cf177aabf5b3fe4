package model

import (
	"time"

	"gorm.io/gorm"
)

// Property type values stored on listings. "flat" and "apartment" are
// treated as the same market by the analysis engine.
const (
	PropertyTypeFlat       = "flat"
	PropertyTypeApartment  = "apartment"
	PropertyTypeHouse      = "house"
	PropertyTypeStudio     = "studio"
	PropertyTypeRoom       = "room"
	PropertyTypeMaisonette = "maisonette"
	PropertyTypeBungalow   = "bungalow"
)

// Listing is a single rental unit held for market comparison. Rows are
// keyed by (source, source_id); re-capturing the same unit refreshes the
// row in place instead of duplicating it.
type Listing struct {
	ID          uint   `gorm:"primarykey"`
	Title       string `gorm:"type:varchar(500);not null"`
	Description string `gorm:"type:text"`

	PropertyType string `gorm:"type:varchar(50);not null"`
	Bedrooms     int    `gorm:"not null"`

	Address  string `gorm:"type:varchar(500);not null"`
	Area     string `gorm:"type:varchar(200)"`
	Postcode string `gorm:"type:varchar(20)"`

	WeeklyRent  float64 `gorm:"not null"`
	MonthlyRent float64 `gorm:"not null"`

	Source    string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_listings_source_source_id"`
	SourceID  string    `gorm:"type:varchar(200);not null;uniqueIndex:uq_listings_source_source_id"`
	SourceURL string    `gorm:"type:varchar(500)"`
	ScrapedAt time.Time `gorm:"not null;index"`

	IsActive    bool `gorm:"not null;default:true"`
	IsDuplicate bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Listing) TableName() string {
	return "listings"
}

// BeforeSave keeps the monthly figure derived from the weekly one; it is
// never set independently.
func (l *Listing) BeforeSave(tx *gorm.DB) error {
	l.MonthlyRent = l.WeeklyRent * 52 / 12
	return nil
}

// ListingFilter narrows listing queries. Location matches as a
// case-insensitive substring of address, area or postcode; Locations is
// the market-tier fallback variant of the same match.
type ListingFilter struct {
	PropertyType      string
	Bedrooms          *int
	Location          string
	Locations         []string
	ActiveOnly        bool
	ExcludeDuplicates bool
	RentedOnly        bool // weekly_rent > 0
	OrderByRecency    bool
	Limit             int
}

// ListingStats summarizes the state of the listing store.
type ListingStats struct {
	TotalListings  int64    `json:"total_listings"`
	RecentListings int64    `json:"recent_listings"`
	Sources        []string `json:"sources"`
}

// SearchCombo is a distinct (location, property type, bedrooms) tuple that
// has been analyzed before, used by the background coverage refresh.
type SearchCombo struct {
	Location     string
	PropertyType string
	Bedrooms     int
}
