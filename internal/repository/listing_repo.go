package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentwatch/internal/model"
	"rentwatch/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Property type aliases folded together when filtering: legacy rows may
// carry any of the three spellings.
var flatAliases = []string{"flat", "apartment", "flat/apartment"}

// listingUpdateColumns are the mutable fields refreshed when an upsert
// hits an existing (source, source_id) row.
var listingUpdateColumns = []string{
	"title", "description", "property_type", "bedrooms",
	"address", "area", "postcode",
	"weekly_rent", "monthly_rent",
	"source_url", "scraped_at", "is_active", "is_duplicate", "updated_at",
}

type ListingRepository interface {
	Upsert(ctx context.Context, listing *model.Listing, opts ...utils.DBOption) (created bool, err error)
	Count(ctx context.Context, filter model.ListingFilter) (int64, error)
	Search(ctx context.Context, filter model.ListingFilter) ([]model.Listing, error)
	Stats(ctx context.Context) (*model.ListingStats, error)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Upsert inserts the listing or, when (source, source_id) already exists,
// refreshes the mutable fields of the existing row. The ON CONFLICT
// clause turns a lost insert race into an update, so concurrent coverage
// runs for the same location cannot duplicate rows.
func (r *listingRepository) Upsert(ctx context.Context, listing *model.Listing, opts ...utils.DBOption) (bool, error) {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	var existing model.Listing
	err := db.Where("source = ? AND source_id = ?", listing.Source, listing.SourceID).First(&existing).Error
	if err == nil {
		listing.ID = existing.ID
		listing.CreatedAt = existing.CreatedAt
		if err := db.Model(&model.Listing{}).Where("id = ?", existing.ID).
			Select(listingUpdateColumns).Updates(listing).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}, {Name: "source_id"}},
		DoUpdates: clause.AssignmentColumns(listingUpdateColumns),
	}).Create(listing).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *listingRepository) Count(ctx context.Context, filter model.ListingFilter) (int64, error) {
	var count int64
	err := applyListingFilter(r.db.WithContext(ctx).Model(&model.Listing{}), filter).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *listingRepository) Search(ctx context.Context, filter model.ListingFilter) ([]model.Listing, error) {
	var listings []model.Listing
	err := applyListingFilter(r.db.WithContext(ctx).Model(&model.Listing{}), filter).Find(&listings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) Stats(ctx context.Context) (*model.ListingStats, error) {
	db := r.db.WithContext(ctx)

	var stats model.ListingStats
	if err := db.Model(&model.Listing{}).Count(&stats.TotalListings).Error; err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-24 * time.Hour)
	if err := db.Model(&model.Listing{}).Where("scraped_at >= ?", cutoff).Count(&stats.RecentListings).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Listing{}).Distinct("source").Order("source ASC").Pluck("source", &stats.Sources).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// applyListingFilter translates a ListingFilter into a gorm query.
// Location matching is a case-insensitive substring over address, area
// and postcode; Locations applies the same match for any of the tier's
// peer locations.
func applyListingFilter(db *gorm.DB, f model.ListingFilter) *gorm.DB {
	if f.PropertyType != "" {
		if utils.ContainsString(flatAliases, f.PropertyType) {
			db = db.Where("property_type IN ?", flatAliases)
		} else {
			db = db.Where("property_type = ?", f.PropertyType)
		}
	}
	if f.Bedrooms != nil {
		db = db.Where("bedrooms = ?", *f.Bedrooms)
	}
	if f.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	if f.ExcludeDuplicates {
		db = db.Where("is_duplicate = ?", false)
	}
	if f.RentedOnly {
		db = db.Where("weekly_rent > 0")
	}

	if f.Location != "" {
		pattern := "%" + f.Location + "%"
		db = db.Where("(address ILIKE ? OR area ILIKE ? OR postcode ILIKE ?)", pattern, pattern, pattern)
	} else if len(f.Locations) > 0 {
		conds := make([]string, 0, len(f.Locations))
		args := make([]interface{}, 0, len(f.Locations)*3)
		for _, loc := range f.Locations {
			pattern := "%" + loc + "%"
			conds = append(conds, "(address ILIKE ? OR area ILIKE ? OR postcode ILIKE ?)")
			args = append(args, pattern, pattern, pattern)
		}
		db = db.Where(strings.Join(conds, " OR "), args...)
	}

	if f.OrderByRecency {
		db = db.Order("scraped_at DESC")
	}
	if f.Limit > 0 {
		db = db.Limit(f.Limit)
	}
	return db
}
