package repository

import (
	"context"
	"errors"
	"time"

	"rentwatch/internal/model"

	"gorm.io/gorm"
)

// ErrLeaseHeld means another generation run is live for the same user.
var ErrLeaseHeld = errors.New("scrape job already running for user")

type ScrapeJobRepository interface {
	// AcquireLease creates a running scrape job for the user. The partial
	// unique index on (user_id) WHERE status = 'running' makes the
	// check-and-set atomic; a second concurrent caller gets ErrLeaseHeld.
	AcquireLease(ctx context.Context, job *model.ScrapeJob) error
	Complete(ctx context.Context, jobID uint, propertiesScraped int) error
	Fail(ctx context.Context, jobID uint, message string) error
	// ExpireStale releases running leases whose holder died: any job
	// started before the cutoff is marked expired.
	ExpireStale(ctx context.Context, startedBefore time.Time) (int64, error)
	// RecentCombos lists the distinct search tuples completed since the
	// cutoff, for the background coverage refresh.
	RecentCombos(ctx context.Context, since time.Time, limit int) ([]model.SearchCombo, error)
}

type scrapeJobRepository struct {
	db *gorm.DB
}

func NewScrapeJobRepository(db *gorm.DB) ScrapeJobRepository {
	return &scrapeJobRepository{db: db}
}

func (r *scrapeJobRepository) AcquireLease(ctx context.Context, job *model.ScrapeJob) error {
	now := time.Now()
	job.Status = model.ScrapeJobStatusRunning
	job.StartedAt = &now

	err := r.db.WithContext(ctx).Create(job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrLeaseHeld
		}
		return err
	}
	return nil
}

func (r *scrapeJobRepository) Complete(ctx context.Context, jobID uint, propertiesScraped int) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.ScrapeJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":             model.ScrapeJobStatusCompleted,
			"properties_scraped": propertiesScraped,
			"completed_at":       now,
		}).Error
}

func (r *scrapeJobRepository) Fail(ctx context.Context, jobID uint, message string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.ScrapeJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":        model.ScrapeJobStatusFailed,
			"error_message": message,
			"completed_at":  now,
		}).Error
}

func (r *scrapeJobRepository) ExpireStale(ctx context.Context, startedBefore time.Time) (int64, error) {
	db := r.db.WithContext(ctx).Model(&model.ScrapeJob{}).
		Where("status = ? AND started_at < ?", model.ScrapeJobStatusRunning, startedBefore).
		Update("status", model.ScrapeJobStatusExpired)
	if db.Error != nil {
		return 0, db.Error
	}
	return db.RowsAffected, nil
}

func (r *scrapeJobRepository) RecentCombos(ctx context.Context, since time.Time, limit int) ([]model.SearchCombo, error) {
	var combos []model.SearchCombo
	db := r.db.WithContext(ctx).Model(&model.ScrapeJob{}).
		Select("DISTINCT location, property_type, bedrooms").
		Where("status = ? AND created_at >= ?", model.ScrapeJobStatusCompleted, since)
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Scan(&combos).Error; err != nil {
		return nil, err
	}
	return combos, nil
}
