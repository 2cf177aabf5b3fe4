package model

import "time"

const (
	ScrapeJobStatusPending   = "pending"
	ScrapeJobStatusRunning   = "running"
	ScrapeJobStatusCompleted = "completed"
	ScrapeJobStatusFailed    = "failed"
	ScrapeJobStatusExpired   = "expired"
)

// ScrapeJob records one generation run and doubles as a per-user lease:
// a partial unique index on (user_id) WHERE status = 'running' means at
// most one live run per user, enforced by the database rather than an
// in-process flag. Stale running rows past their TTL are expired before
// a new lease is taken.
type ScrapeJob struct {
	ID     uint   `gorm:"primarykey"`
	UserID uint   `gorm:"not null"`
	Status string `gorm:"type:varchar(20);not null;default:pending"`

	PropertyType string  `gorm:"type:varchar(50);not null"`
	Bedrooms     int     `gorm:"not null"`
	Location     string  `gorm:"type:varchar(200);not null"`
	MaxRadius    float64 `gorm:"not null;default:2"`

	StartedAt         *time.Time
	CompletedAt       *time.Time
	PropertiesScraped int    `gorm:"not null;default:0"`
	ErrorMessage      string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ScrapeJob) TableName() string {
	return "scrape_jobs"
}
