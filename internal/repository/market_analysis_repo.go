package repository

import (
	"context"
	"errors"
	"time"

	"rentwatch/internal/model"
	"rentwatch/pkg/utils"

	"gorm.io/gorm"
)

type MarketAnalysisRepository interface {
	Create(ctx context.Context, analysis *model.MarketAnalysis, opts ...utils.DBOption) error
	LatestForUser(ctx context.Context, userID uint, since time.Time) (*model.MarketAnalysis, error)
	HistoryForUser(ctx context.Context, userID uint, limit int) ([]model.MarketAnalysis, error)
	DeleteForUser(ctx context.Context, userID uint, opts ...utils.DBOption) (int64, error)
	DeleteOlderThan(ctx context.Context, date time.Time) (int64, error)
}

type marketAnalysisRepository struct {
	db *gorm.DB
}

func NewMarketAnalysisRepository(db *gorm.DB) MarketAnalysisRepository {
	return &marketAnalysisRepository{db: db}
}

// Create persists the snapshot together with its comparable-set join
// rows. The comparables themselves are already stored; Omit keeps gorm
// from re-upserting them while still writing the join table.
func (r *marketAnalysisRepository) Create(ctx context.Context, analysis *model.MarketAnalysis, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return db.Omit("Comparables.*").Create(analysis).Error
}

// LatestForUser returns the most recent analysis created at or after
// since, with its comparables preloaded newest-first. Returns nil, nil
// when no such snapshot exists.
func (r *marketAnalysisRepository) LatestForUser(ctx context.Context, userID uint, since time.Time) (*model.MarketAnalysis, error) {
	var analysis model.MarketAnalysis
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Preload("Comparables", func(db *gorm.DB) *gorm.DB {
			return db.Order("scraped_at DESC")
		}).
		First(&analysis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &analysis, nil
}

func (r *marketAnalysisRepository) HistoryForUser(ctx context.Context, userID uint, limit int) ([]model.MarketAnalysis, error) {
	var analyses []model.MarketAnalysis
	db := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&analyses).Error; err != nil {
		return nil, err
	}
	return analyses, nil
}

// DeleteForUser removes every snapshot owned by the user. Join rows go
// with them via the ON DELETE CASCADE constraint on the join table.
func (r *marketAnalysisRepository) DeleteForUser(ctx context.Context, userID uint, opts ...utils.DBOption) (int64, error) {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("user_id = ?", userID).
		Delete(&model.MarketAnalysis{})
	if db.Error != nil {
		return 0, db.Error
	}
	return db.RowsAffected, nil
}

func (r *marketAnalysisRepository) DeleteOlderThan(ctx context.Context, date time.Time) (int64, error) {
	db := r.db.WithContext(ctx).Where("created_at < ?", date).Delete(&model.MarketAnalysis{})
	if db.Error != nil {
		return 0, db.Error
	}
	return db.RowsAffected, nil
}
