package repository

import (
	"rentwatch/config"
	"rentwatch/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	ListingRepo        ListingRepository
	MarketAnalysisRepo MarketAnalysisRepository
	ScrapeJobRepo      ScrapeJobRepository
	UnitOfWork         UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	return &Repository{
		ListingRepo:        NewListingRepository(db),
		MarketAnalysisRepo: NewMarketAnalysisRepository(db),
		ScrapeJobRepo:      NewScrapeJobRepository(db),
		UnitOfWork:         NewUnitOfWork(db),
	}, nil
}
