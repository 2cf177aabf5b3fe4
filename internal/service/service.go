package service

import (
	"rentwatch/config"
	"rentwatch/internal/generator"
	"rentwatch/internal/repository"
	"rentwatch/pkg/cache"
	"rentwatch/pkg/logger"
)

type Service struct {
	CoverageService       CoverageService
	MarketAnalysisService MarketAnalysisService
	RefreshScheduler      RefreshScheduler
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	gen *generator.Generator,
) *Service {
	coverageService := NewCoverageService(cfg, log, gen, repo.ListingRepo)
	marketAnalysisService := NewMarketAnalysisService(cfg, log, repo, coverageService, inmemoryCache)
	refreshScheduler := NewRefreshScheduler(cfg, log, repo, coverageService)

	return &Service{
		CoverageService:       coverageService,
		MarketAnalysisService: marketAnalysisService,
		RefreshScheduler:      refreshScheduler,
	}
}
