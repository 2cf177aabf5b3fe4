package service

import (
	"context"
	"fmt"
	"time"

	"rentwatch/config"
	"rentwatch/internal/repository"
	"rentwatch/pkg/logger"

	"github.com/robfig/cron/v3"
)

// RefreshScheduler periodically tops up listing coverage for the search
// combinations users analysed recently, and purges aged analyses.
type RefreshScheduler interface {
	Start(ctx context.Context) error
	Stop()
	RunRefresh(ctx context.Context) error
	RunCleanup(ctx context.Context) error
}

type refreshScheduler struct {
	cfg           *config.Config
	log           *logger.Logger
	cron          *cron.Cron
	coverage      CoverageService
	scrapeJobRepo repository.ScrapeJobRepository
	analysisRepo  repository.MarketAnalysisRepository
}

func NewRefreshScheduler(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	coverage CoverageService,
) RefreshScheduler {
	return &refreshScheduler{
		cfg:           cfg,
		log:           log,
		cron:          cron.New(),
		coverage:      coverage,
		scrapeJobRepo: repo.ScrapeJobRepo,
		analysisRepo:  repo.MarketAnalysisRepo,
	}
}

func (s *refreshScheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Market.RefreshCron, func() {
		if err := s.RunRefresh(ctx); err != nil {
			s.log.ErrorContext(ctx, "Coverage refresh failed", logger.ErrorField(err))
		}
		if err := s.RunCleanup(ctx); err != nil {
			s.log.ErrorContext(ctx, "Analysis cleanup failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register refresh schedule: %w", err)
	}

	s.cron.Start()
	s.log.InfoContext(ctx, "Refresh scheduler started", logger.StringField("cron", s.cfg.Market.RefreshCron))
	return nil
}

func (s *refreshScheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Refresh scheduler stopped")
}

// RunRefresh re-ensures minimum coverage for every distinct search
// combination analysed in the retention window, so returning users find
// fresh listings instead of an empty store.
func (s *refreshScheduler) RunRefresh(ctx context.Context) error {
	since := time.Now().AddDate(0, 0, -s.cfg.Market.RetentionDays)
	combos, err := s.scrapeJobRepo.RecentCombos(ctx, since, 200)
	if err != nil {
		return fmt.Errorf("failed to load recent search combos: %w", err)
	}

	if len(combos) == 0 {
		s.log.InfoContext(ctx, "No recent search combos to refresh")
		return nil
	}

	var refreshed int64
	for _, combo := range combos {
		if ctx.Err() != nil {
			s.log.WarnContext(ctx, "Coverage refresh cancelled", logger.ErrorField(ctx.Err()))
			return nil
		}

		created, err := s.coverage.EnsureCoverage(ctx, combo.Location, combo.PropertyType, combo.Bedrooms, s.cfg.Market.MinCoverage)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to refresh combo coverage",
				logger.ErrorField(err),
				logger.StringField("location", combo.Location),
				logger.StringField("property_type", combo.PropertyType),
				logger.IntField("bedrooms", combo.Bedrooms),
			)
			continue
		}
		refreshed += created
	}

	s.log.InfoContext(ctx, "Coverage refresh completed",
		logger.IntField("combos", len(combos)),
		logger.Field("listings_created", refreshed),
	)
	return nil
}

func (s *refreshScheduler) RunCleanup(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.Market.RetentionDays)
	deleted, err := s.analysisRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge aged analyses: %w", err)
	}
	if deleted > 0 {
		s.log.InfoContext(ctx, "Purged aged analyses", logger.Field("deleted", deleted))
	}
	return nil
}
