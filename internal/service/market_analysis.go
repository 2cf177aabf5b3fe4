package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentwatch/config"
	"rentwatch/internal/dto"
	"rentwatch/internal/model"
	"rentwatch/internal/pricing"
	"rentwatch/internal/repository"
	"rentwatch/pkg/cache"
	"rentwatch/pkg/logger"
	"rentwatch/pkg/utils"
)

// ErrAnalysisInProgress means another analysis run holds the user's
// scrape-job lease.
var ErrAnalysisInProgress = errors.New("market analysis already in progress")

// MarketAnalysisService selects comparable listings for a user's rental
// criteria, computes descriptive statistics and persists the snapshot.
type MarketAnalysisService interface {
	Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResult, error)
	History(ctx context.Context, userID uint) ([]model.MarketAnalysis, error)
	Stats(ctx context.Context) (*model.ListingStats, error)
}

type marketAnalysisService struct {
	cfg           *config.Config
	log           *logger.Logger
	listingRepo   repository.ListingRepository
	analysisRepo  repository.MarketAnalysisRepository
	scrapeJobRepo repository.ScrapeJobRepository
	uow           repository.UnitOfWork
	coverage      CoverageService
	cache         cache.Cache
}

func NewMarketAnalysisService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	coverage CoverageService,
	inmemoryCache cache.Cache,
) MarketAnalysisService {
	return &marketAnalysisService{
		cfg:           cfg,
		log:           log,
		listingRepo:   repo.ListingRepo,
		analysisRepo:  repo.MarketAnalysisRepo,
		scrapeJobRepo: repo.ScrapeJobRepo,
		uow:           repo.UnitOfWork,
		coverage:      coverage,
		cache:         inmemoryCache,
	}
}

func analysisCacheKey(userID uint) string {
	return fmt.Sprintf("analysis:user:%d", userID)
}

func (s *marketAnalysisService) Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResult, error) {
	propertyType := dto.NormalizePropertyType(req.PropertyType)
	bedrooms := utils.ParseBedrooms(req.Bedrooms)
	location := strings.ToLower(strings.TrimSpace(req.Location))
	if location == "" {
		location = "london"
	}

	log := s.log.With(
		logger.Field("user_id", req.UserID),
		logger.StringField("property_type", propertyType),
		logger.IntField("bedrooms", bedrooms),
		logger.StringField("location", location),
	)

	if !req.ForceRefresh {
		if result, ok := s.cachedResult(req); ok {
			return result, nil
		}

		since := time.Now().Add(-s.cfg.Market.AnalysisMaxAge)
		recent, err := s.analysisRepo.LatestForUser(ctx, req.UserID, since)
		if err != nil {
			return nil, fmt.Errorf("failed to look up recent analysis: %w", err)
		}
		if recent != nil {
			log.InfoContext(ctx, "Reusing recent market analysis", logger.Field("analysis_id", recent.ID))
			return s.buildResult(recent, req.UserWeeklyRent, true), nil
		}
	} else {
		s.cache.Delete(analysisCacheKey(req.UserID))
	}

	// Take the per-user lease before generating anything. Stale leases
	// from dead runs are released first.
	if _, err := s.scrapeJobRepo.ExpireStale(ctx, time.Now().Add(-s.cfg.Market.LeaseTTL)); err != nil {
		log.WarnContext(ctx, "Failed to expire stale scrape jobs", logger.ErrorField(err))
	}
	job := &model.ScrapeJob{
		UserID:       req.UserID,
		PropertyType: propertyType,
		Bedrooms:     bedrooms,
		Location:     location,
	}
	if err := s.scrapeJobRepo.AcquireLease(ctx, job); err != nil {
		if errors.Is(err, repository.ErrLeaseHeld) {
			return nil, ErrAnalysisInProgress
		}
		return nil, fmt.Errorf("failed to acquire scrape job lease: %w", err)
	}

	// Coverage failures degrade to "fewer comparables", never abort: the
	// engine proceeds with whatever the store already holds.
	scraped, err := s.coverage.EnsureUserCoverage(ctx, location, propertyType, bedrooms)
	if err != nil {
		log.ErrorContext(ctx, "Coverage generation failed, proceeding with stored listings", logger.ErrorField(err))
	}

	comparables, err := s.selectComparables(ctx, propertyType, bedrooms, location)
	if err != nil {
		if failErr := s.scrapeJobRepo.Fail(ctx, job.ID, err.Error()); failErr != nil {
			log.ErrorContext(ctx, "Failed to mark scrape job failed", logger.ErrorField(failErr))
		}
		return nil, err
	}

	analysis := s.buildAnalysis(req.UserID, propertyType, bedrooms, location, req.ForceRefresh, comparables)

	err = s.uow.Run(func(opts ...utils.DBOption) error {
		if req.ForceRefresh {
			deleted, err := s.analysisRepo.DeleteForUser(ctx, req.UserID, opts...)
			if err != nil {
				return fmt.Errorf("failed to delete prior analyses: %w", err)
			}
			log.InfoContext(ctx, "Force refresh dropped prior analyses", logger.Field("deleted", deleted))
		}
		return s.analysisRepo.Create(ctx, analysis, opts...)
	})
	if err != nil {
		if failErr := s.scrapeJobRepo.Fail(ctx, job.ID, err.Error()); failErr != nil {
			log.ErrorContext(ctx, "Failed to mark scrape job failed", logger.ErrorField(failErr))
		}
		return nil, fmt.Errorf("failed to persist market analysis: %w", err)
	}

	if err := s.scrapeJobRepo.Complete(ctx, job.ID, int(scraped)); err != nil {
		log.WarnContext(ctx, "Failed to complete scrape job", logger.ErrorField(err))
	}

	log.InfoContext(ctx, "Created market analysis",
		logger.Field("analysis_id", analysis.ID),
		logger.IntField("comparables", analysis.TotalPropertiesFound),
	)

	result := s.buildResult(analysis, req.UserWeeklyRent, false)
	s.cache.Set(analysisCacheKey(req.UserID), result, s.cfg.Cache.DefaultExpiration)
	return result, nil
}

func (s *marketAnalysisService) cachedResult(req dto.AnalyzeRequest) (*dto.AnalyzeResult, bool) {
	cached, ok := s.cache.Get(analysisCacheKey(req.UserID))
	if !ok {
		return nil, false
	}
	result, ok := cached.(*dto.AnalyzeResult)
	if !ok {
		return nil, false
	}
	// Recompute the position: the cached entry may have been built for a
	// different user rent.
	reused := *result
	reused.Position = CalculateMarketPosition(req.UserWeeklyRent, reused.Comparables)
	reused.Reused = true
	return &reused, true
}

// selectComparables implements the fallback cascade: the user's own
// location first, then the rest of its market tier, then the whole
// store. Each step keeps the type/bedrooms/rent filter and the recency
// cap.
func (s *marketAnalysisService) selectComparables(ctx context.Context, propertyType string, bedrooms int, location string) ([]model.Listing, error) {
	base := model.ListingFilter{
		PropertyType:      propertyType,
		Bedrooms:          &bedrooms,
		ActiveOnly:        true,
		ExcludeDuplicates: true,
		RentedOnly:        true,
		OrderByRecency:    true,
		Limit:             s.cfg.Market.ComparableCap,
	}

	local := base
	local.Location = location
	comparables, err := s.listingRepo.Search(ctx, local)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings for %s: %w", location, err)
	}
	if len(comparables) > 0 {
		return comparables, nil
	}

	peers := pricing.FallbackLocations(location)
	s.log.WarnContext(ctx, "No local comparables, broadening to market tier",
		logger.StringField("location", location),
		logger.Field("tier_locations", peers),
	)
	tier := base
	tier.Locations = peers
	comparables, err = s.listingRepo.Search(ctx, tier)
	if err != nil {
		return nil, fmt.Errorf("failed to search tier listings: %w", err)
	}
	if len(comparables) > 0 {
		return comparables, nil
	}

	s.log.WarnContext(ctx, "Tier also empty, using all stored listings", logger.StringField("location", location))
	comparables, err = s.listingRepo.Search(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to search all listings: %w", err)
	}
	return comparables, nil
}

func (s *marketAnalysisService) buildAnalysis(userID uint, propertyType string, bedrooms int, location string, forced bool, comparables []model.Listing) *model.MarketAnalysis {
	analysis := &model.MarketAnalysis{
		UserID:               userID,
		PropertyType:         propertyType,
		Bedrooms:             bedrooms,
		SearchArea:           location,
		SearchRadiusMiles:    2.0,
		TotalPropertiesFound: len(comparables),
		Comparables:          comparables,
	}

	if criteria, err := json.Marshal(model.AnalysisCriteria{
		PropertyType: propertyType,
		Bedrooms:     bedrooms,
		Location:     location,
		ForceRefresh: forced,
	}); err == nil {
		analysis.Criteria = criteria
	}

	rents := make([]float64, 0, len(comparables))
	var minRent, maxRent, sum float64
	for _, listing := range comparables {
		if listing.WeeklyRent <= 0 {
			continue
		}
		if len(rents) == 0 || listing.WeeklyRent < minRent {
			minRent = listing.WeeklyRent
		}
		if len(rents) == 0 || listing.WeeklyRent > maxRent {
			maxRent = listing.WeeklyRent
		}
		sum += listing.WeeklyRent
		rents = append(rents, listing.WeeklyRent)
	}

	// Statistics stay nil when there is nothing to aggregate; zero would
	// read as "free rent", not "no data".
	if len(rents) > 0 {
		analysis.AverageRent = utils.ToPointer(sum / float64(len(rents)))
		analysis.MedianRent = utils.ToPointer(utils.Median(rents))
		analysis.MinRent = utils.ToPointer(minRent)
		analysis.MaxRent = utils.ToPointer(maxRent)
	}

	analysis.MarketSummary = buildMarketSummary(analysis)
	return analysis
}

// buildMarketSummary renders the analysis as prose: sample size and
// criteria, price range, central tendency, and a reliability caveat for
// thin samples.
func buildMarketSummary(analysis *model.MarketAnalysis) string {
	if analysis.TotalPropertiesFound == 0 || analysis.AverageRent == nil {
		return "Insufficient data for market analysis."
	}

	parts := []string{
		fmt.Sprintf("Found %d comparable %d-bedroom %ss in %s.",
			analysis.TotalPropertiesFound, analysis.Bedrooms, analysis.PropertyType, pricing.DisplayName(analysis.SearchArea)),
	}

	if analysis.MinRent != nil && analysis.MaxRent != nil {
		parts = append(parts, fmt.Sprintf("Weekly rents range from £%.0f to £%.0f.", *analysis.MinRent, *analysis.MaxRent))
	}
	if analysis.AverageRent != nil && analysis.MedianRent != nil {
		parts = append(parts, fmt.Sprintf("Average rent is £%.0f per week, median is £%.0f.", *analysis.AverageRent, *analysis.MedianRent))
	}

	if analysis.TotalPropertiesFound >= 10 {
		parts = append(parts, "This sample size provides a reliable market overview.")
	} else {
		parts = append(parts, "Limited sample size - consider expanding search criteria for more comprehensive analysis.")
	}

	return strings.Join(parts, " ")
}

func (s *marketAnalysisService) buildResult(analysis *model.MarketAnalysis, userWeeklyRent *float64, reused bool) *dto.AnalyzeResult {
	comparables := analysis.Comparables
	if len(comparables) > s.cfg.Market.PresentationCap {
		comparables = comparables[:s.cfg.Market.PresentationCap]
	}

	return &dto.AnalyzeResult{
		Analysis:    analysis,
		Comparables: comparables,
		Position:    CalculateMarketPosition(userWeeklyRent, analysis.Comparables),
		Reused:      reused,
	}
}

func (s *marketAnalysisService) History(ctx context.Context, userID uint) ([]model.MarketAnalysis, error) {
	return s.analysisRepo.HistoryForUser(ctx, userID, 10)
}

func (s *marketAnalysisService) Stats(ctx context.Context) (*model.ListingStats, error) {
	return s.listingRepo.Stats(ctx)
}
