package service

import (
	"context"
	"fmt"

	"rentwatch/config"
	"rentwatch/internal/generator"
	"rentwatch/internal/model"
	"rentwatch/internal/repository"
	"rentwatch/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// CoverageService guarantees a minimum listing count per search filter,
// generating synthetic listings for the shortfall.
type CoverageService interface {
	// EnsureCoverage tops the store up to at least minCount active,
	// non-duplicate listings for the filter and returns the resulting
	// total. Calling it again with no intervening deletions is a no-op
	// beyond the count query.
	EnsureCoverage(ctx context.Context, location, propertyType string, bedrooms, minCount int) (int64, error)
	// EnsureUserCoverage prepares the store for a user analysis: full
	// coverage for their own criteria plus a smaller cushion for the
	// neighbouring bedroom counts, so presentation can show variety.
	EnsureUserCoverage(ctx context.Context, location, propertyType string, bedrooms int) (int64, error)
}

type coverageService struct {
	cfg         *config.Config
	log         *logger.Logger
	gen         *generator.Generator
	listingRepo repository.ListingRepository
}

func NewCoverageService(cfg *config.Config, log *logger.Logger, gen *generator.Generator, listingRepo repository.ListingRepository) CoverageService {
	return &coverageService{
		cfg:         cfg,
		log:         log,
		gen:         gen,
		listingRepo: listingRepo,
	}
}

func (s *coverageService) EnsureCoverage(ctx context.Context, location, propertyType string, bedrooms, minCount int) (int64, error) {
	filter := model.ListingFilter{
		PropertyType:      propertyType,
		Bedrooms:          &bedrooms,
		Location:          location,
		ActiveOnly:        true,
		ExcludeDuplicates: true,
	}

	existing, err := s.listingRepo.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count listings for %s: %w", location, err)
	}
	if existing >= int64(minCount) {
		s.log.DebugContext(ctx, "Coverage already sufficient",
			logger.StringField("location", location),
			logger.Field("count", existing),
		)
		return existing, nil
	}

	shortfall := minCount - int(existing)
	listings := s.gen.GenerateMix(propertyType, bedrooms, location, shortfall)

	var created int64
	for i := range listings {
		isNew, err := s.listingRepo.Upsert(ctx, &listings[i])
		if err != nil {
			// A failed listing degrades coverage, it never aborts the run.
			s.log.ErrorContext(ctx, "Failed to upsert generated listing",
				logger.ErrorField(err),
				logger.StringField("source_id", listings[i].SourceID),
			)
			continue
		}
		if isNew {
			created++
		}
	}

	total := existing + created
	s.log.InfoContext(ctx, "Topped up listing coverage",
		logger.StringField("location", location),
		logger.StringField("property_type", propertyType),
		logger.IntField("bedrooms", bedrooms),
		logger.Field("added", created),
		logger.Field("total", total),
	)

	return total, nil
}

func (s *coverageService) EnsureUserCoverage(ctx context.Context, location, propertyType string, bedrooms int) (int64, error) {
	total, err := s.EnsureCoverage(ctx, location, propertyType, bedrooms, s.cfg.Market.MinCoverage)
	if err != nil {
		return 0, err
	}

	// Neighbouring bedroom counts get a smaller cushion, concurrently.
	g, gctx := errgroup.WithContext(ctx)
	if bedrooms > 1 {
		g.Go(func() error {
			_, err := s.EnsureCoverage(gctx, location, propertyType, bedrooms-1, s.cfg.Market.NeighbourCoverage)
			return err
		})
	}
	if bedrooms < 4 {
		g.Go(func() error {
			_, err := s.EnsureCoverage(gctx, location, propertyType, bedrooms+1, s.cfg.Market.NeighbourCoverage)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		// Cushion failures are logged, not surfaced: the user's own
		// criteria are already covered.
		s.log.WarnContext(ctx, "Neighbour bedroom coverage failed", logger.ErrorField(err))
	}

	return total, nil
}
