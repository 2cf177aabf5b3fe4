package service

import (
	"context"
	"testing"
	"time"

	"rentwatch/internal/dto"
	"rentwatch/internal/generator"
	"rentwatch/internal/model"
	"rentwatch/internal/repository"
	"rentwatch/pkg/logger"
	"rentwatch/pkg/utils"

	"github.com/stretchr/testify/assert"
)

// noopCoverage leaves the store untouched, so selection tests control the
// comparable set exactly.
type noopCoverage struct{}

func (noopCoverage) EnsureCoverage(ctx context.Context, location, propertyType string, bedrooms, minCount int) (int64, error) {
	return 0, nil
}

func (noopCoverage) EnsureUserCoverage(ctx context.Context, location, propertyType string, bedrooms int) (int64, error) {
	return 0, nil
}

type analysisFixture struct {
	listings *fakeListingRepo
	analyses *fakeAnalysisRepo
	jobs     *fakeScrapeJobRepo
	cache    *fakeCache
	svc      MarketAnalysisService
}

func newAnalysisFixture(t *testing.T, coverage CoverageService) *analysisFixture {
	t.Helper()

	listings := newFakeListingRepo()
	analyses := newFakeAnalysisRepo()
	jobs := newFakeScrapeJobRepo()
	repo := &repository.Repository{
		ListingRepo:        listings,
		MarketAnalysisRepo: analyses,
		ScrapeJobRepo:      jobs,
		UnitOfWork:         fakeUnitOfWork{},
	}

	if coverage == nil {
		coverage = NewCoverageService(testConfig(), logger.NewNop(), generator.NewWithSeed(logger.NewNop(), 42), listings)
	}

	fcache := newFakeCache()
	return &analysisFixture{
		listings: listings,
		analyses: analyses,
		jobs:     jobs,
		cache:    fcache,
		svc:      NewMarketAnalysisService(testConfig(), logger.NewNop(), repo, coverage, fcache),
	}
}

func seedListings(f *fakeListingRepo, location, propertyType string, bedrooms int, rents ...float64) {
	for i, rent := range rents {
		_, _ = f.Upsert(context.Background(), &model.Listing{
			Title:        "seeded",
			PropertyType: propertyType,
			Bedrooms:     bedrooms,
			Address:      "High Street, " + location,
			Area:         "City Centre",
			WeeklyRent:   rent,
			Source:       "seed",
			SourceID:     location + "_" + propertyType + "_" + string(rune('a'+i)) + string(rune('0'+bedrooms)),
			ScrapedAt:    time.Now(),
			IsActive:     true,
		})
	}
}

func TestMarketAnalysisService_Analyze(t *testing.T) {
	ctx := context.Background()
	fx := newAnalysisFixture(t, nil)

	result, err := fx.svc.Analyze(ctx, dto.AnalyzeRequest{
		UserID:         1,
		PropertyType:   "Flat",
		Bedrooms:       "2 bed",
		Location:       "Leeds",
		UserWeeklyRent: utils.ToPointer(300.0),
	})
	assert.NoError(t, err)
	assert.False(t, result.Reused)
	assert.NotNil(t, result.Analysis)
	assert.Equal(t, "flat", result.Analysis.PropertyType)
	assert.Equal(t, 2, result.Analysis.Bedrooms)
	assert.Equal(t, "leeds", result.Analysis.SearchArea)
	assert.Equal(t, 15, result.Analysis.TotalPropertiesFound)
	assert.NotNil(t, result.Analysis.AverageRent)
	assert.NotNil(t, result.Analysis.MedianRent)
	assert.NotNil(t, result.Position)
	assert.LessOrEqual(t, len(result.Comparables), 20)
	assert.Contains(t, result.Analysis.MarketSummary, "comparable 2-bedroom flats in Leeds")

	// The lease was released.
	assert.Equal(t, model.ScrapeJobStatusCompleted, fx.jobs.jobs[0].Status)
}

func TestMarketAnalysisService_Analyze_ParsesWordBedrooms(t *testing.T) {
	ctx := context.Background()
	fx := newAnalysisFixture(t, nil)

	result, err := fx.svc.Analyze(ctx, dto.AnalyzeRequest{
		UserID:       2,
		PropertyType: "apartment",
		Bedrooms:     "Three bedrooms",
		Location:     "manchester",
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Analysis.Bedrooms)
	assert.Equal(t, "flat", result.Analysis.PropertyType)
}

func TestMarketAnalysisService_Analyze_ReusesRecent(t *testing.T) {
	ctx := context.Background()
	fx := newAnalysisFixture(t, nil)

	req := dto.AnalyzeRequest{UserID: 3, PropertyType: "flat", Bedrooms: "2", Location: "leeds"}

	first, err := fx.svc.Analyze(ctx, req)
	assert.NoError(t, err)
	assert.False(t, first.Reused)

	second, err := fx.svc.Analyze(ctx, req)
	assert.NoError(t, err)
	assert.True(t, second.Reused)
	assert.Equal(t, first.Analysis.ID, second.Analysis.ID)

	// Only one snapshot was persisted.
	assert.Len(t, fx.analyses.analyses, 1)
}

func TestMarketAnalysisService_Analyze_ForceRefreshReplacesSnapshots(t *testing.T) {
	ctx := context.Background()
	fx := newAnalysisFixture(t, nil)

	req := dto.AnalyzeRequest{UserID: 4, PropertyType: "flat", Bedrooms: "2", Location: "leeds"}

	_, err := fx.svc.Analyze(ctx, req)
	assert.NoError(t, err)

	req.ForceRefresh = true
	result, err := fx.svc.Analyze(ctx, req)
	assert.NoError(t, err)
	assert.False(t, result.Reused)
	assert.Len(t, fx.analyses.analyses, 1)
}

func TestMarketAnalysisService_Analyze_LeaseHeld(t *testing.T) {
	ctx := context.Background()
	fx := newAnalysisFixture(t, nil)

	err := fx.jobs.AcquireLease(ctx, &model.ScrapeJob{UserID: 5, PropertyType: "flat", Bedrooms: 2, Location: "leeds"})
	assert.NoError(t, err)

	_, err = fx.svc.Analyze(ctx, dto.AnalyzeRequest{UserID: 5, PropertyType: "flat", Bedrooms: "2", Location: "leeds"})
	assert.ErrorIs(t, err, ErrAnalysisInProgress)
}

func TestMarketAnalysisService_Analyze_ExpiresStaleLease(t *testing.T) {
	ctx := context.Background()
	fx := newAnalysisFixture(t, nil)

	err := fx.jobs.AcquireLease(ctx, &model.ScrapeJob{UserID: 6, PropertyType: "flat", Bedrooms: 2, Location: "leeds"})
	assert.NoError(t, err)
	stale := time.Now().Add(-time.Hour)
	fx.jobs.jobs[0].StartedAt = &stale

	_, err = fx.svc.Analyze(ctx, dto.AnalyzeRequest{UserID: 6, PropertyType: "flat", Bedrooms: "2", Location: "leeds"})
	assert.NoError(t, err)
	assert.Equal(t, model.ScrapeJobStatusExpired, fx.jobs.jobs[0].Status)
}

func TestMarketAnalysisService_Analyze_TierFallback(t *testing.T) {
	ctx := context.Background()
	fx := newAnalysisFixture(t, noopCoverage{})

	// Leeds itself is empty; Manchester is a major_cities peer.
	seedListings(fx.listings, "Manchester", "flat", 2, 250, 300, 350)

	result, err := fx.svc.Analyze(ctx, dto.AnalyzeRequest{UserID: 7, PropertyType: "flat", Bedrooms: "2", Location: "leeds"})
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Analysis.TotalPropertiesFound)
	for _, l := range result.Comparables {
		assert.Contains(t, l.Address, "Manchester")
	}
}

func TestMarketAnalysisService_Analyze_NoData(t *testing.T) {
	ctx := context.Background()
	fx := newAnalysisFixture(t, noopCoverage{})

	result, err := fx.svc.Analyze(ctx, dto.AnalyzeRequest{
		UserID:         8,
		PropertyType:   "flat",
		Bedrooms:       "2",
		Location:       "leeds",
		UserWeeklyRent: utils.ToPointer(300.0),
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Analysis.TotalPropertiesFound)
	assert.Nil(t, result.Analysis.AverageRent)
	assert.Nil(t, result.Position)
	assert.Equal(t, "Insufficient data for market analysis.", result.Analysis.MarketSummary)
}

func TestBuildMarketSummary(t *testing.T) {
	analysis := &model.MarketAnalysis{
		PropertyType:         "flat",
		Bedrooms:             2,
		SearchArea:           "leeds",
		TotalPropertiesFound: 4,
		AverageRent:          utils.ToPointer(300.0),
		MedianRent:           utils.ToPointer(290.0),
		MinRent:              utils.ToPointer(200.0),
		MaxRent:              utils.ToPointer(400.0),
	}

	summary := buildMarketSummary(analysis)
	assert.Contains(t, summary, "Found 4 comparable 2-bedroom flats in Leeds.")
	assert.Contains(t, summary, "Weekly rents range from £200 to £400.")
	assert.Contains(t, summary, "Average rent is £300 per week, median is £290.")
	assert.Contains(t, summary, "Limited sample size")

	analysis.TotalPropertiesFound = 12
	assert.Contains(t, buildMarketSummary(analysis), "reliable market overview")
}

func TestMarketAnalysisService_History(t *testing.T) {
	ctx := context.Background()
	fx := newAnalysisFixture(t, nil)

	req := dto.AnalyzeRequest{UserID: 9, PropertyType: "flat", Bedrooms: "2", Location: "leeds"}
	_, err := fx.svc.Analyze(ctx, req)
	assert.NoError(t, err)

	history, err := fx.svc.History(ctx, 9)
	assert.NoError(t, err)
	assert.Len(t, history, 1)

	other, err := fx.svc.History(ctx, 999)
	assert.NoError(t, err)
	assert.Empty(t, other)
}
