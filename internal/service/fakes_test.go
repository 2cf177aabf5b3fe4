package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"rentwatch/internal/model"
	"rentwatch/internal/repository"
	"rentwatch/pkg/utils"
)

// fakeListingRepo is an in-memory ListingRepository mirroring the SQL
// filter semantics closely enough for service-level tests.
type fakeListingRepo struct {
	mu       sync.Mutex
	listings []model.Listing
	nextID   uint

	upsertErr error
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{nextID: 1}
}

func (f *fakeListingRepo) Upsert(ctx context.Context, listing *model.Listing, opts ...utils.DBOption) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return false, f.upsertErr
	}

	listing.MonthlyRent = listing.WeeklyRent * 52 / 12
	for i := range f.listings {
		if f.listings[i].Source == listing.Source && f.listings[i].SourceID == listing.SourceID {
			listing.ID = f.listings[i].ID
			f.listings[i] = *listing
			return false, nil
		}
	}

	listing.ID = f.nextID
	f.nextID++
	f.listings = append(f.listings, *listing)
	return true, nil
}

func (f *fakeListingRepo) Count(ctx context.Context, filter model.ListingFilter) (int64, error) {
	matches, err := f.Search(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matches)), nil
}

func (f *fakeListingRepo) Search(ctx context.Context, filter model.ListingFilter) ([]model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []model.Listing
	for _, l := range f.listings {
		if matchesFilter(l, filter) {
			matches = append(matches, l)
		}
	}
	if filter.Limit > 0 && len(matches) > filter.Limit {
		matches = matches[:filter.Limit]
	}
	return matches, nil
}

func (f *fakeListingRepo) Stats(ctx context.Context) (*model.ListingStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &model.ListingStats{TotalListings: int64(len(f.listings))}
	sources := make(map[string]bool)
	for _, l := range f.listings {
		sources[l.Source] = true
	}
	for s := range sources {
		stats.Sources = append(stats.Sources, s)
	}
	return stats, nil
}

func matchesFilter(l model.Listing, f model.ListingFilter) bool {
	if f.PropertyType != "" {
		aliases := []string{"flat", "apartment", "flat/apartment"}
		if utils.ContainsString(aliases, f.PropertyType) {
			if !utils.ContainsString(aliases, l.PropertyType) {
				return false
			}
		} else if l.PropertyType != f.PropertyType {
			return false
		}
	}
	if f.Bedrooms != nil && l.Bedrooms != *f.Bedrooms {
		return false
	}
	if f.ActiveOnly && !l.IsActive {
		return false
	}
	if f.ExcludeDuplicates && l.IsDuplicate {
		return false
	}
	if f.RentedOnly && l.WeeklyRent <= 0 {
		return false
	}
	if f.Location != "" {
		if !matchesLocation(l, f.Location) {
			return false
		}
	} else if len(f.Locations) > 0 {
		any := false
		for _, loc := range f.Locations {
			if matchesLocation(l, loc) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}

func matchesLocation(l model.Listing, location string) bool {
	loc := strings.ToLower(location)
	return strings.Contains(strings.ToLower(l.Address), loc) ||
		strings.Contains(strings.ToLower(l.Area), loc) ||
		strings.Contains(strings.ToLower(l.Postcode), loc)
}

type fakeAnalysisRepo struct {
	mu       sync.Mutex
	analyses []model.MarketAnalysis
	nextID   uint
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{nextID: 1}
}

func (f *fakeAnalysisRepo) Create(ctx context.Context, analysis *model.MarketAnalysis, opts ...utils.DBOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	analysis.ID = f.nextID
	f.nextID++
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now()
	}
	f.analyses = append(f.analyses, *analysis)
	return nil
}

func (f *fakeAnalysisRepo) LatestForUser(ctx context.Context, userID uint, since time.Time) (*model.MarketAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest *model.MarketAnalysis
	for i := range f.analyses {
		a := f.analyses[i]
		if a.UserID != userID || a.CreatedAt.Before(since) {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) {
			latest = &f.analyses[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeAnalysisRepo) HistoryForUser(ctx context.Context, userID uint, limit int) ([]model.MarketAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var history []model.MarketAnalysis
	for i := len(f.analyses) - 1; i >= 0; i-- {
		if f.analyses[i].UserID == userID {
			history = append(history, f.analyses[i])
		}
		if limit > 0 && len(history) == limit {
			break
		}
	}
	return history, nil
}

func (f *fakeAnalysisRepo) DeleteForUser(ctx context.Context, userID uint, opts ...utils.DBOption) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var kept []model.MarketAnalysis
	var deleted int64
	for _, a := range f.analyses {
		if a.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	f.analyses = kept
	return deleted, nil
}

func (f *fakeAnalysisRepo) DeleteOlderThan(ctx context.Context, date time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var kept []model.MarketAnalysis
	var deleted int64
	for _, a := range f.analyses {
		if a.CreatedAt.Before(date) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	f.analyses = kept
	return deleted, nil
}

type fakeScrapeJobRepo struct {
	mu     sync.Mutex
	jobs   []model.ScrapeJob
	nextID uint
}

func newFakeScrapeJobRepo() *fakeScrapeJobRepo {
	return &fakeScrapeJobRepo{nextID: 1}
}

func (f *fakeScrapeJobRepo) AcquireLease(ctx context.Context, job *model.ScrapeJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, j := range f.jobs {
		if j.UserID == job.UserID && j.Status == model.ScrapeJobStatusRunning {
			return repository.ErrLeaseHeld
		}
	}

	now := time.Now()
	job.ID = f.nextID
	f.nextID++
	job.Status = model.ScrapeJobStatusRunning
	job.StartedAt = &now
	job.CreatedAt = now
	f.jobs = append(f.jobs, *job)
	return nil
}

func (f *fakeScrapeJobRepo) Complete(ctx context.Context, jobID uint, propertiesScraped int) error {
	return f.setStatus(jobID, model.ScrapeJobStatusCompleted, "")
}

func (f *fakeScrapeJobRepo) Fail(ctx context.Context, jobID uint, message string) error {
	return f.setStatus(jobID, model.ScrapeJobStatusFailed, message)
}

func (f *fakeScrapeJobRepo) setStatus(jobID uint, status, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.jobs {
		if f.jobs[i].ID == jobID {
			f.jobs[i].Status = status
			f.jobs[i].ErrorMessage = message
		}
	}
	return nil
}

func (f *fakeScrapeJobRepo) ExpireStale(ctx context.Context, startedBefore time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var expired int64
	for i := range f.jobs {
		if f.jobs[i].Status == model.ScrapeJobStatusRunning &&
			f.jobs[i].StartedAt != nil && f.jobs[i].StartedAt.Before(startedBefore) {
			f.jobs[i].Status = model.ScrapeJobStatusExpired
			expired++
		}
	}
	return expired, nil
}

func (f *fakeScrapeJobRepo) RecentCombos(ctx context.Context, since time.Time, limit int) ([]model.SearchCombo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[model.SearchCombo]bool)
	var combos []model.SearchCombo
	for _, j := range f.jobs {
		if j.Status != model.ScrapeJobStatusCompleted || j.CreatedAt.Before(since) {
			continue
		}
		combo := model.SearchCombo{Location: j.Location, PropertyType: j.PropertyType, Bedrooms: j.Bedrooms}
		if !seen[combo] {
			seen[combo] = true
			combos = append(combos, combo)
		}
	}
	if limit > 0 && len(combos) > limit {
		combos = combos[:limit]
	}
	return combos, nil
}

// fakeUnitOfWork runs the callback without a transaction.
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Run(fn func(opts ...utils.DBOption) error) error {
	return fn()
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]interface{})}
}

func (f *fakeCache) Set(key string, value interface{}, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
}

func (f *fakeCache) Get(key string) (interface{}, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.entries[key]
	return v, ok
}

func (f *fakeCache) Delete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
}

func (f *fakeCache) Flush() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[string]interface{})
}
