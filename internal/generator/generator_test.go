package generator

import (
	"strings"
	"testing"

	"rentwatch/internal/pricing"
	"rentwatch/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Generate(t *testing.T) {
	gen := NewWithSeed(logger.NewNop(), 42)

	listings := gen.Generate("flat", 2, "leeds", 10, ChannelStandard)
	assert.Len(t, listings, 10)

	effective := pricing.EffectiveRange("flat", 2, "leeds")
	seen := make(map[string]bool)
	for _, l := range listings {
		assert.Equal(t, "flat", l.PropertyType)
		assert.Equal(t, 2, l.Bedrooms)
		assert.Contains(t, l.Address, "Leeds")
		assert.NotEmpty(t, l.Area)
		assert.NotEmpty(t, l.Postcode)
		assert.NotEmpty(t, l.Title)
		assert.NotEmpty(t, l.Source)
		assert.True(t, l.IsActive)
		assert.False(t, l.IsDuplicate)
		assert.False(t, l.ScrapedAt.IsZero())

		// Quality can push the bounds up to 15% either way; the extra 1
		// absorbs integer truncation of the scaled bounds.
		assert.GreaterOrEqual(t, l.WeeklyRent, float64(effective.Min)*0.90-1)
		assert.LessOrEqual(t, l.WeeklyRent, float64(effective.Max)*1.15+1)
		assert.InDelta(t, l.WeeklyRent*52/12, l.MonthlyRent, 0.01)

		assert.False(t, seen[l.SourceID], "source IDs must be unique")
		seen[l.SourceID] = true
		assert.True(t, strings.HasPrefix(l.SourceID, "standard_leeds_"))
	}
}

func TestGenerator_Generate_ChannelMultiplier(t *testing.T) {
	luxury := NewWithSeed(logger.NewNop(), 42).Generate("flat", 2, "leeds", 50, ChannelLuxury)
	budget := NewWithSeed(logger.NewNop(), 42).Generate("flat", 2, "leeds", 50, ChannelBudget)

	var luxurySum, budgetSum float64
	for i := range luxury {
		luxurySum += luxury[i].WeeklyRent
		budgetSum += budget[i].WeeklyRent
	}
	assert.Greater(t, luxurySum/50, budgetSum/50)
}

func TestGenerator_Generate_FixedSources(t *testing.T) {
	gen := NewWithSeed(logger.NewNop(), 1)

	student := gen.Generate("flat", 1, "manchester", 5, ChannelStudent)
	for _, l := range student {
		assert.Equal(t, "housing_central", l.Source)
	}

	corporate := gen.Generate("flat", 2, "manchester", 5, ChannelCorporate)
	for _, l := range corporate {
		assert.Equal(t, "rent_finder", l.Source)
	}
}

func TestGenerator_Generate_PremiumAgentAreas(t *testing.T) {
	gen := NewWithSeed(logger.NewNop(), 1)

	listings := gen.Generate("flat", 2, "london", 20, ChannelPremiumAgent)
	premium := pricing.PremiumAreasFor("london")
	for _, l := range listings {
		assert.Contains(t, premium, l.Area)
	}
}

func TestGenerator_Generate_UnknownTypeUsesDefaultRange(t *testing.T) {
	gen := NewWithSeed(logger.NewNop(), 3)

	listings := gen.Generate("castle", 7, "shrewsbury", 5, ChannelStandard)
	for _, l := range listings {
		assert.GreaterOrEqual(t, l.WeeklyRent, 400*0.90-1)
		assert.LessOrEqual(t, l.WeeklyRent, 800*1.15+1)
	}
}

func TestGenerator_GenerateMix_ExactCount(t *testing.T) {
	gen := NewWithSeed(logger.NewNop(), 99)

	for _, count := range []int{1, 8, 15, 100} {
		listings := gen.GenerateMix("flat", 2, "leeds", count)
		assert.Len(t, listings, count)
	}
}

func TestGenerator_GenerateMix_SpreadsChannels(t *testing.T) {
	gen := NewWithSeed(logger.NewNop(), 7)

	listings := gen.GenerateMix("house", 3, "bristol", 200)
	sources := make(map[string]int)
	for _, l := range listings {
		sources[l.Source]++
	}
	assert.Greater(t, len(sources), 3, "a large mix should draw from several sources")
}
