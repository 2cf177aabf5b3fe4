// Package pricing holds the static UK rental-market tables: base weekly
// rent ranges per property type and bedroom count, the location
// multiplier cascade, area catalogues per city, and the market-tier
// grouping used for sparse-data fallback. The numeric constants are
// illustrative regional averages, deliberately not London prices.
package pricing

import (
	"math/rand"
	"strings"

	"rentwatch/internal/model"
)

// PriceRange is a weekly-rent band in whole pounds.
type PriceRange struct {
	Min int
	Max int
}

// Base weekly ranges by property type and bedrooms. London and other
// expensive markets are reached through LocationMultiplier, not here.
var baseRanges = map[string]map[int]PriceRange{
	model.PropertyTypeHouse: {
		2: {180, 350},
		3: {220, 450},
		4: {300, 600},
		5: {400, 800},
	},
	model.PropertyTypeFlat: {
		1: {120, 280},
		2: {150, 350},
		3: {200, 450},
		4: {280, 550},
	},
}

// defaultRange covers any (type, bedrooms) pair outside the table. An
// unsupported combination is never an error.
var defaultRange = PriceRange{400, 800}

// BasePriceRange returns the base weekly range for the pair. Types
// without their own table borrow the closest one: studios and rooms
// price like small flats, maisonettes like flats, bungalows like houses.
func BasePriceRange(propertyType string, bedrooms int) PriceRange {
	t := strings.ToLower(strings.TrimSpace(propertyType))
	switch t {
	case model.PropertyTypeApartment, model.PropertyTypeMaisonette:
		t = model.PropertyTypeFlat
	case model.PropertyTypeStudio, model.PropertyTypeRoom:
		t = model.PropertyTypeFlat
		if bedrooms < 1 {
			bedrooms = 1
		}
	case model.PropertyTypeBungalow:
		t = model.PropertyTypeHouse
	}

	if r, ok := baseRanges[t][bedrooms]; ok {
		return r
	}
	return defaultRange
}

// SupportedPairs lists every (type, bedrooms) pair with its own table
// entry, for tests and catalogue tooling.
func SupportedPairs() map[string][]int {
	pairs := make(map[string][]int, len(baseRanges))
	for t, byBeds := range baseRanges {
		for beds := range byBeds {
			pairs[t] = append(pairs[t], beds)
		}
	}
	return pairs
}

type locationTier struct {
	keywords   []string
	multiplier float64
}

// The cascade is evaluated in order and the first match wins. Ordering is
// a correctness contract: London terms must come before everything, and
// the Greater Manchester satellites must come after the "affordable"
// keywords they would otherwise shadow. Do not reorder without updating
// the regression tests.
var locationTiers = []locationTier{
	{[]string{"london", "central london", "zone 1", "zone 2"}, 2.2},
	{[]string{"cambridge", "oxford", "bath", "winchester"}, 1.6},
	{[]string{"manchester", "birmingham", "bristol", "leeds", "liverpool", "nottingham", "sheffield", "newcastle"}, 1.3},
	{[]string{"brighton", "exeter", "york", "chester", "canterbury"}, 1.4},
	{[]string{"reading", "guildford", "st albans", "windsor", "kingston"}, 1.8},
	{[]string{"milton keynes", "coventry", "leicester", "derby", "peterborough"}, 1.1},
	{[]string{"hull", "stoke", "blackpool", "middlesbrough", "bolton"}, 0.9},
	{[]string{"salford", "oldham", "stockport", "wigan"}, 1.1},
}

const defaultMultiplier = 1.0

// LocationMultiplier classifies a free-text location into a market tier
// multiplier via case-insensitive substring matching. Unrecognized
// locations price at the UK regional average.
func LocationMultiplier(location string) float64 {
	loc := strings.ToLower(location)
	for _, tier := range locationTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(loc, kw) {
				return tier.multiplier
			}
		}
	}
	return defaultMultiplier
}

// EffectiveRange is the base range scaled by the location multiplier.
func EffectiveRange(propertyType string, bedrooms int, location string) PriceRange {
	base := BasePriceRange(propertyType, bedrooms)
	m := LocationMultiplier(location)
	return PriceRange{
		Min: int(float64(base.Min) * m),
		Max: int(float64(base.Max) * m),
	}
}

// Quality is the positional quality tier of an area within a catalogue.
type Quality string

const (
	QualityPremium    Quality = "premium"
	QualityHigh       Quality = "high"
	QualityGood       Quality = "good"
	QualityStandard   Quality = "standard"
	QualityAffordable Quality = "affordable"
	QualityBudget     Quality = "budget"
)

// Multiplier returns the modest price adjustment for the quality tier.
// Location pricing is already applied upstream, so these stay close to 1.
func (q Quality) Multiplier() float64 {
	switch q {
	case QualityPremium:
		return 1.15
	case QualityHigh:
		return 1.10
	case QualityGood:
		return 1.05
	case QualityAffordable:
		return 0.95
	case QualityBudget:
		return 0.90
	default:
		return 1.0
	}
}

// qualityForIndex assigns quality by catalogue position: authors control
// quality by ordering areas, not by tagging them. The first two areas are
// premium, the next two high, and so on; anything past the eighth is
// randomly affordable or budget.
func qualityForIndex(i int, rng *rand.Rand) Quality {
	switch {
	case i < 2:
		return QualityPremium
	case i < 4:
		return QualityHigh
	case i < 6:
		return QualityGood
	case i < 8:
		return QualityStandard
	default:
		if rng.Intn(2) == 0 {
			return QualityAffordable
		}
		return QualityBudget
	}
}
