package pricing

import "strings"

// MarketTier groups UK locations with similar rent levels. When a user's
// own location has no listings, the analysis engine broadens to the rest
// of the tier before giving up and using the whole store.
type MarketTier struct {
	Name      string
	Locations []string
}

// Tier names, stable across the API.
const (
	TierPremiumUniversity = "premium_university"
	TierMajorCities       = "major_cities"
	TierCommuterBelt      = "commuter_belt"
	TierRegionalTowns     = "regional_towns"
	TierAffordableNorth   = "affordable_north"
	TierCoastalTowns      = "coastal_towns"
	TierWales             = "wales"
	TierScotland          = "scotland"
)

// Evaluated in order; a location is classified by its first matching
// tier. Edinburgh and Glasgow sit in major_cities, so the scotland tier
// deliberately excludes them.
var marketTiers = []MarketTier{
	{TierPremiumUniversity, []string{"cambridge", "oxford", "bath", "winchester", "york", "exeter"}},
	{TierMajorCities, []string{"manchester", "birmingham", "bristol", "leeds", "liverpool", "nottingham", "sheffield", "newcastle", "edinburgh", "glasgow"}},
	{TierCommuterBelt, []string{"reading", "guildford", "st albans", "windsor", "kingston", "watford", "harrow", "bromley"}},
	{TierRegionalTowns, []string{"milton keynes", "coventry", "leicester", "derby", "peterborough", "northampton", "luton"}},
	{TierAffordableNorth, []string{"hull", "stoke", "blackpool", "middlesbrough", "bolton", "preston", "blackburn", "burnley"}},
	{TierCoastalTowns, []string{"brighton", "bournemouth", "plymouth", "portsmouth", "hastings", "margate", "scarborough"}},
	{TierWales, []string{"cardiff", "swansea", "newport", "wrexham", "bangor"}},
	{TierScotland, []string{"aberdeen", "dundee", "stirling", "perth", "inverness"}},
}

// defaultFallback is used when the location matches no tier at all.
var defaultFallback = []string{"manchester", "birmingham", "bristol", "london"}

// TierFor returns the market tier containing the location, matching by
// case-insensitive substring.
func TierFor(location string) (MarketTier, bool) {
	loc := strings.ToLower(location)
	for _, tier := range marketTiers {
		for _, city := range tier.Locations {
			if strings.Contains(loc, city) {
				return tier, true
			}
		}
	}
	return MarketTier{}, false
}

// FallbackLocations returns the peer locations to search when the given
// location itself yields no comparables: the rest of its tier, or a
// default set of large markets for unclassified locations.
func FallbackLocations(location string) []string {
	loc := strings.ToLower(location)
	tier, ok := TierFor(location)
	if !ok {
		return defaultFallback
	}

	peers := make([]string, 0, len(tier.Locations))
	for _, city := range tier.Locations {
		if city != loc {
			peers = append(peers, city)
		}
	}
	return peers
}
