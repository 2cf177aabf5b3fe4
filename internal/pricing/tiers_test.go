package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		name     string
		location string
		wantTier string
		wantOK   bool
	}{
		{name: "Test university city", location: "Cambridge", wantTier: TierPremiumUniversity, wantOK: true},
		{name: "Test major city", location: "manchester", wantTier: TierMajorCities, wantOK: true},
		{name: "Test scotland major city classified as major", location: "Glasgow", wantTier: TierMajorCities, wantOK: true},
		{name: "Test scotland tier", location: "Aberdeen", wantTier: TierScotland, wantOK: true},
		{name: "Test wales", location: "Cardiff", wantTier: TierWales, wantOK: true},
		{name: "Test substring match", location: "central leeds", wantTier: TierMajorCities, wantOK: true},
		{name: "Test unclassified", location: "Shrewsbury", wantOK: false},
		{name: "Test london unclassified", location: "London", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, ok := TierFor(tt.location)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantTier, tier.Name)
			}
		})
	}
}

func TestFallbackLocations(t *testing.T) {
	peers := FallbackLocations("manchester")
	assert.NotContains(t, peers, "manchester")
	assert.Contains(t, peers, "birmingham")
	assert.Contains(t, peers, "leeds")

	// Unclassified locations fall back to the big markets.
	assert.Equal(t, defaultFallback, FallbackLocations("Shrewsbury"))
}
