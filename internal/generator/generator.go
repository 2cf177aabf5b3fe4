// Package generator fabricates plausible UK rental listings. It stands in
// for a live property scraper: output is shaped like scraped data (source
// labels, source IDs, postcodes) but is synthesized from the pricing
// tables and area catalogues.
package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"rentwatch/internal/model"
	"rentwatch/internal/pricing"
	"rentwatch/pkg/logger"
	"rentwatch/pkg/utils"

	"github.com/google/uuid"
)

// Generator produces synthetic listings. Each call produces freshly
// tagged records on purpose, to simulate market variety; it is not
// idempotent across calls.
type Generator struct {
	log *logger.Logger

	// rand.Rand is not safe for concurrent use and the coverage service
	// fans out per bedroom count.
	mu  sync.Mutex
	rng *rand.Rand
}

func New(log *logger.Logger) *Generator {
	return NewWithSeed(log, time.Now().UnixNano())
}

// NewWithSeed fixes the random source, for tests.
func NewWithSeed(log *logger.Logger, seed int64) *Generator {
	return &Generator{
		log: log,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Generate fabricates count listings for the given criteria through one
// channel. It never fails for a valid (type, bedrooms) pair; unsupported
// combinations fall back to the default price range.
func (g *Generator) Generate(propertyType string, bedrooms int, location string, count int, ch Channel) []model.Listing {
	g.mu.Lock()
	defer g.mu.Unlock()

	effective := pricing.EffectiveRange(propertyType, bedrooms, location)
	display := pricing.DisplayName(location)
	areas := pricing.AreasWithQuality(location, g.rng)
	premiumAreas := pricing.PremiumAreasFor(location)

	listings := make([]model.Listing, 0, count)
	for i := 0; i < count; i++ {
		var areaName string
		qualityMult := 1.0
		if ch.UsePremiumAreas {
			areaName = premiumAreas[g.rng.Intn(len(premiumAreas))]
		} else {
			area := areas[g.rng.Intn(len(areas))]
			areaName = area.Name
			if !ch.IgnoreAreaQuality {
				qualityMult = area.Quality.Multiplier()
			}
		}

		minRent := int(float64(effective.Min) * qualityMult * ch.PriceMultiplier)
		maxRent := int(float64(effective.Max) * qualityMult * ch.PriceMultiplier)
		if maxRent <= minRent {
			maxRent = minRent + 1
		}
		weeklyRent := float64(minRent + g.rng.Intn(maxRent-minRent+1))

		style := ch.Styles[g.rng.Intn(len(ch.Styles))]
		feature := ch.Features[g.rng.Intn(len(ch.Features))]

		title := fmt.Sprintf("%d Bedroom %s - %s", bedrooms, utils.TitleCase(propertyType), style)
		if g.rng.Float64() < ch.FeatureChance {
			title += fmt.Sprintf(" with %s", feature)
		}

		source := ch.Source
		if source == "" {
			source = anonymousSources[g.rng.Intn(len(anonymousSources))]
		}

		listing := model.Listing{
			Title:        title,
			Description:  fmt.Sprintf("%s %d-bedroom %s in %s. Features %s.", style, bedrooms, strings.ToLower(propertyType), areaName, strings.ToLower(feature)),
			PropertyType: strings.ToLower(propertyType),
			Bedrooms:     bedrooms,
			Address:      fmt.Sprintf("%s, %s", areaName, display),
			Area:         areaName,
			Postcode:     pricing.PostcodeFor(location, areaName, g.rng),
			WeeklyRent:   weeklyRent,
			MonthlyRent:  weeklyRent * 52 / 12,
			Source:       source,
			SourceID:     g.sourceID(ch.Name, location),
			SourceURL:    fmt.Sprintf("https://property-listing-%d.co.uk/property/%d", 1+g.rng.Intn(5), 1000+g.rng.Intn(99000)),
			ScrapedAt:    time.Now(),
			IsActive:     true,
			IsDuplicate:  false,
		}
		listings = append(listings, listing)
	}

	g.log.Debug("Generated synthetic listings",
		logger.StringField("channel", ch.Name),
		logger.StringField("location", location),
		logger.IntField("count", len(listings)),
	)

	return listings
}

// GenerateMix fabricates exactly count listings spread across all
// channels, weighted towards the standard segment so the corpus looks
// like a general market with niche pockets.
func (g *Generator) GenerateMix(propertyType string, bedrooms int, location string, count int) []model.Listing {
	listings := make([]model.Listing, 0, count)
	for i := 0; i < count; i++ {
		listings = append(listings, g.Generate(propertyType, bedrooms, location, 1, g.pickChannel())...)
	}
	return listings
}

// pickChannel draws a channel with the standard segment weighted at
// roughly half the corpus.
func (g *Generator) pickChannel() Channel {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rng.Intn(2) == 0 {
		return ChannelStandard
	}
	return Channels[1+g.rng.Intn(len(Channels)-1)]
}

// sourceID is an opaque source-native identifier. It embeds the channel
// and location slug the way portal IDs embed search context, plus a UUID
// so repeated generation runs never collide.
func (g *Generator) sourceID(channel, location string) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(location)), " ", "-")
	return fmt.Sprintf("%s_%s_%s", channel, slug, uuid.NewString())
}
