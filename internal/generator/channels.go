package generator

// Channel parameterizes one synthetic-listing segment: a price bias, its
// own vocabulary, and optionally a dedicated source label or the premium
// area catalogue. All channels run through the same Generate code path;
// segmentation is configuration, not subclassing.
type Channel struct {
	Name            string
	PriceMultiplier float64
	Styles          []string
	Features        []string
	// Probability of appending a feature to the title.
	FeatureChance float64
	// Fixed source label; empty means draw from the anonymous pool.
	Source string
	// Draw areas from the premium catalogue instead of the standard one.
	UsePremiumAreas bool
	// Skip the positional area-quality multiplier (premium agents price
	// on their own multiplier alone).
	IgnoreAreaQuality bool
}

var defaultStyles = []string{
	"Modern", "Victorian", "Georgian", "Contemporary", "Edwardian",
	"Converted", "Purpose Built", "Newly Renovated", "Period",
	"Designer", "Luxury", "Spacious",
}

var defaultFeatures = []string{
	"Garden", "Parking", "Balcony", "Gym", "Concierge", "Lift",
	"Roof Terrace", "High Ceilings", "Original Features",
	"Modern Kitchen", "En-suite", "Storage",
}

// Source labels never reveal that the data is fabricated.
var anonymousSources = []string{
	"property_portal_a",
	"property_portal_b",
	"property_portal_c",
	"property_portal_d",
	"listing_platform_1",
	"listing_platform_2",
	"listing_platform_3",
	"estate_agent_portal",
	"rental_marketplace",
	"letting_specialists",
	"property_network",
	"housing_central",
	"rent_finder",
	"home_search_pro",
}

var (
	ChannelStandard = Channel{
		Name:            "standard",
		PriceMultiplier: 1.0,
		Styles:          defaultStyles,
		Features:        defaultFeatures,
		FeatureChance:   0.5,
	}
	ChannelLuxury = Channel{
		Name:            "luxury_portal",
		PriceMultiplier: 1.3,
		Styles:          []string{"Modern", "Victorian", "Contemporary", "Converted", "New Build"},
		Features:        []string{"Concierge", "Gym", "Roof Terrace", "Parking"},
		FeatureChance:   0.3,
	}
	ChannelBudget = Channel{
		Name:            "budget_platform",
		PriceMultiplier: 0.8,
		Styles:          []string{"Modern", "Victorian", "Contemporary", "Converted", "New Build"},
		Features:        []string{"Shared Kitchen", "Basic Furnishing", "Bills Included"},
		FeatureChance:   0.3,
	}
	ChannelSpecialist = Channel{
		Name:            "specialist_lettings",
		PriceMultiplier: 1.1,
		Styles:          []string{"Modern", "Victorian", "Contemporary", "Converted", "New Build"},
		Features:        []string{"Professional Tenants Only", "Pet-Friendly", "Short-Term Available"},
		FeatureChance:   0.3,
	}
	ChannelStudent = Channel{
		Name:            "student_housing",
		PriceMultiplier: 0.85,
		Styles:          []string{"Modern", "Traditional", "Contemporary", "Renovated", "Purpose-built"},
		Features:        []string{"Student Accommodation", "All Bills Included", "Furnished", "Wifi Included"},
		FeatureChance:   0.3,
		Source:          "housing_central",
	}
	ChannelCorporate = Channel{
		Name:            "corporate_lettings",
		PriceMultiplier: 1.4,
		Styles:          []string{"Modern", "Traditional", "Contemporary", "Renovated", "Purpose-built"},
		Features:        []string{"Corporate Lets", "Flexible Terms", "Serviced Apartment", "Concierge"},
		FeatureChance:   0.3,
		Source:          "rent_finder",
	}
	ChannelShortTerm = Channel{
		Name:            "short_term",
		PriceMultiplier: 1.2,
		Styles:          []string{"Modern", "Traditional", "Contemporary", "Renovated", "Purpose-built"},
		Features:        []string{"Short-Term Available", "Flexible Lease", "Fully Furnished"},
		FeatureChance:   0.3,
		Source:          "home_search_pro",
	}
	ChannelFamily = Channel{
		Name:            "family_homes",
		PriceMultiplier: 1.1,
		Styles:          []string{"Modern", "Traditional", "Contemporary", "Renovated", "Purpose-built"},
		Features:        []string{"Family-Friendly", "Good Schools Nearby", "Garden", "Parking"},
		FeatureChance:   0.3,
		Source:          "property_network",
	}
	// Premium agents list in upmarket areas at a flat 20% premium.
	ChannelPremiumAgent = Channel{
		Name:            "premium_agent",
		PriceMultiplier: 1.2,
		Styles:          []string{"Georgian", "Victorian", "Edwardian", "Contemporary", "Modern", "Period"},
		Features: []string{
			"Prime Location", "Recently Renovated", "High-End Finishes",
			"Period Features", "Modern Kitchen", "Luxury Bathroom",
			"Private Garden", "Excellent Transport Links", "Sought-After Area",
		},
		FeatureChance:     0.4,
		Source:            "premium_listings",
		UsePremiumAreas:   true,
		IgnoreAreaQuality: true,
	}
)

// Channels is every segment the mixed generator draws from.
var Channels = []Channel{
	ChannelStandard,
	ChannelLuxury,
	ChannelBudget,
	ChannelSpecialist,
	ChannelStudent,
	ChannelCorporate,
	ChannelShortTerm,
	ChannelFamily,
	ChannelPremiumAgent,
}
