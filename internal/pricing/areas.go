package pricing

import (
	"fmt"
	"math/rand"
	"strings"

	"rentwatch/pkg/utils"
)

// Area is a named sub-area of a location with its positional quality.
type Area struct {
	Name    string
	Quality Quality
}

// Curated sub-areas per location. Ordering is a contract: the first two
// entries are the premium areas, the next two high, and so on (see
// qualityForIndex).
var areaCatalogue = map[string][]string{
	"london":     {"Shoreditch", "Clapham", "Brixton", "Hackney", "Peckham", "Dalston", "Bermondsey", "Camden", "Islington", "Putney"},
	"manchester": {"Northern Quarter", "Chorlton", "Didsbury", "Ancoats", "Fallowfield", "Withington", "Rusholme", "City Centre"},
	"birmingham": {"Jewellery Quarter", "Digbeth", "Edgbaston", "Moseley", "Kings Heath", "Harborne", "Selly Oak"},
	"bristol":    {"Clifton", "Redland", "Montpelier", "Stokes Croft", "Southville", "Bedminster", "Cotham"},
	"leeds":      {"Chapel Allerton", "Headingley", "Roundhay", "Horsforth", "Kirkstall", "City Centre", "Hyde Park"},
	"liverpool":  {"Baltic Triangle", "Georgian Quarter", "Cavern Quarter", "Ropewalks", "Aigburth", "Woolton"},
	"cambridge":  {"Mill Road", "Castle Hill", "Newnham", "Cherry Hinton", "Chesterton", "City Centre"},
	"oxford":     {"Jericho", "Cowley", "Headington", "Summertown", "Port Meadow", "City Centre"},
	"brighton":   {"North Laine", "The Lanes", "Kemptown", "Hove", "Preston Park", "Seven Dials"},
	"bath":       {"City Centre", "Bathwick", "Widcombe", "Bear Flat", "Oldfield Park", "Lansdown"},
}

// genericAreas keeps the generator working for any location the
// catalogue does not know.
var genericAreas = []string{"City Centre", "Old Town", "New Town", "Riverside", "Park Area", "Market Quarter", "Station Area", "Victoria Quarter"}

// Upmarket areas per location, used by the premium-agent channel.
var premiumAreaCatalogue = map[string][]string{
	"london":     {"Kensington", "Chelsea", "Notting Hill", "Mayfair", "Belgravia", "Marylebone", "Fitzrovia"},
	"manchester": {"Didsbury", "Alderley Edge", "Wilmslow", "Chorlton", "City Centre"},
	"birmingham": {"Edgbaston", "Sutton Coldfield", "Solihull", "Harborne", "Moseley"},
	"bristol":    {"Clifton", "Redland", "Westbury-on-Trym", "Henleaze", "Sneyd Park"},
	"leeds":      {"Roundhay", "Chapel Allerton", "Alwoodley", "Horsforth", "Wetherby"},
	"liverpool":  {"Woolton", "Crosby", "Formby", "West Derby", "Calderstones"},
	"cambridge":  {"Newnham", "Trumpington", "Grantchester", "Cherry Hinton", "City Centre"},
	"oxford":     {"Jericho", "Summertown", "North Oxford", "Headington", "Wolvercote"},
	"brighton":   {"Hove", "Seven Dials", "Preston Park", "Kemp Town", "The Lanes"},
	"bath":       {"Royal Crescent", "Lansdown", "Bathwick", "Bear Flat", "City Centre"},
}

var genericPremiumAreas = []string{"City Centre", "Old Town", "Historic Quarter", "Riverside", "Cathedral Quarter", "Royal Quarter", "Park District"}

// Postcode prefixes per city.
var postcodeCatalogue = map[string][]string{
	"london":     {"SW1", "SW3", "SW7", "W1", "W8", "W11", "N1", "N7", "E1", "E2", "E8", "SE1", "SE15", "SE22"},
	"manchester": {"M1", "M2", "M3", "M4", "M8", "M13", "M14", "M15", "M16", "M20"},
	"birmingham": {"B1", "B2", "B3", "B4", "B5", "B13", "B15", "B16", "B17", "B29"},
	"bristol":    {"BS1", "BS2", "BS3", "BS6", "BS7", "BS8", "BS9", "BS16"},
	"leeds":      {"LS1", "LS2", "LS3", "LS4", "LS6", "LS7", "LS8", "LS11", "LS16"},
	"liverpool":  {"L1", "L2", "L3", "L7", "L8", "L15", "L17", "L18", "L25"},
	"cambridge":  {"CB1", "CB2", "CB3", "CB4", "CB5"},
	"oxford":     {"OX1", "OX2", "OX3", "OX4"},
	"brighton":   {"BN1", "BN2", "BN3", "BN41", "BN42"},
	"bath":       {"BA1", "BA2"},
}

// Premium London areas carry their real postcode districts.
var premiumPostcodes = map[string][]string{
	"Kensington":   {"SW7", "SW5", "W8"},
	"Chelsea":      {"SW3", "SW10", "SW1"},
	"Notting Hill": {"W11", "W2"},
	"Mayfair":      {"W1K", "W1J", "W1S"},
	"Belgravia":    {"SW1X", "SW1W"},
	"Marylebone":   {"W1U", "W1H"},
	"Fitzrovia":    {"W1T", "W1W"},
	"Kings Cross":  {"N1C", "WC1X"},
	"Canary Wharf": {"E14"},
	"Shoreditch":   {"E1", "E2"},
}

func lookupByContains(catalogue map[string][]string, location string) ([]string, bool) {
	loc := strings.ToLower(location)
	for key, values := range catalogue {
		if strings.Contains(loc, key) {
			return values, true
		}
	}
	return nil, false
}

// AreasFor returns the ordered area names for a location, falling back to
// the generic set so generation never fails for an unknown place.
func AreasFor(location string) []string {
	if areas, ok := lookupByContains(areaCatalogue, location); ok {
		return areas
	}
	return genericAreas
}

// PremiumAreasFor returns the upmarket areas for a location.
func PremiumAreasFor(location string) []string {
	if areas, ok := lookupByContains(premiumAreaCatalogue, location); ok {
		return areas
	}
	return genericPremiumAreas
}

// AreasWithQuality pairs each catalogue area with its positional quality.
// The rng only decides affordable vs budget for trailing entries.
func AreasWithQuality(location string, rng *rand.Rand) []Area {
	names := AreasFor(location)
	areas := make([]Area, len(names))
	for i, name := range names {
		areas[i] = Area{Name: name, Quality: qualityForIndex(i, rng)}
	}
	return areas
}

// PostcodeFor synthesizes a plausible full postcode for an area within a
// location: a known district prefix plus a random inward code. Premium
// London areas use their real districts; unknown locations derive a
// prefix from the first letters of their name.
func PostcodeFor(location, area string, rng *rand.Rand) string {
	var prefixes []string
	if p, ok := premiumPostcodes[area]; ok {
		prefixes = p
	} else if p, ok := lookupByContains(postcodeCatalogue, location); ok {
		prefixes = p
	} else {
		prefix := "UK"
		if len(location) >= 2 {
			prefix = strings.ToUpper(location[:2])
		}
		for i := 1; i < 10; i++ {
			prefixes = append(prefixes, fmt.Sprintf("%s%d", prefix, i))
		}
	}

	prefix := prefixes[rng.Intn(len(prefixes))]
	return fmt.Sprintf("%s %d%c%c", prefix, 1+rng.Intn(9), 'A'+rune(rng.Intn(26)), 'A'+rune(rng.Intn(26)))
}

// DisplayName renders a location for addresses ("milton keynes" ->
// "Milton Keynes").
func DisplayName(location string) string {
	return utils.TitleCase(location)
}
