package utils

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ContainsString checks if a slice of strings contains a specific string.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}

func ToPointer[T any](value T) *T {
	return &value
}

// Median returns the midpoint of the values, averaging the two middle
// elements when the count is even. Returns 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

var digitsRe = regexp.MustCompile(`\d+`)

var bedroomWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// ParseBedrooms extracts a bedroom count from free-text input such as
// "3 bed", "Three bedrooms" or "4". Falls back to 2 when nothing usable
// is found, matching the onboarding default.
func ParseBedrooms(raw string) int {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 2
	}

	for _, word := range []string{"bedrooms", "bedroom", "beds", "bed"} {
		s = strings.ReplaceAll(s, word, "")
	}
	s = strings.TrimSpace(s)

	if n, ok := bedroomWords[s]; ok {
		return n
	}

	if m := digitsRe.FindString(s); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}

	return 2
}

// TitleCase uppercases the first letter of each space-separated word.
// Good enough for UK place names ("milton keynes" -> "Milton Keynes").
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
