package service

import (
	"rentwatch/internal/dto"
	"rentwatch/internal/model"
	"rentwatch/pkg/utils"
)

// CalculateMarketPosition places a weekly rent against a comparable set.
// Returns nil when the rent is unknown or there is nothing to compare
// against. The percentile counts comparables at or below the rent;
// CheaperCount and MoreExpensiveCount are strict, so exact-rent ties are
// in the percentile numerator but in neither count. That asymmetry is
// part of the contract.
func CalculateMarketPosition(userWeeklyRent *float64, comparables []model.Listing) *dto.MarketPosition {
	if userWeeklyRent == nil || *userWeeklyRent <= 0 || len(comparables) == 0 {
		return nil
	}

	rents := make([]float64, 0, len(comparables))
	for _, listing := range comparables {
		if listing.WeeklyRent > 0 {
			rents = append(rents, listing.WeeklyRent)
		}
	}
	if len(rents) == 0 {
		return nil
	}

	userRent := *userWeeklyRent
	var atOrBelow, cheaper, moreExpensive int
	for _, rent := range rents {
		switch {
		case rent < userRent:
			cheaper++
			atOrBelow++
		case rent == userRent:
			atOrBelow++
		default:
			moreExpensive++
		}
	}

	return &dto.MarketPosition{
		Percentile:         utils.Round1(float64(atOrBelow) / float64(len(rents)) * 100),
		TotalProperties:    len(rents),
		CheaperCount:       cheaper,
		MoreExpensiveCount: moreExpensive,
	}
}
