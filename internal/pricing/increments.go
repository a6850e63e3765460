// Package pricing implements IPL-style bid increments and price-band
// validation. All functions are pure; money is decimal to avoid
// floating-point drift in currency arithmetic.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Increment tiers (Crores): below 5 step by 0.25, between 5 and 10 step by
// 0.5, from 10 upward step by 1.
var (
	tierMedium = decimal.NewFromInt(5)
	tierLarge  = decimal.NewFromInt(10)

	stepSmall  = decimal.RequireFromString("0.25")
	stepMedium = decimal.RequireFromString("0.5")
	stepLarge  = decimal.NewFromInt(1)
)

// Increment returns the bid step that applies at the current bid.
func Increment(currentBid decimal.Decimal) decimal.Decimal {
	switch {
	case currentBid.LessThan(tierMedium):
		return stepSmall
	case currentBid.LessThan(tierLarge):
		return stepMedium
	default:
		return stepLarge
	}
}

// NextBid returns the current bid plus its tier increment, rounded to two
// decimal places.
func NextBid(currentBid decimal.Decimal) decimal.Decimal {
	return currentBid.Add(Increment(currentBid)).Round(2)
}

// NextBids returns the next count bid amounts, for previews.
func NextBids(currentBid decimal.Decimal, count int) []decimal.Decimal {
	bids := make([]decimal.Decimal, 0, count)
	bid := currentBid
	for i := 0; i < count; i++ {
		bid = NextBid(bid)
		bids = append(bids, bid)
	}
	return bids
}
