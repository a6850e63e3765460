// Package retention validates pre-auction player retentions and prices
// them against the capped cost slabs.
package retention

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/domain"
)

// Capped retention cost slabs in Crores, applied in order: the first
// capped retention costs 18 Cr, the second 14 Cr, and so on.
var cappedSlabs = []int64{18, 14, 8, 4}

const (
	// uncappedCost is the flat cost per uncapped retention, in Crores.
	uncappedCost = 4

	// Mega-auction retention limits.
	maxTotalRetentions    = 6
	maxCappedRetentions   = 4
	maxUncappedRetentions = 2
)

// AuctionType selects which retention limits apply.
type AuctionType string

const (
	// AuctionMega caps retentions at 6 total, 4 capped and 2 uncapped.
	AuctionMega AuctionType = "mega"
	// AuctionMini places no limit on retention counts.
	AuctionMini AuctionType = "mini"
)

// CostBreakdown itemizes the cost of a validated retention set.
type CostBreakdown struct {
	CappedCount   int
	UncappedCount int
	CappedCost    decimal.Decimal
	UncappedCost  decimal.Decimal
	Total         decimal.Decimal
}

// ValidateRetentions checks a retention set against the rules for the
// given auction type and returns the total retention cost. Both auction
// types share the cost structure; only the count limits differ.
func ValidateRetentions(retained []*domain.Player, auctionType AuctionType) (decimal.Decimal, error) {
	breakdown, err := Cost(retained, auctionType)
	if err != nil {
		return decimal.Zero, err
	}
	return breakdown.Total, nil
}

// Cost validates a retention set and returns the itemized cost.
func Cost(retained []*domain.Player, auctionType AuctionType) (CostBreakdown, error) {
	var capped, uncapped []*domain.Player
	for _, p := range retained {
		if p.IsCapped {
			capped = append(capped, p)
		} else {
			uncapped = append(uncapped, p)
		}
	}

	if auctionType == AuctionMega {
		if len(retained) > maxTotalRetentions {
			return CostBreakdown{}, &domain.RetentionError{
				Reason: fmt.Sprintf("maximum %d retentions allowed in a mega auction, found %d",
					maxTotalRetentions, len(retained)),
			}
		}
		if len(capped) > maxCappedRetentions {
			return CostBreakdown{}, &domain.RetentionError{
				Reason: fmt.Sprintf("maximum %d capped retentions allowed in a mega auction, found %d",
					maxCappedRetentions, len(capped)),
			}
		}
		if len(uncapped) > maxUncappedRetentions {
			return CostBreakdown{}, &domain.RetentionError{
				Reason: fmt.Sprintf("maximum %d uncapped retentions allowed in a mega auction, found %d",
					maxUncappedRetentions, len(uncapped)),
			}
		}
	}

	// The slab table only covers four capped retentions. A mini auction
	// has no count limit, but a fifth capped player has no defined price.
	if len(capped) > len(cappedSlabs) {
		return CostBreakdown{}, &domain.RetentionError{
			Reason: fmt.Sprintf("no retention cost slab for capped retention %d, maximum priced is %d",
				len(capped), len(cappedSlabs)),
		}
	}

	breakdown := CostBreakdown{
		CappedCount:   len(capped),
		UncappedCount: len(uncapped),
		CappedCost:    decimal.Zero,
	}
	for i := range capped {
		breakdown.CappedCost = breakdown.CappedCost.Add(decimal.NewFromInt(cappedSlabs[i]))
	}
	breakdown.UncappedCost = decimal.NewFromInt(uncappedCost).Mul(decimal.NewFromInt(int64(len(uncapped))))
	breakdown.Total = breakdown.CappedCost.Add(breakdown.UncappedCost)
	return breakdown, nil
}
