package retention

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/domain"
)

func players(capped, uncapped int) []*domain.Player {
	var out []*domain.Player
	for i := 0; i < capped; i++ {
		out = append(out, &domain.Player{ID: fmt.Sprintf("c%d", i), IsCapped: true})
	}
	for i := 0; i < uncapped; i++ {
		out = append(out, &domain.Player{ID: fmt.Sprintf("u%d", i)})
	}
	return out
}

func TestValidateRetentions_Cost(t *testing.T) {
	cases := []struct {
		name     string
		capped   int
		uncapped int
		want     string
	}{
		{"no retentions", 0, 0, "0"},
		{"single capped uses first slab", 1, 0, "18"},
		{"two capped", 2, 0, "32"},
		{"four capped", 4, 0, "44"},
		{"uncapped flat rate", 0, 2, "8"},
		{"full mega retention", 4, 2, "52"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cost, err := ValidateRetentions(players(tc.capped, tc.uncapped), AuctionMega)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !cost.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("cost = %s, want %s", cost, tc.want)
			}
		})
	}
}

func TestValidateRetentions_MegaLimits(t *testing.T) {
	cases := []struct {
		name     string
		capped   int
		uncapped int
	}{
		{"too many total", 4, 3},
		{"too many capped", 5, 0},
		{"too many uncapped", 2, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateRetentions(players(tc.capped, tc.uncapped), AuctionMega)
			var rerr *domain.RetentionError
			if !errors.As(err, &rerr) {
				t.Fatalf("err = %v, want RetentionError", err)
			}
		})
	}
}

func TestValidateRetentions_Mini(t *testing.T) {
	// Mini auctions have no count limits.
	cost, err := ValidateRetentions(players(3, 5), AuctionMini)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 18 + 14 + 8 capped, 5 * 4 uncapped.
	if !cost.Equal(decimal.NewFromInt(60)) {
		t.Errorf("cost = %s, want 60", cost)
	}

	// A fifth capped retention has no slab price even in a mini auction.
	if _, err := ValidateRetentions(players(5, 0), AuctionMini); err == nil {
		t.Error("expected error for fifth capped retention")
	}
}

func TestCost_Breakdown(t *testing.T) {
	breakdown, err := Cost(players(2, 1), AuctionMega)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if breakdown.CappedCount != 2 || breakdown.UncappedCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", breakdown.CappedCount, breakdown.UncappedCount)
	}
	if !breakdown.CappedCost.Equal(decimal.NewFromInt(32)) {
		t.Errorf("capped cost = %s, want 32", breakdown.CappedCost)
	}
	if !breakdown.UncappedCost.Equal(decimal.NewFromInt(4)) {
		t.Errorf("uncapped cost = %s, want 4", breakdown.UncappedCost)
	}
	if !breakdown.Total.Equal(decimal.NewFromInt(36)) {
		t.Errorf("total = %s, want 36", breakdown.Total)
	}
}
