package pricing

import (
	"errors"
	"testing"

	"github.com/Jit017/iplauction/internal/domain"
)

func testPlayer() *domain.Player {
	return &domain.Player{
		ID:        "p1",
		Name:      "Test Player",
		Role:      domain.RoleBatsman,
		MinPrice:  dec("1.4"),
		BasePrice: dec("2"),
		MaxPrice:  dec("40"),
		Rating:    80,
	}
}

func TestValidateBid(t *testing.T) {
	p := testPlayer()

	t.Run("within range", func(t *testing.T) {
		if err := ValidateBid(dec("2"), p); err != nil {
			t.Errorf("ValidateBid(2) = %v, want nil", err)
		}
		if err := ValidateBid(dec("40"), p); err != nil {
			t.Errorf("ValidateBid(40) = %v, want nil", err)
		}
	})

	t.Run("below min", func(t *testing.T) {
		err := ValidateBid(dec("1"), p)
		if !errors.Is(err, domain.ErrBidTooLow) {
			t.Errorf("ValidateBid(1) = %v, want ErrBidTooLow", err)
		}
		var pe *domain.PriceError
		if !errors.As(err, &pe) {
			t.Fatal("expected *domain.PriceError")
		}
		if !pe.Limit.Equal(p.MinPrice) {
			t.Errorf("PriceError.Limit = %s, want %s", pe.Limit, p.MinPrice)
		}
	})

	t.Run("above max", func(t *testing.T) {
		err := ValidateBid(dec("40.25"), p)
		if !errors.Is(err, domain.ErrBidTooHigh) {
			t.Errorf("ValidateBid(40.25) = %v, want ErrBidTooHigh", err)
		}
	})
}

func TestEvaluateRoundEnd(t *testing.T) {
	p := testPlayer()

	cases := []struct {
		name         string
		bid          string
		timerExpired bool
		canEnd       bool
		mustExtend   bool
		isValid      bool
	}{
		{"below min, expired", "1", true, false, true, false},
		{"below min, running", "1", false, false, false, false},
		{"above max, expired", "41", true, false, false, false},
		{"above max, running", "41", false, false, false, false},
		{"valid, expired", "5", true, true, false, true},
		{"valid, running", "5", false, false, false, true},
		{"at min, expired", "1.4", true, true, false, true},
		{"at max, expired", "40", true, true, false, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ev := EvaluateRoundEnd(dec(c.bid), p, c.timerExpired)
			if ev.CanEnd != c.canEnd {
				t.Errorf("CanEnd = %v, want %v", ev.CanEnd, c.canEnd)
			}
			if ev.MustExtend != c.mustExtend {
				t.Errorf("MustExtend = %v, want %v", ev.MustExtend, c.mustExtend)
			}
			if ev.IsValid != c.isValid {
				t.Errorf("IsValid = %v, want %v", ev.IsValid, c.isValid)
			}
			if !ev.IsValid && ev.Err == nil {
				t.Error("invalid evaluation must carry an error")
			}
		})
	}
}

// The three outcomes are mutually exclusive: a round either can end, must
// extend, or is invalid without extending; never two at once.
func TestEvaluateRoundEnd_MutuallyExclusive(t *testing.T) {
	p := testPlayer()
	bids := []string{"0.5", "1.4", "2", "20", "40", "40.5", "100"}

	for _, b := range bids {
		for _, expired := range []bool{true, false} {
			ev := EvaluateRoundEnd(dec(b), p, expired)

			outcomes := 0
			if ev.CanEnd {
				outcomes++
			}
			if ev.MustExtend {
				outcomes++
			}
			if !ev.IsValid && !ev.MustExtend {
				outcomes++
			}
			if ev.CanEnd && ev.MustExtend {
				t.Errorf("bid %s expired=%v: CanEnd and MustExtend both set", b, expired)
			}
			if outcomes > 1 {
				t.Errorf("bid %s expired=%v: %d outcomes set, want at most 1", b, expired, outcomes)
			}
			if ev.MustExtend && !expired {
				t.Errorf("bid %s: MustExtend without timer expiry", b)
			}
		}
	}
}
