package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/domain"
)

// Evaluation is the three-way round-end classification for a bid.
// Exactly one of CanEnd, MustExtend, or invalid-without-extend holds for
// any (bid, player, timerExpired) tuple.
type Evaluation struct {
	// CanEnd is true when the bid is valid and the timer has expired.
	CanEnd bool
	// MustExtend is true when the timer expired below min price: the round
	// must continue rather than conclude.
	MustExtend bool
	// IsValid is true when the bid lies within [min, max].
	IsValid bool
	// Err describes the violation when IsValid is false.
	Err error
}

// ValidateBid checks a bid against the player's price range. It returns a
// *domain.PriceError wrapping ErrBidTooLow or ErrBidTooHigh on violation.
func ValidateBid(bid decimal.Decimal, p *domain.Player) error {
	if bid.LessThan(p.MinPrice) {
		return &domain.PriceError{Bid: bid, Limit: p.MinPrice, Err: domain.ErrBidTooLow}
	}
	if bid.GreaterThan(p.MaxPrice) {
		return &domain.PriceError{Bid: bid, Limit: p.MaxPrice, Err: domain.ErrBidTooHigh}
	}
	return nil
}

// EvaluateRoundEnd classifies the round outcome for the current bid.
//
// A bid below min price never concludes a round: if the timer expired the
// round must extend, otherwise it simply continues. A bid above max price
// is invalid at any time and never extends; such a bid should have been
// rejected on entry. A valid bid ends the round only once the timer has
// expired.
func EvaluateRoundEnd(currentBid decimal.Decimal, p *domain.Player, timerExpired bool) Evaluation {
	if currentBid.LessThan(p.MinPrice) {
		err := fmt.Errorf("%w: bid %s below minimum price %s",
			domain.ErrBidTooLow, currentBid, p.MinPrice)
		if timerExpired {
			return Evaluation{MustExtend: true, Err: err}
		}
		return Evaluation{Err: err}
	}

	if currentBid.GreaterThan(p.MaxPrice) {
		return Evaluation{Err: fmt.Errorf("%w: bid %s exceeds maximum price %s",
			domain.ErrBidTooHigh, currentBid, p.MaxPrice)}
	}

	if timerExpired {
		return Evaluation{CanEnd: true, IsValid: true}
	}
	return Evaluation{IsValid: true}
}
