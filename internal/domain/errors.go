package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrBidTooLow is returned when a bid is below the player's min price.
	ErrBidTooLow = errors.New("bid below minimum price")

	// ErrBidTooHigh is returned when a bid exceeds the player's max price.
	ErrBidTooHigh = errors.New("bid exceeds maximum price")

	// ErrInvalidPlayer is returned when player data violates the price or
	// rating invariants.
	ErrInvalidPlayer = errors.New("invalid player")

	// ErrPlayerUnavailable is returned when a player is retained or already
	// in a squad and therefore cannot be auctioned.
	ErrPlayerUnavailable = errors.New("player not available for auction")

	// ErrNoCurrentPlayer is returned when a bid arrives with no player set.
	ErrNoCurrentPlayer = errors.New("no player is currently being auctioned")

	// ErrTeamNotFound is returned when a team ID does not match any team.
	ErrTeamNotFound = errors.New("team not found")
)

// PriceError reports a bid outside a player's legal price range.
// It wraps ErrBidTooLow or ErrBidTooHigh.
type PriceError struct {
	Bid   decimal.Decimal
	Limit decimal.Decimal
	Err   error
}

func (e *PriceError) Error() string {
	if errors.Is(e.Err, ErrBidTooHigh) {
		return fmt.Sprintf("bid %s exceeds maximum price %s", e.Bid, e.Limit)
	}
	return fmt.Sprintf("bid %s is below minimum price %s", e.Bid, e.Limit)
}

func (e *PriceError) Unwrap() error {
	return e.Err
}

// StateError reports an operation attempted in the wrong auction status.
type StateError struct {
	Op     string
	Status Status
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s when auction is in %s state", e.Op, e.Status)
}

// InsufficientPurseError reports a team that cannot afford a bid.
type InsufficientPurseError struct {
	Team      string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientPurseError) Error() string {
	return fmt.Sprintf("team %s has insufficient purse: required %s, available %s",
		e.Team, e.Required, e.Available)
}

// RetentionError reports a retention rule violation.
type RetentionError struct {
	Reason string
}

func (e *RetentionError) Error() string {
	return "retention validation failed: " + e.Reason
}
