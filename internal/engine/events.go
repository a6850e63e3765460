package engine

import (
	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/domain"
)

// Kind tags an auction event.
type Kind string

const (
	KindStateChanged  Kind = "state_changed"
	KindPlayerSet     Kind = "player_set"
	KindBidPlaced     Kind = "bid_placed"
	KindTimerTick     Kind = "timer_tick"
	KindTimerExpired  Kind = "timer_expired"
	KindAuctionEnded  Kind = "auction_ended"
	KindPlayerSold    Kind = "player_sold"
	KindPlayerUnsold  Kind = "player_unsold"
	KindPlayerSkipped Kind = "player_skipped"
	KindRunComplete   Kind = "run_complete"
	KindError         Kind = "error"
)

// Event is one auction occurrence. Each kind is its own struct carrying
// only the fields that kind needs, so dispatch switches are checked at
// compile time.
type Event interface {
	Kind() Kind
	// Snapshot is the round state at the moment the event was emitted.
	Snapshot() domain.AuctionState
}

// StateChanged reports a round state mutation.
type StateChanged struct {
	State  domain.AuctionState
	Reason string
}

// PlayerSet reports a player entering the auction block.
type PlayerSet struct {
	State  domain.AuctionState
	Player *domain.Player
}

// BidPlaced reports an accepted bid.
type BidPlaced struct {
	State       domain.AuctionState
	Team        *domain.Team
	Amount      decimal.Decimal
	PreviousBid decimal.Decimal
}

// TimerTick reports one second elapsed on the countdown.
type TimerTick struct {
	State     domain.AuctionState
	Remaining int
}

// TimerExpired reports the countdown reaching zero.
type TimerExpired struct {
	State domain.AuctionState
}

// AuctionEnded reports the end of one player's round.
type AuctionEnded struct {
	State  domain.AuctionState
	Result domain.Status // StatusSold or StatusUnsold
}

// PlayerSold reports a winning bid.
type PlayerSold struct {
	State  domain.AuctionState
	Player *domain.Player
	Team   *domain.Team
	Amount decimal.Decimal
}

// PlayerUnsold reports a round ending with no sale.
type PlayerUnsold struct {
	State  domain.AuctionState
	Player *domain.Player
	Reason string
}

// PlayerSkipped reports the sequencer passing over an ineligible player.
type PlayerSkipped struct {
	State  domain.AuctionState
	Player *domain.Player
	Reason string
}

// RunComplete reports the pool being exhausted, with run statistics.
type RunComplete struct {
	State domain.AuctionState
	RunID string
	Stats Stats
}

// ErrorEvent reports an operation failure observers should know about.
type ErrorEvent struct {
	State domain.AuctionState
	Err   error
}

func (e StateChanged) Kind() Kind  { return KindStateChanged }
func (e PlayerSet) Kind() Kind     { return KindPlayerSet }
func (e BidPlaced) Kind() Kind     { return KindBidPlaced }
func (e TimerTick) Kind() Kind     { return KindTimerTick }
func (e TimerExpired) Kind() Kind  { return KindTimerExpired }
func (e AuctionEnded) Kind() Kind  { return KindAuctionEnded }
func (e PlayerSold) Kind() Kind    { return KindPlayerSold }
func (e PlayerUnsold) Kind() Kind  { return KindPlayerUnsold }
func (e PlayerSkipped) Kind() Kind { return KindPlayerSkipped }
func (e RunComplete) Kind() Kind   { return KindRunComplete }
func (e ErrorEvent) Kind() Kind    { return KindError }

func (e StateChanged) Snapshot() domain.AuctionState  { return e.State }
func (e PlayerSet) Snapshot() domain.AuctionState     { return e.State }
func (e BidPlaced) Snapshot() domain.AuctionState     { return e.State }
func (e TimerTick) Snapshot() domain.AuctionState     { return e.State }
func (e TimerExpired) Snapshot() domain.AuctionState  { return e.State }
func (e AuctionEnded) Snapshot() domain.AuctionState  { return e.State }
func (e PlayerSold) Snapshot() domain.AuctionState    { return e.State }
func (e PlayerUnsold) Snapshot() domain.AuctionState  { return e.State }
func (e PlayerSkipped) Snapshot() domain.AuctionState { return e.State }
func (e RunComplete) Snapshot() domain.AuctionState   { return e.State }
func (e ErrorEvent) Snapshot() domain.AuctionState    { return e.State }

// Subscriber receives auction events. Delivery is synchronous and happens
// while the engine holds its lock, so a subscriber must not call back into
// the engine directly; schedule any reaction asynchronously.
type Subscriber func(Event)
