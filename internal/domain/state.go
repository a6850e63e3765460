package domain

import "github.com/shopspring/decimal"

// Status is the lifecycle state of a single auction round.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusBidding Status = "bidding"
	StatusSold    Status = "sold"
	StatusUnsold  Status = "unsold"
	StatusPaused  Status = "paused"
)

// AuctionState is a snapshot of the current round. The engine replaces it
// wholesale on every transition; holders of a snapshot never see later
// mutations.
type AuctionState struct {
	CurrentPlayer *Player         `json:"current_player"`
	CurrentBid    decimal.Decimal `json:"current_bid"`
	LeadingTeam   *Team           `json:"leading_team"`
	Timer         int             `json:"timer"` // seconds remaining
	Status        Status          `json:"status"`
}
