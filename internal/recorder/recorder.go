// Package recorder builds a structured per-player record of an auction
// run from the event stream and exports it as JSON, CSV or SQLite rows.
package recorder

import (
	"time"

	"github.com/shopspring/decimal"
)

// BidRecord is one bid inside an entry's history.
type BidRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	Team      string          `json:"team"`
	Amount    decimal.Decimal `json:"amount"`
	// Elapsed is the time since the player's round started.
	Elapsed time.Duration `json:"elapsed"`
}

// Entry is the complete record of one player's round.
type Entry struct {
	PlayerID      string          `json:"player_id"`
	PlayerName    string          `json:"player_name"`
	PlayerRole    string          `json:"player_role"`
	PlayerRating  float64         `json:"player_rating"`
	BasePrice     decimal.Decimal `json:"base_price"`
	MinPrice      decimal.Decimal `json:"min_price"`
	MaxPrice      decimal.Decimal `json:"max_price"`
	FinalPrice    decimal.Decimal `json:"final_price"` // zero when unsold
	WinningTeam   string          `json:"winning_team,omitempty"`
	WinningTeamID string          `json:"winning_team_id,omitempty"`
	BidCount      int             `json:"bid_count"`
	Sold          bool            `json:"sold"`
	UnsoldReason  string          `json:"unsold_reason,omitempty"`
	BidHistory    []BidRecord     `json:"bid_history"`
	StartedAt     time.Time       `json:"started_at"`
	EndedAt       time.Time       `json:"ended_at"`
}

// Duration is the round length.
func (e Entry) Duration() time.Duration {
	if e.EndedAt.IsZero() {
		return 0
	}
	return e.EndedAt.Sub(e.StartedAt)
}

// Summary aggregates a full run.
type Summary struct {
	RunID        string          `json:"run_id,omitempty"`
	Entries      []Entry         `json:"entries"`
	TotalPlayers int             `json:"total_players"`
	TotalSold    int             `json:"total_sold"`
	TotalUnsold  int             `json:"total_unsold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	StartedAt    time.Time       `json:"started_at"`
	EndedAt      time.Time       `json:"ended_at"`
}

// Sink persists finalized entries as they are recorded.
type Sink interface {
	SaveEntry(runID string, entry Entry) error
}
