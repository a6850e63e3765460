package recorder

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/engine"
)

// Collector consumes the auction event stream and builds Entry records.
// Handle is safe to register as an engine or manager subscriber; it only
// touches collector state and never calls back into the engine.
type Collector struct {
	mu sync.Mutex

	log  *slog.Logger
	sink Sink // optional

	runID     string
	entries   []Entry
	current   *Entry
	startedAt time.Time

	now func() time.Time
}

// NewCollector builds a collector for one run. sink may be nil to keep
// records in memory only.
func NewCollector(runID string, sink Sink, log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{
		log:   log,
		sink:  sink,
		runID: runID,
		now:   time.Now,
	}
}

// Handle consumes one auction event.
func (c *Collector) Handle(ev engine.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := ev.(type) {
	case engine.PlayerSet:
		c.handlePlayerSet(e)
	case engine.BidPlaced:
		c.handleBidPlaced(e)
	case engine.PlayerSold:
		c.handlePlayerSold(e)
	case engine.PlayerUnsold:
		c.handlePlayerUnsold(e)
	case engine.RunComplete:
		c.handleRunComplete(e)
	}
}

func (c *Collector) handlePlayerSet(e engine.PlayerSet) {
	// An unfinalized entry means the previous round was interrupted;
	// close it out before starting the new one.
	if c.current != nil {
		c.log.Warn("closing stale auction entry",
			slog.String("player", c.current.PlayerName))
		c.finalizeLocked(false, "auction interrupted")
	}

	p := e.Player
	start := c.now()
	c.current = &Entry{
		PlayerID:     p.ID,
		PlayerName:   p.Name,
		PlayerRole:   string(p.Role),
		PlayerRating: p.Rating,
		BasePrice:    p.BasePrice,
		MinPrice:     p.MinPrice,
		MaxPrice:     p.MaxPrice,
		FinalPrice:   decimal.Zero,
		StartedAt:    start,
	}
	if c.startedAt.IsZero() {
		c.startedAt = start
	}
}

func (c *Collector) handleBidPlaced(e engine.BidPlaced) {
	if c.current == nil {
		return
	}
	now := c.now()
	c.current.BidCount++
	c.current.BidHistory = append(c.current.BidHistory, BidRecord{
		Timestamp: now,
		Team:      e.Team.Name,
		Amount:    e.Amount,
		Elapsed:   now.Sub(c.current.StartedAt),
	})
}

func (c *Collector) handlePlayerSold(e engine.PlayerSold) {
	if c.current == nil {
		return
	}
	c.current.FinalPrice = e.Amount
	c.current.WinningTeam = e.Team.Name
	c.current.WinningTeamID = e.Team.ID
	c.finalizeLocked(true, "")
}

func (c *Collector) handlePlayerUnsold(e engine.PlayerUnsold) {
	if c.current == nil {
		return
	}
	c.finalizeLocked(false, e.Reason)
}

func (c *Collector) handleRunComplete(e engine.RunComplete) {
	c.runID = e.RunID
	if c.current != nil {
		c.finalizeLocked(false, "auction run completed")
	}
}

func (c *Collector) finalizeLocked(sold bool, reason string) {
	entry := c.current
	c.current = nil

	entry.Sold = sold
	entry.UnsoldReason = reason
	entry.EndedAt = c.now()

	c.entries = append(c.entries, *entry)

	if c.sink != nil {
		if err := c.sink.SaveEntry(c.runID, *entry); err != nil {
			c.log.Error("failed to persist auction entry",
				slog.String("player", entry.PlayerName),
				slog.Any("error", err))
		}
	}
}

// Entries returns the finalized records so far.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

// Summary aggregates the finalized records.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Summary{
		RunID:        c.runID,
		Entries:      append([]Entry(nil), c.entries...),
		TotalPlayers: len(c.entries),
		TotalRevenue: decimal.Zero,
		StartedAt:    c.startedAt,
	}
	for _, e := range c.entries {
		if e.Sold {
			s.TotalSold++
			s.TotalRevenue = s.TotalRevenue.Add(e.FinalPrice)
		} else {
			s.TotalUnsold++
		}
		if e.EndedAt.After(s.EndedAt) {
			s.EndedAt = e.EndedAt
		}
	}
	return s
}

// WriteJSON serializes the run summary as indented JSON.
func (c *Collector) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Summary())
}

var csvHeader = []string{
	"player_id", "player_name", "role", "rating",
	"base_price", "final_price", "winning_team", "bids", "status", "unsold_reason",
}

// WriteCSV serializes the finalized entries as CSV, one row per player.
func (c *Collector) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range c.Entries() {
		status := "UNSOLD"
		if e.Sold {
			status = "SOLD"
		}
		row := []string{
			e.PlayerID,
			e.PlayerName,
			e.PlayerRole,
			strconv.FormatFloat(e.PlayerRating, 'f', -1, 64),
			e.BasePrice.String(),
			e.FinalPrice.String(),
			e.WinningTeam,
			strconv.Itoa(e.BidCount),
			status,
			e.UnsoldReason,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
