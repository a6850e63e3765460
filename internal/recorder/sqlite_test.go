package recorder

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "auction.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entry := Entry{
		PlayerID:      "p1",
		PlayerName:    "Rohit Sharma",
		PlayerRole:    "Batsman",
		PlayerRating:  91,
		BasePrice:     dec("2"),
		MinPrice:      dec("2"),
		MaxPrice:      dec("20"),
		FinalPrice:    dec("14.5"),
		WinningTeam:   "Mumbai Indians",
		WinningTeamID: "mi",
		BidCount:      3,
		Sold:          true,
		BidHistory: []BidRecord{
			{Timestamp: start.Add(5 * time.Second), Team: "Mumbai Indians", Amount: dec("14.5"), Elapsed: 5 * time.Second},
		},
		StartedAt: start,
		EndedAt:   start.Add(40 * time.Second),
	}

	if err := store.SaveEntry("run-1", entry); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveEntry("run-2", Entry{
		PlayerID:   "p2",
		PlayerName: "Other Run",
		BasePrice:  dec("1"),
		MinPrice:   dec("1"),
		MaxPrice:   dec("5"),
		FinalPrice: dec("0"),
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Entries("run-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries for run-1, want 1", len(got))
	}

	e := got[0]
	if e.PlayerID != "p1" || !e.Sold {
		t.Errorf("entry = %+v", e)
	}
	if !e.FinalPrice.Equal(dec("14.5")) {
		t.Errorf("final price = %s, want 14.5", e.FinalPrice)
	}
	if len(e.BidHistory) != 1 || !e.BidHistory[0].Amount.Equal(dec("14.5")) {
		t.Errorf("bid history = %+v", e.BidHistory)
	}
}
