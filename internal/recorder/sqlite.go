package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EntryRow is the persisted form of an Entry. Prices are stored as
// strings to keep decimal exactness; the bid history is a JSON blob.
type EntryRow struct {
	ID            uint   `gorm:"primaryKey"`
	RunID         string `gorm:"index"`
	PlayerID      string `gorm:"index"`
	PlayerName    string
	PlayerRole    string
	PlayerRating  float64
	BasePrice     string
	MinPrice      string
	MaxPrice      string
	FinalPrice    string
	WinningTeam   string
	WinningTeamID string
	BidCount      int
	Sold          bool
	UnsoldReason  string
	BidHistory    []byte
	StartedAt     time.Time
	EndedAt       time.Time
	CreatedAt     time.Time
}

// SQLiteStore persists auction entries to a SQLite file.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// migrates the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&EntryRow{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveEntry persists one finalized entry.
func (s *SQLiteStore) SaveEntry(runID string, entry Entry) error {
	history, err := json.Marshal(entry.BidHistory)
	if err != nil {
		return fmt.Errorf("marshal bid history: %w", err)
	}

	row := EntryRow{
		RunID:         runID,
		PlayerID:      entry.PlayerID,
		PlayerName:    entry.PlayerName,
		PlayerRole:    entry.PlayerRole,
		PlayerRating:  entry.PlayerRating,
		BasePrice:     entry.BasePrice.String(),
		MinPrice:      entry.MinPrice.String(),
		MaxPrice:      entry.MaxPrice.String(),
		FinalPrice:    entry.FinalPrice.String(),
		WinningTeam:   entry.WinningTeam,
		WinningTeamID: entry.WinningTeamID,
		BidCount:      entry.BidCount,
		Sold:          entry.Sold,
		UnsoldReason:  entry.UnsoldReason,
		BidHistory:    history,
		StartedAt:     entry.StartedAt,
		EndedAt:       entry.EndedAt,
	}
	return s.db.Create(&row).Error
}

// Entries loads every entry recorded for a run, oldest first.
func (s *SQLiteStore) Entries(runID string) ([]Entry, error) {
	var rows []EntryRow
	if err := s.db.Where("run_id = ?", runID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := rowToEntry(row)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func rowToEntry(row EntryRow) (Entry, error) {
	var history []BidRecord
	if len(row.BidHistory) > 0 {
		if err := json.Unmarshal(row.BidHistory, &history); err != nil {
			return Entry{}, fmt.Errorf("decode bid history for %s: %w", row.PlayerID, err)
		}
	}

	prices := make([]decimal.Decimal, 4)
	for i, raw := range []string{row.BasePrice, row.MinPrice, row.MaxPrice, row.FinalPrice} {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return Entry{}, fmt.Errorf("decode price for %s: %w", row.PlayerID, err)
		}
		prices[i] = d
	}

	return Entry{
		PlayerID:      row.PlayerID,
		PlayerName:    row.PlayerName,
		PlayerRole:    row.PlayerRole,
		PlayerRating:  row.PlayerRating,
		BasePrice:     prices[0],
		MinPrice:      prices[1],
		MaxPrice:      prices[2],
		FinalPrice:    prices[3],
		WinningTeam:   row.WinningTeam,
		WinningTeamID: row.WinningTeamID,
		BidCount:      row.BidCount,
		Sold:          row.Sold,
		UnsoldReason:  row.UnsoldReason,
		BidHistory:    history,
		StartedAt:     row.StartedAt,
		EndedAt:       row.EndedAt,
	}, nil
}
