// Package infra holds application plumbing: configuration, logging and
// Prometheus metrics.
package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every application setting. Values load from YAML with
// environment variable overrides applied on top.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Auction struct {
		// TimerDurationSec is the countdown per player in seconds.
		TimerDurationSec int `yaml:"timer_duration_sec"`
		// TickIntervalMS is one countdown second in wall-clock ms.
		TickIntervalMS int `yaml:"tick_interval_ms"`
		// InitialAIDelayMS delays the first autonomous pass per player.
		InitialAIDelayMS int `yaml:"initial_ai_delay_ms"`
		// BidReactionDelayMS delays the autonomous answer to a bid.
		BidReactionDelayMS int `yaml:"bid_reaction_delay_ms"`
		// AuctionType is "mega" or "mini".
		AuctionType string `yaml:"auction_type"`
		// AutoProceed advances to the next player automatically.
		AutoProceed bool `yaml:"auto_proceed"`
		// ProceedDelayMS is the pause before auto-advancing.
		ProceedDelayMS int `yaml:"proceed_delay_ms"`
		// UserTeam is the human-controlled franchise ID, empty for none.
		UserTeam string `yaml:"user_team"`
	} `yaml:"auction"`

	AI struct {
		Enabled            bool    `yaml:"enabled"`
		MinRatingThreshold float64 `yaml:"min_rating_threshold"`
		BaseBidProbability float64 `yaml:"base_bid_probability"`
		UseRatingBands     bool    `yaml:"use_rating_bands"`
	} `yaml:"ai"`

	Data struct {
		// PlayersCSV is the path to the player dataset.
		PlayersCSV string `yaml:"players_csv"`
		// DBPath is the SQLite file for auction records, empty disables
		// persistence.
		DBPath string `yaml:"db_path"`
	} `yaml:"data"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file, then applies
// environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Auction.TimerDurationSec <= 0 {
		return fmt.Errorf("timer duration must be positive, got %d", c.Auction.TimerDurationSec)
	}
	if c.Auction.TickIntervalMS <= 0 {
		return fmt.Errorf("tick interval must be positive, got %d", c.Auction.TickIntervalMS)
	}
	switch c.Auction.AuctionType {
	case "mega", "mini":
	default:
		return fmt.Errorf("auction type must be mega or mini, got %q", c.Auction.AuctionType)
	}
	if c.AI.MinRatingThreshold < 0 || c.AI.MinRatingThreshold > 100 {
		return fmt.Errorf("min rating threshold %v out of range", c.AI.MinRatingThreshold)
	}
	if c.AI.BaseBidProbability < 0 || c.AI.BaseBidProbability > 1 {
		return fmt.Errorf("base bid probability %v out of range", c.AI.BaseBidProbability)
	}
	if c.Data.PlayersCSV == "" {
		return fmt.Errorf("players_csv is required")
	}
	if c.Server.Addr != "" && !strings.Contains(c.Server.Addr, ":") {
		return fmt.Errorf("invalid server addr: %s", c.Server.Addr)
	}
	return nil
}

// overrideWithEnv applies environment overrides where present.
func overrideWithEnv(cfg *Config) {
	if addr := os.Getenv("AUCTION_SERVER_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if path := os.Getenv("AUCTION_PLAYERS_CSV"); path != "" {
		cfg.Data.PlayersCSV = path
	}
	if path := os.Getenv("AUCTION_DB_PATH"); path != "" {
		cfg.Data.DBPath = path
	}
	if level := os.Getenv("AUCTION_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if team := os.Getenv("AUCTION_USER_TEAM"); team != "" {
		cfg.Auction.UserTeam = team
	}
}
