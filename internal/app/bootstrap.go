// Package app orchestrates application startup: configuration, logging,
// data loading and wiring the auction engine to its observers.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Jit017/iplauction/internal/bidding"
	"github.com/Jit017/iplauction/internal/engine"
	"github.com/Jit017/iplauction/internal/infra"
	"github.com/Jit017/iplauction/internal/loader"
	"github.com/Jit017/iplauction/internal/metrics"
	"github.com/Jit017/iplauction/internal/recorder"
	"github.com/Jit017/iplauction/internal/server"
	"github.com/Jit017/iplauction/internal/setup"
)

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config    *infra.Config
	Engine    *engine.Engine
	Manager   *engine.Manager
	Collector *recorder.Collector
	Store     *recorder.SQLiteStore
	Server    *server.Server
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration and data, then wires every component
// together. The auction run itself starts via the API.
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping IPL auction server...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Load the player pool
	players, err := loader.LoadFile(cfg.Data.PlayersCSV)
	if err != nil {
		return fmt.Errorf("loading players from %s: %w", cfg.Data.PlayersCSV, err)
	}
	slog.Info("✅ Player pool loaded",
		slog.String("path", cfg.Data.PlayersCSV),
		slog.Int("players", len(players)))

	// 4. Franchises and the bidding decider
	teams := setup.DefaultTeams()

	var decider *bidding.Decider
	if cfg.AI.Enabled {
		decider = bidding.NewDecider(bidding.Config{
			MinRatingThreshold: cfg.AI.MinRatingThreshold,
			BaseBidProbability: cfg.AI.BaseBidProbability,
			UseRatingBands:     cfg.AI.UseRatingBands,
		})
	}

	// 5. Engine and sequencer
	b.Engine = engine.NewEngine(teams, decider, engineConfig(cfg), logger)
	if cfg.Auction.UserTeam != "" {
		b.Engine.SetUserTeam(cfg.Auction.UserTeam)
	}
	b.Manager = engine.NewManager(b.Engine, players, managerConfig(cfg), logger)

	// 6. Auction recorder, persisted to SQLite when configured
	var sink recorder.Sink
	if cfg.Data.DBPath != "" {
		store, err := recorder.NewSQLiteStore(cfg.Data.DBPath)
		if err != nil {
			return fmt.Errorf("opening auction database: %w", err)
		}
		b.Store = store
		sink = store
		slog.Info("✅ Database initialized", slog.String("path", cfg.Data.DBPath))
	}
	b.Collector = recorder.NewCollector(b.Manager.RunID(), sink, logger)
	b.Manager.Subscribe(b.Collector.Handle)

	// 7. Observers: Prometheus metrics and the WebSocket fan-out
	b.Manager.Subscribe(metrics.Observe)
	b.Server = server.New(b.Manager, logger)
	b.Manager.Subscribe(b.Server.EventHandler())

	slog.Info("✅ Auction wired",
		slog.String("run_id", b.Manager.RunID()),
		slog.Int("teams", len(teams)),
		slog.String("user_team", cfg.Auction.UserTeam))
	return nil
}

// Shutdown stops timers and background goroutines.
func (b *Bootstrap) Shutdown() {
	if b.Manager != nil {
		b.Manager.Stop()
	}
	if b.Engine != nil {
		b.Engine.Destroy()
	}
}

func engineConfig(cfg *infra.Config) engine.Config {
	ec := engine.DefaultConfig()
	ec.TimerDuration = cfg.Auction.TimerDurationSec
	ec.TickInterval = time.Duration(cfg.Auction.TickIntervalMS) * time.Millisecond
	if cfg.Auction.InitialAIDelayMS > 0 {
		ec.InitialAIDelay = time.Duration(cfg.Auction.InitialAIDelayMS) * time.Millisecond
	}
	if cfg.Auction.BidReactionDelayMS > 0 {
		ec.BidReactionDelay = time.Duration(cfg.Auction.BidReactionDelayMS) * time.Millisecond
	}
	return ec
}

func managerConfig(cfg *infra.Config) engine.ManagerConfig {
	mc := engine.DefaultManagerConfig()
	mc.AutoProceed = cfg.Auction.AutoProceed
	if cfg.Auction.ProceedDelayMS > 0 {
		mc.ProceedDelay = time.Duration(cfg.Auction.ProceedDelayMS) * time.Millisecond
	}
	return mc
}
