package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/domain"
	"github.com/Jit017/iplauction/internal/pool"
)

// ManagerConfig tunes the auction sequencer.
type ManagerConfig struct {
	// AutoProceed advances to the next player automatically after each
	// round ends.
	AutoProceed bool
	// ProceedDelay is the pause before auto-advancing.
	ProceedDelay time.Duration
	// SkipRetryDelay is the pause before retrying after a skipped player.
	SkipRetryDelay time.Duration
}

// DefaultManagerConfig returns the standard sequencer timing.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		AutoProceed:    true,
		ProceedDelay:   time.Second,
		SkipRetryDelay: 100 * time.Millisecond,
	}
}

// Stats aggregates one auction run.
type Stats struct {
	TotalPlayers     int             `json:"total_players"`
	PlayersAuctioned int             `json:"players_auctioned"`
	PlayersSold      int             `json:"players_sold"`
	PlayersUnsold    int             `json:"players_unsold"`
	PlayersSkipped   int             `json:"players_skipped"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

// Manager walks an ordered player pool through the engine one round at a
// time, skipping players no longer eligible, and tracks run statistics.
//
// Lock order: Manager methods never call into the engine while holding
// mu. Engine events arrive on the engine's lock; the handler only touches
// Manager state and schedules follow-up work, never re-enters the engine
// synchronously.
type Manager struct {
	mu sync.Mutex

	engine *Engine
	log    *slog.Logger
	cfg    ManagerConfig

	runID   string
	players []*domain.Player

	index     int
	running   bool
	stats     Stats
	auctioned map[string]struct{}

	subs    map[int]Subscriber
	nextSub int
}

// NewManager builds a sequencer over the engine and player pool.
func NewManager(eng *Engine, players []*domain.Player, cfg ManagerConfig, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		engine:    eng,
		log:       log,
		cfg:       cfg,
		runID:     uuid.NewString(),
		players:   append([]*domain.Player(nil), players...),
		auctioned: make(map[string]struct{}),
		subs:      make(map[int]Subscriber),
	}
	m.stats = Stats{
		TotalPlayers: len(m.players),
		TotalRevenue: decimal.Zero,
	}
	eng.Subscribe(m.handleEngineEvent)
	return m
}

// RunID identifies this auction run.
func (m *Manager) RunID() string {
	return m.runID
}

// Subscribe registers a subscriber for the combined engine and sequencer
// event stream.
func (m *Manager) Subscribe(fn Subscriber) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) emitLocked(ev Event) {
	for _, fn := range m.subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.log.Error("subscriber panicked",
						slog.String("event", string(ev.Kind())),
						slog.Any("panic", r))
				}
			}()
			fn(ev)
		}()
	}
}

// handleEngineEvent forwards engine events to Manager subscribers and
// reacts to round ends. It runs on the engine's lock.
func (m *Manager) handleEngineEvent(ev Event) {
	m.mu.Lock()

	m.emitLocked(ev)

	ended, isEnd := ev.(AuctionEnded)
	if !isEnd {
		m.mu.Unlock()
		return
	}

	switch ended.Result {
	case domain.StatusSold:
		m.stats.PlayersSold++
		m.stats.TotalRevenue = m.stats.TotalRevenue.Add(ended.State.CurrentBid)
	case domain.StatusUnsold:
		m.stats.PlayersUnsold++
	}

	proceed := m.cfg.AutoProceed && m.running
	m.mu.Unlock()

	if proceed {
		time.AfterFunc(m.cfg.ProceedDelay, m.Next)
	}
}

// Start begins the run from the first player.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		m.log.Warn("auction run already in progress", slog.String("run_id", m.runID))
		return
	}
	m.running = true
	m.index = 0
	m.mu.Unlock()

	m.log.Info("auction run starting",
		slog.String("run_id", m.runID),
		slog.Int("players", len(m.players)))
	m.startNextPlayer()
}

// Stop halts the run and pauses any round in progress.
func (m *Manager) Stop() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
	m.engine.Pause()
}

// Pause pauses the current round.
func (m *Manager) Pause() { m.engine.Pause() }

// Resume resumes a paused round.
func (m *Manager) Resume() { m.engine.Resume() }

// Next resets the engine and puts the next eligible player on the block.
func (m *Manager) Next() {
	m.mu.Lock()
	running := m.running
	m.mu.Unlock()
	if !running {
		return
	}
	m.engine.Reset()
	m.startNextPlayer()
}

// startNextPlayer advances through the pool until a player passes every
// eligibility check, then hands it to the engine. Exhausting the pool
// completes the run.
func (m *Manager) startNextPlayer() {
	if m.engine.State().Status != domain.StatusIdle {
		m.engine.Reset()
	}

	for {
		player := m.nextCandidate()
		if player == nil {
			m.completeRun()
			return
		}

		teams := m.engine.Teams()
		if check := m.eligibility(player, teams); check != "" {
			m.recordSkip(player, check)
			continue
		}

		if err := m.engine.SetCurrentPlayer(player); err != nil {
			m.log.Error("failed to set player",
				slog.String("player", player.Name),
				slog.Any("error", err))
			m.recordSkip(player, err.Error())
			m.engine.Reset()
			continue
		}

		m.mu.Lock()
		m.stats.PlayersAuctioned++
		m.auctioned[player.ID] = struct{}{}
		m.mu.Unlock()
		return
	}
}

// nextCandidate pops the next pool entry, or nil when exhausted.
func (m *Manager) nextCandidate() *domain.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index >= len(m.players) {
		return nil
	}
	p := m.players[m.index]
	m.index++
	return p
}

// eligibility re-validates a candidate just before auctioning it and
// returns the skip reason, or empty when the player may go on the block.
func (m *Manager) eligibility(p *domain.Player, teams []*domain.Team) string {
	if pool.IsRetained(p, teams) {
		holder := "a team"
		if t := pool.RetainingTeam(p, teams); t != nil {
			holder = t.Name
		}
		return "player " + p.Name + " is retained by " + holder
	}
	if !pool.IsAvailable(p, teams) {
		return "player " + p.Name + " is no longer available for auction"
	}

	m.mu.Lock()
	check := pool.CheckDuplicate(p, teams, m.auctioned)
	m.mu.Unlock()
	if check.Duplicate {
		return check.Reason
	}
	return ""
}

func (m *Manager) recordSkip(p *domain.Player, reason string) {
	m.log.Info("player skipped",
		slog.String("player", p.Name),
		slog.String("reason", reason))

	// Snapshot before taking mu; engine methods are never called while
	// holding the manager lock.
	state := m.engine.State()

	m.mu.Lock()
	m.stats.PlayersSkipped++
	m.emitLocked(PlayerSkipped{
		State:  state,
		Player: p,
		Reason: reason,
	})
	m.mu.Unlock()
}

func (m *Manager) completeRun() {
	m.mu.Lock()
	m.running = false
	stats := m.stats
	m.mu.Unlock()

	m.log.Info("auction run complete",
		slog.String("run_id", m.runID),
		slog.Int("sold", stats.PlayersSold),
		slog.Int("unsold", stats.PlayersUnsold),
		slog.Int("skipped", stats.PlayersSkipped),
		slog.String("revenue", stats.TotalRevenue.String()))

	state := m.engine.State()

	m.mu.Lock()
	m.emitLocked(RunComplete{
		State: state,
		RunID: m.runID,
		Stats: stats,
	})
	m.mu.Unlock()
}

// Stats returns a copy of the run statistics.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Running reports whether the run is in progress.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Remaining reports how many pool entries have not been visited yet.
func (m *Manager) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players) - m.index
}

// Auctionable lists pool players no team currently holds.
func (m *Manager) Auctionable() []*domain.Player {
	return pool.Auctionable(m.players, m.engine.Teams())
}

// PoolStats summarizes pool membership.
func (m *Manager) PoolStats() pool.Stats {
	return pool.PoolStats(m.players, m.engine.Teams())
}

// Engine exposes the underlying state machine.
func (m *Manager) Engine() *Engine {
	return m.engine
}

// Reset rewinds the run for a fresh start with a new run ID.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.running = false
	m.index = 0
	m.runID = uuid.NewString()
	m.auctioned = make(map[string]struct{})
	m.stats = Stats{
		TotalPlayers: len(m.players),
		TotalRevenue: decimal.Zero,
	}
	m.mu.Unlock()
	m.engine.Reset()
}
