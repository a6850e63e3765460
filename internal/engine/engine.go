// Package engine holds the auction state machine and the sequencer that
// walks a player pool through it.
package engine

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/bidding"
	"github.com/Jit017/iplauction/internal/domain"
	"github.com/Jit017/iplauction/internal/pool"
	"github.com/Jit017/iplauction/internal/pricing"
)

// Config tunes the auction engine timers.
type Config struct {
	// TimerDuration is the countdown length in seconds for each round.
	TimerDuration int
	// TickInterval is the wall-clock length of one countdown second.
	TickInterval time.Duration
	// InitialAIDelay is the pause between a player being set and the
	// first autonomous bidding pass.
	InitialAIDelay time.Duration
	// BidReactionDelay is the pause between an accepted bid and the
	// autonomous response to it.
	BidReactionDelay time.Duration
}

// DefaultConfig returns the standard engine timing.
func DefaultConfig() Config {
	return Config{
		TimerDuration:    30,
		TickInterval:     time.Second,
		InitialAIDelay:   time.Second,
		BidReactionDelay: 300 * time.Millisecond,
	}
}

// Engine is the auction state machine for one run. A single mutex
// serializes every method; timer ticks and deferred autonomous-bidding
// triggers take the same lock, so all state mutation is sequential.
type Engine struct {
	mu sync.Mutex

	cfg     Config
	log     *slog.Logger
	decider *bidding.Decider // nil disables autonomous bidding

	teams     []*domain.Team
	teamsByID map[string]*domain.Team

	state       domain.AuctionState
	userTeamID  string
	consecutive map[string]int // consecutive bids per team on the current player

	subs    map[int]Subscriber
	nextSub int

	// timerGen invalidates countdown goroutines and in-flight ticks from
	// superseded rounds. Every stop bumps it.
	timerGen  uint64
	timerStop chan struct{}

	aiBidThisCycle bool
	destroyed      bool

	rng *rand.Rand
}

// NewEngine builds an engine over the given teams. A nil decider turns
// autonomous bidding off, which keeps rounds deterministic.
func NewEngine(teams []*domain.Team, decider *bidding.Decider, cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	byID := make(map[string]*domain.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	return &Engine{
		cfg:       cfg,
		log:       log,
		decider:   decider,
		teams:     teams,
		teamsByID: byID,
		state: domain.AuctionState{
			CurrentBid: decimal.Zero,
			Status:     domain.StatusIdle,
		},
		consecutive: make(map[string]int),
		subs:        make(map[int]Subscriber),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetUserTeam marks one team as human-controlled; autonomous bidding
// never bids on its behalf. An empty ID clears the selection.
func (e *Engine) SetUserTeam(teamID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.userTeamID = teamID
}

// Subscribe registers an event subscriber and returns its remove func.
func (e *Engine) Subscribe(fn Subscriber) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// emitLocked delivers an event to every subscriber in turn. A panicking
// subscriber is logged and skipped; the rest still receive the event.
func (e *Engine) emitLocked(ev Event) {
	for _, fn := range e.subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.log.Error("subscriber panicked",
						slog.String("event", string(ev.Kind())),
						slog.Any("panic", r))
				}
			}()
			fn(ev)
		}()
	}
}

func (e *Engine) snapshotLocked() domain.AuctionState {
	return e.state
}

// SetCurrentPlayer puts a player on the block. Legal only from the idle
// state, and never for a player any team already holds.
func (e *Engine) SetCurrentPlayer(p *domain.Player) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Status != domain.StatusIdle {
		return &domain.StateError{Op: "set player", Status: e.state.Status}
	}

	if err := pool.ValidateForAuction(p, e.teams, nil); err != nil {
		e.emitLocked(ErrorEvent{State: e.snapshotLocked(), Err: err})
		return err
	}

	e.state = domain.AuctionState{
		CurrentPlayer: p,
		CurrentBid:    p.BasePrice,
		Status:        domain.StatusBidding,
		Timer:         e.cfg.TimerDuration,
	}
	e.consecutive = make(map[string]int)
	e.aiBidThisCycle = false

	e.emitLocked(StateChanged{State: e.snapshotLocked()})
	e.emitLocked(PlayerSet{State: e.snapshotLocked(), Player: p})

	e.startTimerLocked()

	// Opening engagement: give agents a first look shortly after the
	// player appears, so rounds move even with no human action.
	e.scheduleAIPass(p.ID, e.cfg.InitialAIDelay)
	return nil
}

// scheduleAIPass defers one autonomous bidding pass. The callback
// re-checks the round identity under the lock before acting; the round
// may have moved on during the delay.
func (e *Engine) scheduleAIPass(playerID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.destroyed || e.state.Status != domain.StatusBidding {
			return
		}
		if e.state.CurrentPlayer == nil || e.state.CurrentPlayer.ID != playerID {
			return
		}
		e.aiPassLocked()
	})
}

// PlaceBid accepts a bid for the team at the next increment.
func (e *Engine) PlaceBid(teamID string) error {
	return e.placeBid(teamID, decimal.Decimal{}, false)
}

// PlaceBidAmount accepts a bid for the team at an explicit amount.
func (e *Engine) PlaceBidAmount(teamID string, amount decimal.Decimal) error {
	return e.placeBid(teamID, amount, true)
}

func (e *Engine) placeBid(teamID string, amount decimal.Decimal, hasAmount bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	team, ok := e.teamsByID[teamID]
	if !ok {
		return domain.ErrTeamNotFound
	}
	return e.acceptBidLocked(team, amount, hasAmount)
}

func (e *Engine) acceptBidLocked(team *domain.Team, amount decimal.Decimal, hasAmount bool) error {
	if e.state.Status != domain.StatusBidding {
		return &domain.StateError{Op: "accept bid", Status: e.state.Status}
	}
	if e.state.CurrentPlayer == nil {
		return domain.ErrNoCurrentPlayer
	}

	player := e.state.CurrentPlayer
	next := amount
	if !hasAmount {
		next = pricing.NextBid(e.state.CurrentBid)
	}

	if err := pricing.ValidateBid(next, player); err != nil {
		e.emitLocked(ErrorEvent{State: e.snapshotLocked(), Err: err})
		return err
	}

	if !team.CanAfford(next) {
		err := &domain.InsufficientPurseError{
			Team:      team.Name,
			Required:  next,
			Available: team.Purse,
		}
		e.emitLocked(ErrorEvent{State: e.snapshotLocked(), Err: err})
		return err
	}

	previous := e.state.CurrentBid
	e.state.CurrentBid = next
	e.state.LeadingTeam = team
	e.state.Timer = e.cfg.TimerDuration

	// The new leader's streak grows; everyone else's streak is broken.
	streak := e.consecutive[team.ID] + 1
	e.consecutive = map[string]int{team.ID: streak}

	e.aiBidThisCycle = false

	e.emitLocked(StateChanged{State: e.snapshotLocked()})
	e.emitLocked(BidPlaced{
		State:       e.snapshotLocked(),
		Team:        team,
		Amount:      next,
		PreviousBid: previous,
	})

	e.startTimerLocked()

	// Competitive reaction: rival agents answer the new price after a
	// short pause rather than instantly.
	e.scheduleAIPass(player.ID, e.cfg.BidReactionDelay)
	return nil
}

// startTimerLocked replaces any running countdown with a fresh one. The
// generation counter makes ticks from the old countdown no-ops even if
// their goroutine is already waiting on the lock.
func (e *Engine) startTimerLocked() {
	e.stopTimerLocked()
	gen := e.timerGen
	stop := make(chan struct{})
	e.timerStop = stop

	go func() {
		ticker := time.NewTicker(e.cfg.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !e.tick(gen) {
					return
				}
			}
		}
	}()
}

func (e *Engine) stopTimerLocked() {
	if e.timerStop != nil {
		close(e.timerStop)
		e.timerStop = nil
	}
	e.timerGen++
}

// tick advances the countdown one second. It reports whether the calling
// goroutine still owns the live countdown.
func (e *Engine) tick(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.timerGen || e.state.Status != domain.StatusBidding || e.state.Timer <= 0 {
		return false
	}

	e.state.Timer--
	e.aiBidThisCycle = false

	e.emitLocked(StateChanged{State: e.snapshotLocked()})
	e.emitLocked(TimerTick{State: e.snapshotLocked(), Remaining: e.state.Timer})

	e.aiPassLocked()

	if e.state.Status == domain.StatusBidding && e.state.Timer == 0 {
		e.expireLocked()
		return false
	}
	return true
}

// expireLocked resolves a round whose countdown reached zero.
func (e *Engine) expireLocked() {
	e.stopTimerLocked()
	e.emitLocked(TimerExpired{State: e.snapshotLocked()})

	player := e.state.CurrentPlayer
	if player == nil {
		e.endAsUnsoldLocked("no player set")
		return
	}

	bid := e.state.CurrentBid
	leader := e.state.LeadingTeam

	if leader == nil && bid.Equal(player.BasePrice) {
		e.endAsUnsoldLocked("no bids received before timer ended")
		return
	}

	// Bids open at base price, so a leading bid is at least base. The
	// three-way evaluation decides between selling, extending below the
	// floor, and rejecting an over-ceiling bid.
	if leader != nil && bid.GreaterThanOrEqual(player.BasePrice) {
		eval := pricing.EvaluateRoundEnd(bid, player, true)
		switch {
		case eval.CanEnd:
			e.endAsSoldLocked()
		case eval.MustExtend:
			e.extendTimerLocked()
		default:
			reason := "invalid auction state"
			if eval.Err != nil {
				reason = eval.Err.Error()
			}
			e.endAsUnsoldLocked(reason)
		}
		return
	}

	if bid.LessThan(player.MinPrice) {
		e.endAsUnsoldLocked("bid " + bid.String() + " is below floor price " + player.MinPrice.String())
		return
	}

	// A leader with an inconsistent round state still wins; losing a
	// legitimate highest bidder is worse than the anomaly.
	if leader != nil {
		e.log.Warn("leading team present but round-end validation failed, selling anyway",
			slog.String("player", player.Name),
			slog.String("team", leader.Name),
			slog.String("bid", bid.String()))
		e.endAsSoldLocked()
		return
	}

	e.endAsUnsoldLocked("no valid bidder found")
}

// extendTimerLocked restarts the countdown when the floor price has not
// been reached yet.
func (e *Engine) extendTimerLocked() {
	e.state.Timer = e.cfg.TimerDuration
	e.emitLocked(StateChanged{
		State:  e.snapshotLocked(),
		Reason: "timer extended, bid below floor price",
	})
	e.startTimerLocked()
}

// aiPassLocked runs one autonomous bidding evaluation over every team
// except the human-controlled one and the current leader. At most one
// autonomous bid is accepted per cycle; later ticks and reaction
// triggers carry the back-and-forth forward.
func (e *Engine) aiPassLocked() {
	if e.decider == nil || e.aiBidThisCycle {
		return
	}
	if e.state.Status != domain.StatusBidding || e.state.Timer == 0 || e.state.CurrentPlayer == nil {
		return
	}

	player := e.state.CurrentPlayer
	currentBid := e.state.CurrentBid
	leaderID := ""
	if e.state.LeadingTeam != nil {
		leaderID = e.state.LeadingTeam.ID
	}

	candidates := make([]*domain.Team, 0, len(e.teams))
	for _, t := range e.teams {
		if t.ID == e.userTeamID || t.ID == leaderID {
			continue
		}
		candidates = append(candidates, t)
	}
	e.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, team := range candidates {
		// Another path may have changed the leader mid-pass.
		if currentLeader := e.state.LeadingTeam; (currentLeader == nil && leaderID != "") ||
			(currentLeader != nil && currentLeader.ID != leaderID) {
			return
		}

		res := e.decider.Decide(team, player, currentBid, e.consecutive[team.ID])
		if !res.ShouldBid {
			e.log.Debug("team passed",
				slog.String("team", team.Name),
				slog.String("player", player.Name),
				slog.String("reason", res.Reason))
			continue
		}

		if err := pricing.ValidateBid(res.Amount, player); err != nil {
			e.log.Debug("autonomous bid rejected",
				slog.String("team", team.Name),
				slog.Any("error", err))
			continue
		}
		if !team.CanAfford(res.Amount) {
			continue
		}

		e.log.Info("autonomous bid",
			slog.String("team", team.Name),
			slog.String("player", player.Name),
			slog.String("amount", res.Amount.String()))
		if err := e.acceptBidLocked(team, res.Amount, true); err != nil {
			e.log.Debug("autonomous bid failed",
				slog.String("team", team.Name),
				slog.Any("error", err))
			continue
		}
		e.aiBidThisCycle = true
		return
	}
}

// endAsSoldLocked closes the round in favor of the leading team, debiting
// its purse and adding the player to its squad.
func (e *Engine) endAsSoldLocked() {
	player := e.state.CurrentPlayer
	team := e.state.LeadingTeam
	if player == nil || team == nil {
		e.endAsUnsoldLocked("no leading team or player")
		return
	}

	bid := e.state.CurrentBid
	if bid.LessThan(player.MinPrice) {
		e.endAsUnsoldLocked("cannot sell below floor price, bid " + bid.String() +
			", floor " + player.MinPrice.String())
		return
	}

	team.Purse = team.Purse.Sub(bid)
	team.Squad = append(team.Squad, player)
	if player.Overseas {
		team.OverseasCount++
	}

	e.log.Info("player sold",
		slog.String("player", player.Name),
		slog.String("team", team.Name),
		slog.String("amount", bid.String()))

	e.state.Status = domain.StatusSold
	e.state.Timer = 0

	e.emitLocked(StateChanged{State: e.snapshotLocked()})
	e.emitLocked(PlayerSold{
		State:  e.snapshotLocked(),
		Player: player,
		Team:   team,
		Amount: bid,
	})
	e.emitLocked(AuctionEnded{State: e.snapshotLocked(), Result: domain.StatusSold})
}

func (e *Engine) endAsUnsoldLocked(reason string) {
	player := e.state.CurrentPlayer

	e.state.Status = domain.StatusUnsold
	e.state.Timer = 0
	e.state.LeadingTeam = nil
	e.state.CurrentBid = decimal.Zero

	e.log.Info("player unsold",
		slog.Any("player", playerName(player)),
		slog.String("reason", reason))

	e.emitLocked(StateChanged{State: e.snapshotLocked()})
	e.emitLocked(PlayerUnsold{
		State:  e.snapshotLocked(),
		Player: player,
		Reason: reason,
	})
	e.emitLocked(AuctionEnded{State: e.snapshotLocked(), Result: domain.StatusUnsold})
}

func playerName(p *domain.Player) string {
	if p == nil {
		return ""
	}
	return p.Name
}

// Pause freezes the countdown. Legal only while bidding.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Status != domain.StatusBidding {
		return
	}
	e.stopTimerLocked()
	e.state.Status = domain.StatusPaused
	e.emitLocked(StateChanged{State: e.snapshotLocked()})
}

// Resume restarts a paused round with its remaining timer.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Status != domain.StatusPaused {
		return
	}
	e.state.Status = domain.StatusBidding
	e.emitLocked(StateChanged{State: e.snapshotLocked()})
	e.startTimerLocked()
}

// Reset returns the engine to idle, clearing the round. Always legal.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimerLocked()
	e.state = domain.AuctionState{
		CurrentBid: decimal.Zero,
		Status:     domain.StatusIdle,
	}
	e.consecutive = make(map[string]int)
	e.emitLocked(StateChanged{State: e.snapshotLocked()})
}

// Destroy stops the countdown and drops all subscribers. Deferred
// triggers still fire but find the engine destroyed and bail out.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroyed = true
	e.stopTimerLocked()
	e.subs = make(map[int]Subscriber)
}

// State returns a snapshot of the current round.
func (e *Engine) State() domain.AuctionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Result reports how the current round ended, or empty while it is
// still in progress.
func (e *Engine) Result() domain.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state.Status {
	case domain.StatusSold, domain.StatusUnsold:
		return e.state.Status
	default:
		return ""
	}
}

// Teams returns the participating teams.
func (e *Engine) Teams() []*domain.Team {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*domain.Team, len(e.teams))
	copy(out, e.teams)
	return out
}

// Team returns a team by ID.
func (e *Engine) Team(teamID string) (*domain.Team, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.teamsByID[teamID]
	return t, ok
}
