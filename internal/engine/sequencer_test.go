package engine

import (
	"testing"

	"github.com/Jit017/iplauction/internal/domain"
)

// manualConfig disables auto-advance so tests step the run themselves.
func manualConfig() ManagerConfig {
	return ManagerConfig{AutoProceed: false}
}

func newTestManager(t *testing.T, players []*domain.Player) (*Manager, *Engine, *recorder) {
	t.Helper()
	eng := NewEngine(testTeams(), nil, testConfig(), nil)
	t.Cleanup(eng.Destroy)
	mgr := NewManager(eng, players, manualConfig(), nil)
	rec := &recorder{}
	mgr.Subscribe(rec.record)
	return mgr, eng, rec
}

func TestManager_RunsPool(t *testing.T) {
	players := []*domain.Player{testPlayer("p1"), testPlayer("p2")}
	mgr, eng, rec := newTestManager(t, players)

	mgr.Start()
	if !mgr.Running() {
		t.Fatal("manager not running after Start")
	}

	state := eng.State()
	if state.CurrentPlayer == nil || state.CurrentPlayer.ID != "p1" {
		t.Fatalf("current player = %v, want p1", state.CurrentPlayer)
	}

	// First round: t1 wins.
	if err := eng.PlaceBidAmount("t1", dec("6")); err != nil {
		t.Fatal(err)
	}
	eng.expireNow()

	stats := mgr.Stats()
	if stats.PlayersSold != 1 {
		t.Errorf("sold = %d, want 1", stats.PlayersSold)
	}
	if !stats.TotalRevenue.Equal(dec("6")) {
		t.Errorf("revenue = %s, want 6", stats.TotalRevenue)
	}

	// Second round: no bids, unsold.
	mgr.Next()
	if got := eng.State().CurrentPlayer; got == nil || got.ID != "p2" {
		t.Fatalf("current player = %v, want p2", got)
	}
	eng.expireNow()

	stats = mgr.Stats()
	if stats.PlayersUnsold != 1 {
		t.Errorf("unsold = %d, want 1", stats.PlayersUnsold)
	}
	if stats.PlayersAuctioned != 2 {
		t.Errorf("auctioned = %d, want 2", stats.PlayersAuctioned)
	}

	// Pool exhausted: the run completes.
	mgr.Next()
	if mgr.Running() {
		t.Error("manager still running after pool exhausted")
	}
	var complete *RunComplete
	for _, ev := range rec.events {
		if rc, ok := ev.(RunComplete); ok {
			complete = &rc
		}
	}
	if complete == nil {
		t.Fatalf("missing run_complete event, got %v", rec.kinds())
	}
	if complete.RunID != mgr.RunID() {
		t.Errorf("run id = %s, want %s", complete.RunID, mgr.RunID())
	}
	if complete.Stats.PlayersSold != 1 || complete.Stats.PlayersUnsold != 1 {
		t.Errorf("final stats = %+v", complete.Stats)
	}
}

func TestManager_SkipsHeldPlayers(t *testing.T) {
	retained := testPlayer("kept")
	free := testPlayer("free")

	eng := NewEngine(testTeams(), nil, testConfig(), nil)
	t.Cleanup(eng.Destroy)
	eng.Teams()[0].RetainedPlayers = []*domain.Player{retained}

	mgr := NewManager(eng, []*domain.Player{retained, free}, manualConfig(), nil)
	rec := &recorder{}
	mgr.Subscribe(rec.record)

	mgr.Start()

	if got := eng.State().CurrentPlayer; got == nil || got.ID != "free" {
		t.Fatalf("current player = %v, want free", got)
	}
	if stats := mgr.Stats(); stats.PlayersSkipped != 1 {
		t.Errorf("skipped = %d, want 1", stats.PlayersSkipped)
	}

	var skipped *PlayerSkipped
	for _, ev := range rec.events {
		if s, ok := ev.(PlayerSkipped); ok {
			skipped = &s
		}
	}
	if skipped == nil {
		t.Fatal("missing player_skipped event")
	}
	if skipped.Player.ID != "kept" {
		t.Errorf("skipped player = %s, want kept", skipped.Player.ID)
	}
}

func TestManager_NoDuplicateAuctions(t *testing.T) {
	// The same player appearing twice in the pool is auctioned once.
	p := testPlayer("p1")
	mgr, eng, _ := newTestManager(t, []*domain.Player{p, p, testPlayer("p2")})

	mgr.Start()
	eng.expireNow() // p1 unsold
	mgr.Next()

	if got := eng.State().CurrentPlayer; got == nil || got.ID != "p2" {
		t.Fatalf("current player = %v, want p2 (duplicate skipped)", got)
	}
	if stats := mgr.Stats(); stats.PlayersSkipped != 1 {
		t.Errorf("skipped = %d, want 1", stats.PlayersSkipped)
	}
}

func TestManager_StopAndResume(t *testing.T) {
	mgr, eng, _ := newTestManager(t, []*domain.Player{testPlayer("p1")})

	mgr.Start()
	mgr.Stop()

	if mgr.Running() {
		t.Error("manager running after Stop")
	}
	if got := eng.State().Status; got != domain.StatusPaused {
		t.Errorf("engine status = %s, want paused", got)
	}

	mgr.Resume()
	if got := eng.State().Status; got != domain.StatusBidding {
		t.Errorf("engine status = %s, want bidding", got)
	}

	// Next is inert while stopped.
	mgr.Stop()
	mgr.Next()
	if got := eng.State().Status; got == domain.StatusIdle {
		t.Error("Next advanced a stopped run")
	}
}

func TestManager_Reset(t *testing.T) {
	mgr, eng, _ := newTestManager(t, []*domain.Player{testPlayer("p1")})

	mgr.Start()
	eng.expireNow()
	oldID := mgr.RunID()

	mgr.Reset()

	if mgr.Running() {
		t.Error("manager running after Reset")
	}
	if mgr.RunID() == oldID {
		t.Error("Reset must issue a fresh run ID")
	}
	stats := mgr.Stats()
	if stats.PlayersAuctioned != 0 || stats.PlayersUnsold != 0 {
		t.Errorf("stats not cleared: %+v", stats)
	}
	if mgr.Remaining() != 1 {
		t.Errorf("remaining = %d, want 1", mgr.Remaining())
	}

	// The pool can be run again.
	mgr.Start()
	if got := eng.State().CurrentPlayer; got == nil || got.ID != "p1" {
		t.Errorf("current player = %v, want p1 after reset", got)
	}
}

func TestManager_PoolStats(t *testing.T) {
	retained := testPlayer("kept")
	eng := NewEngine(testTeams(), nil, testConfig(), nil)
	t.Cleanup(eng.Destroy)
	eng.Teams()[0].RetainedPlayers = []*domain.Player{retained}

	mgr := NewManager(eng, []*domain.Player{retained, testPlayer("p2")}, manualConfig(), nil)

	stats := mgr.PoolStats()
	if stats.TotalPlayers != 2 || stats.AuctionablePlayers != 1 {
		t.Errorf("pool stats = %+v", stats)
	}
	if got := mgr.Auctionable(); len(got) != 1 || got[0].ID != "p2" {
		t.Errorf("auctionable = %v, want [p2]", got)
	}
}
