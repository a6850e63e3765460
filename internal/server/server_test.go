package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/domain"
	"github.com/Jit017/iplauction/internal/engine"
)

func testServer(t *testing.T) (*Server, *engine.Manager) {
	t.Helper()
	teams := []*domain.Team{
		{ID: "mi", Name: "Mumbai", Purse: decimal.NewFromInt(100), RoleNeeds: domain.RoleNeeds{}},
		{ID: "csk", Name: "Chennai", Purse: decimal.NewFromInt(100), RoleNeeds: domain.RoleNeeds{}},
	}
	players := []*domain.Player{
		{
			ID: "p1", Name: "Opener", Role: domain.RoleBatsman,
			BasePrice: decimal.NewFromInt(2), MinPrice: decimal.NewFromInt(2),
			MaxPrice: decimal.NewFromInt(18), Rating: 88,
		},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := engine.Config{
		TimerDuration:    30,
		TickInterval:     time.Hour,
		InitialAIDelay:   time.Hour,
		BidReactionDelay: time.Hour,
	}
	eng := engine.NewEngine(teams, nil, cfg, log)
	mgr := engine.NewManager(eng, players, engine.ManagerConfig{}, log)
	srv := New(mgr, log)
	t.Cleanup(eng.Destroy)
	return srv, mgr
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	var out map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return w, out
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	w, out := doJSON(t, srv, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if out["status"] != "ok" {
		t.Errorf("status field = %v, want ok", out["status"])
	}
}

func TestState(t *testing.T) {
	srv, mgr := testServer(t)
	mgr.Start()

	w, out := doJSON(t, srv, http.MethodGet, "/api/v1/state", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if out["status"] != string(domain.StatusBidding) {
		t.Errorf("auction status = %v, want bidding", out["status"])
	}
	player, ok := out["current_player"].(map[string]any)
	if !ok || player["id"] != "p1" {
		t.Errorf("current_player = %v, want p1", out["current_player"])
	}
}

func TestTeamLookup(t *testing.T) {
	srv, _ := testServer(t)

	w, out := doJSON(t, srv, http.MethodGet, "/api/v1/teams/mi", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if out["name"] != "Mumbai" {
		t.Errorf("name = %v, want Mumbai", out["name"])
	}

	w, _ = doJSON(t, srv, http.MethodGet, "/api/v1/teams/nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown team status = %d, want 404", w.Code)
	}
}

func TestBid(t *testing.T) {
	srv, mgr := testServer(t)
	mgr.Start()

	w, out := doJSON(t, srv, http.MethodPost, "/api/v1/bid", `{"team_id":"mi"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if out["current_bid"] != "2.25" {
		t.Errorf("current_bid = %v, want 2.25", out["current_bid"])
	}
	if st := mgr.Engine().State(); st.LeadingTeam == nil || st.LeadingTeam.ID != "mi" {
		t.Errorf("leading team = %+v, want mi", st.LeadingTeam)
	}
}

func TestBidErrors(t *testing.T) {
	srv, mgr := testServer(t)

	t.Run("no body", func(t *testing.T) {
		w, _ := doJSON(t, srv, http.MethodPost, "/api/v1/bid", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
	t.Run("missing team", func(t *testing.T) {
		w, _ := doJSON(t, srv, http.MethodPost, "/api/v1/bid", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
	t.Run("no round in progress", func(t *testing.T) {
		w, _ := doJSON(t, srv, http.MethodPost, "/api/v1/bid", `{"team_id":"mi"}`)
		if w.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", w.Code)
		}
	})
	t.Run("above ceiling", func(t *testing.T) {
		mgr.Start()
		w, _ := doJSON(t, srv, http.MethodPost, "/api/v1/bid", `{"team_id":"mi","amount":"50"}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", w.Code)
		}
	})
	t.Run("unknown team", func(t *testing.T) {
		w, _ := doJSON(t, srv, http.MethodPost, "/api/v1/bid", `{"team_id":"nope"}`)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestPauseResume(t *testing.T) {
	srv, mgr := testServer(t)
	mgr.Start()

	w, out := doJSON(t, srv, http.MethodPost, "/api/v1/pause", "")
	if w.Code != http.StatusOK {
		t.Fatalf("pause status = %d, want 200", w.Code)
	}
	if out["status"] != string(domain.StatusPaused) {
		t.Errorf("status after pause = %v, want paused", out["status"])
	}

	_, out = doJSON(t, srv, http.MethodPost, "/api/v1/resume", "")
	if out["status"] != string(domain.StatusBidding) {
		t.Errorf("status after resume = %v, want bidding", out["status"])
	}
}

func TestStartStop(t *testing.T) {
	srv, mgr := testServer(t)

	_, out := doJSON(t, srv, http.MethodPost, "/api/v1/start", "")
	if out["status"] != string(domain.StatusBidding) {
		t.Fatalf("status after start = %v, want bidding", out["status"])
	}
	if !mgr.Running() {
		t.Error("manager not running after start")
	}

	_, out = doJSON(t, srv, http.MethodPost, "/api/v1/stop", "")
	if out["status"] != string(domain.StatusPaused) {
		t.Errorf("status after stop = %v, want paused", out["status"])
	}
	if mgr.Running() {
		t.Error("manager still running after stop")
	}
}

func TestStatsAndPool(t *testing.T) {
	srv, mgr := testServer(t)

	_, out := doJSON(t, srv, http.MethodGet, "/api/v1/stats", "")
	if out["run_id"] != mgr.RunID() {
		t.Errorf("run_id = %v, want %s", out["run_id"], mgr.RunID())
	}

	_, out = doJSON(t, srv, http.MethodGet, "/api/v1/pool", "")
	listed, ok := out["auctionable"].([]any)
	if !ok || len(listed) != 1 {
		t.Errorf("auctionable = %v, want one player", out["auctionable"])
	}
}
