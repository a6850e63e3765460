package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/domain"
	"github.com/Jit017/iplauction/internal/engine"
	"github.com/Jit017/iplauction/internal/metrics"
)

// Server exposes the auction over HTTP and WebSocket.
type Server struct {
	manager *engine.Manager
	hub     *WSHub
	log     *slog.Logger
	router  chi.Router
}

// New builds the HTTP server around a running auction manager. The hub's
// Run loop is started here; events reach clients once the manager is
// subscribed via EventHandler.
func New(manager *engine.Manager, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		manager: manager,
		hub:     NewWSHub(log),
		log:     log,
	}
	go s.hub.Run()
	s.router = s.routes()
	return s
}

// EventHandler returns the subscriber that forwards auction events to
// WebSocket clients.
func (s *Server) EventHandler() engine.Subscriber {
	return s.hub.HandleEvent
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ws", s.hub.HandleWS)
		r.Get("/state", s.handleState)
		r.Get("/teams", s.handleTeams)
		r.Get("/teams/{teamID}", s.handleTeam)
		r.Get("/stats", s.handleStats)
		r.Get("/pool", s.handlePool)
		r.Post("/bid", s.handleBid)
		r.Post("/start", s.handleStart)
		r.Post("/stop", s.handleStop)
		r.Post("/pause", s.handlePause)
		r.Post("/resume", s.handleResume)
		r.Post("/next", s.handleNext)
	})

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"running": s.manager.Running(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.Engine().State())
}

func (s *Server) handleTeams(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.Engine().Teams())
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "teamID")
	team, ok := s.manager.Engine().Team(id)
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrTeamNotFound)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":    s.manager.RunID(),
		"running":   s.manager.Running(),
		"remaining": s.manager.Remaining(),
		"stats":     s.manager.Stats(),
	})
}

func (s *Server) handlePool(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":       s.manager.PoolStats(),
		"auctionable": s.manager.Auctionable(),
	})
}

type bidRequest struct {
	TeamID string `json:"team_id"`
	Amount string `json:"amount,omitempty"`
}

func (s *Server) handleBid(w http.ResponseWriter, r *http.Request) {
	var req bidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if req.TeamID == "" {
		writeError(w, http.StatusBadRequest, errors.New("team_id is required"))
		return
	}

	var err error
	if req.Amount != "" {
		var amount decimal.Decimal
		amount, err = decimal.NewFromString(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid bid amount"))
			return
		}
		err = s.manager.Engine().PlaceBidAmount(req.TeamID, amount)
	} else {
		err = s.manager.Engine().PlaceBid(req.TeamID)
	}
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.manager.Engine().State())
}

func (s *Server) handleStart(w http.ResponseWriter, _ *http.Request) {
	s.manager.Start()
	writeJSON(w, http.StatusOK, s.manager.Engine().State())
}

func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.manager.Stop()
	writeJSON(w, http.StatusOK, s.manager.Engine().State())
}

func (s *Server) handlePause(w http.ResponseWriter, _ *http.Request) {
	s.manager.Pause()
	writeJSON(w, http.StatusOK, s.manager.Engine().State())
}

func (s *Server) handleResume(w http.ResponseWriter, _ *http.Request) {
	s.manager.Resume()
	writeJSON(w, http.StatusOK, s.manager.Engine().State())
}

func (s *Server) handleNext(w http.ResponseWriter, _ *http.Request) {
	s.manager.Next()
	writeJSON(w, http.StatusOK, s.manager.Engine().State())
}

func statusForError(err error) int {
	var stateErr *domain.StateError
	var purseErr *domain.InsufficientPurseError
	switch {
	case errors.Is(err, domain.ErrTeamNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoCurrentPlayer), errors.As(err, &stateErr):
		return http.StatusConflict
	case errors.As(err, &purseErr),
		errors.Is(err, domain.ErrBidTooLow),
		errors.Is(err, domain.ErrBidTooHigh):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	metrics.ErrorsTotal.Inc()
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
