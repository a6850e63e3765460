// Package metrics provides Prometheus instrumentation for the auction.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jit017/iplauction/internal/engine"
)

var (
	// BidsTotal counts accepted bids, partitioned by team.
	BidsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_bids_total",
		Help: "Total number of accepted bids",
	}, []string{"team"})

	// PlayersSold counts players sold.
	PlayersSold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_players_sold_total",
		Help: "Total number of players sold",
	})

	// PlayersUnsold counts players that went unsold.
	PlayersUnsold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_players_unsold_total",
		Help: "Total number of players unsold",
	})

	// PlayersSkipped counts players skipped by the sequencer.
	PlayersSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_players_skipped_total",
		Help: "Total number of players skipped before auction",
	})

	// Revenue accumulates spend across all sales, in Crores.
	Revenue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_revenue_crores_total",
		Help: "Cumulative auction revenue in Crores",
	})

	// SalePrice observes the distribution of final sale prices.
	SalePrice = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "auction_sale_price_crores",
		Help:    "Final sale price per player in Crores",
		Buckets: []float64{0.5, 1, 2, 4, 8, 12, 16, 20, 25, 30},
	})

	// TimerRemaining tracks the countdown of the current round.
	TimerRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "auction_timer_remaining_seconds",
		Help: "Seconds remaining on the current round countdown",
	})

	// ErrorsTotal counts error events from the engine.
	ErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_errors_total",
		Help: "Total error events emitted by the auction engine",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "auction_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Observe is an event subscriber that updates the metrics above. Register
// it on the manager's event stream.
func Observe(ev engine.Event) {
	switch e := ev.(type) {
	case engine.BidPlaced:
		BidsTotal.WithLabelValues(e.Team.ID).Inc()
	case engine.TimerTick:
		TimerRemaining.Set(float64(e.Remaining))
	case engine.PlayerSold:
		PlayersSold.Inc()
		price, _ := e.Amount.Float64()
		Revenue.Add(price)
		SalePrice.Observe(price)
	case engine.PlayerUnsold:
		PlayersUnsold.Inc()
	case engine.PlayerSkipped:
		PlayersSkipped.Inc()
	case engine.ErrorEvent:
		ErrorsTotal.Inc()
	}
}
