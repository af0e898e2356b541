// Package metrics holds the Prometheus collectors of a tournament run.
// Every run owns its registry, so runs and tests never share state.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "szemeredi"

// Game outcome label values
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomeDraw = "draw"
)

type Metrics struct {
	registry *prometheus.Registry

	// Games by strategy and outcome from that strategy's point of view
	GamesTotal *prometheus.CounterVec
	// Moves played by strategy
	MovesTotal *prometheus.CounterVec
	// Time a strategy needed to pick a move
	DecisionSeconds *prometheus.HistogramVec
	// MCTS cycles per decision
	SearchCycles *prometheus.HistogramVec
	// Games currently being played
	GamesInFlight prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		GamesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tournament",
				Name:      "games_total",
				Help:      "Finished games by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		MovesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tournament",
				Name:      "moves_total",
				Help:      "Moves played by strategy",
			},
			[]string{"strategy"},
		),
		DecisionSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "strategy",
				Name:      "decision_seconds",
				Help:      "Time spent choosing a single move",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"strategy"},
		),
		SearchCycles: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mcts",
				Name:      "search_cycles",
				Help:      "Search cycles run per decision",
				Buckets:   prometheus.ExponentialBuckets(100, 2, 10),
			},
			[]string{"strategy"},
		),
		GamesInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "tournament",
				Name:      "games_in_flight",
				Help:      "Games currently being played",
			},
		),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordGame counts one finished game for both of its players.
// winner is 1, 2 or 0 for a draw.
func (m *Metrics) RecordGame(first, second string, winner int) {
	switch winner {
	case 1:
		m.GamesTotal.WithLabelValues(first, OutcomeWin).Inc()
		m.GamesTotal.WithLabelValues(second, OutcomeLoss).Inc()
	case 2:
		m.GamesTotal.WithLabelValues(first, OutcomeLoss).Inc()
		m.GamesTotal.WithLabelValues(second, OutcomeWin).Inc()
	default:
		m.GamesTotal.WithLabelValues(first, OutcomeDraw).Inc()
		m.GamesTotal.WithLabelValues(second, OutcomeDraw).Inc()
	}
}

func (m *Metrics) RecordMove(strategy string, took time.Duration) {
	m.MovesTotal.WithLabelValues(strategy).Inc()
	m.DecisionSeconds.WithLabelValues(strategy).Observe(took.Seconds())
}

func (m *Metrics) RecordSearch(strategy string, cycles uint32) {
	m.SearchCycles.WithLabelValues(strategy).Observe(float64(cycles))
}

// WriteToTextfile dumps the registry in the node exporter text format
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
