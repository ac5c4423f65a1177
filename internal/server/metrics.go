package server

import (
	"github.com/lox/teenpatti/internal/game"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the prometheus collectors exported on /metrics
type Metrics struct {
	Rounds      *prometheus.CounterVec
	Actions     *prometheus.CounterVec
	Rejected    *prometheus.CounterVec
	Connections prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teenpatti",
			Name:      "rounds_total",
			Help:      "Completed rounds by winner.",
		}, []string{"winner", "showdown"}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teenpatti",
			Name:      "actions_total",
			Help:      "Accepted player actions by kind.",
		}, []string{"action"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teenpatti",
			Name:      "rejected_total",
			Help:      "Rejected requests by error code.",
		}, []string{"code"}),
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "teenpatti",
			Name:      "connections",
			Help:      "Open websocket connections.",
		}),
	}
	reg.MustRegister(m.Rounds, m.Actions, m.Rejected, m.Connections)
	return m
}

// RecordRound implements game.RoundRecorder
func (m *Metrics) RecordRound(r game.RoundResult) {
	showdown := "false"
	if r.Showdown {
		showdown = "true"
	}
	m.Rounds.WithLabelValues(r.Winner.String(), showdown).Inc()
}
