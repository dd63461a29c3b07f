package draw

import (
	"github.com/prometheus/client_golang/prometheus"

	"go.inspectdraw.org/draw/catalog"
)

// Metrics contains the prometheus metrics for the draw service
type Metrics struct {
	Draws         *prometheus.CounterVec
	Rejected      *prometheus.CounterVec
	Aborted       *prometheus.CounterVec
	RoundPairings prometheus.Gauge
	RoundResets   prometheus.Counter
	InFlight      prometheus.Gauge
}

// NewMetrics creates and registers the draw metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Draws: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "draw_committed_total",
				Help: "Total number of committed draws",
			},
			[]string{"category", "forced_unique"},
		),

		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "draw_rejected_total",
				Help: "Total number of rejected draw requests, by reason",
			},
			[]string{"category", "reason"},
		),

		Aborted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "draw_aborted_total",
				Help: "Total number of prepared draws that were not committed",
			},
			[]string{"category"},
		),

		RoundPairings: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "draw_round_pairings",
				Help: "Number of pairings made in the current round",
			},
		),

		RoundResets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "draw_round_resets_total",
				Help: "Total number of round resets",
			},
		),

		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "draw_in_flight",
				Help: "Number of prepared draws awaiting commit",
			},
		),
	}

	reg.MustRegister(
		m.Draws,
		m.Rejected,
		m.Aborted,
		m.RoundPairings,
		m.RoundResets,
		m.InFlight,
	)

	return m
}

func (m *Metrics) trackCommit(category catalog.Category, forced bool, pairings int) {
	if m == nil {
		return
	}
	f := "false"
	if forced {
		f = "true"
	}
	m.Draws.WithLabelValues(category.String(), f).Inc()
	m.RoundPairings.Set(float64(pairings))
}

func (m *Metrics) trackRejected(category catalog.Category, err error) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(category.String(), Code(err)).Inc()
}

func (m *Metrics) trackAborted(category catalog.Category) {
	if m == nil {
		return
	}
	m.Aborted.WithLabelValues(category.String()).Inc()
}

func (m *Metrics) trackReset() {
	if m == nil {
		return
	}
	m.RoundResets.Inc()
	m.RoundPairings.Set(0)
}

func (m *Metrics) setInFlight(n int) {
	if m == nil {
		return
	}
	m.InFlight.Set(float64(n))
}
