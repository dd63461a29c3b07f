package selector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go.inspectdraw.org/draw/catalog"
)

// Metrics contains the prometheus metrics for candidate selection
type Metrics struct {
	Evaluations       *prometheus.CounterVec
	Exclusions        *prometheus.CounterVec
	CandidatePoolSize *prometheus.GaugeVec
	ForcedUnique      *prometheus.CounterVec
	NoCandidates      *prometheus.CounterVec
	EvaluateDuration  *prometheus.HistogramVec
}

// NewMetrics creates and registers all selector metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selector_evaluations_total",
				Help: "Total number of candidate set evaluations",
			},
			[]string{"category"},
		),

		Exclusions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selector_exclusions_total",
				Help: "Total number of entities excluded, by constraint",
			},
			[]string{"category", "reason"},
		),

		CandidatePoolSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "selector_candidate_pool_size",
				Help: "Number of eligible candidates in the most recent evaluation",
			},
			[]string{"category"},
		),

		ForcedUnique: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selector_forced_unique_total",
				Help: "Evaluations resolved by reselecting the only candidate",
			},
			[]string{"category"},
		),

		NoCandidates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selector_no_candidates_total",
				Help: "Evaluations that produced no eligible candidate",
			},
			[]string{"category"},
		),

		EvaluateDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "selector_evaluate_duration_seconds",
				Help:    "Time spent evaluating constraints",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"category"},
		),
	}

	reg.MustRegister(
		m.Evaluations,
		m.Exclusions,
		m.CandidatePoolSize,
		m.ForcedUnique,
		m.NoCandidates,
		m.EvaluateDuration,
	)

	return m
}

// TrackEvaluation records the outcome of one Eligible call
func (m *Metrics) TrackEvaluation(
	category catalog.Category,
	eligible int,
	excluded map[ExclusionReason]int,
	forcedUnique bool,
	duration time.Duration,
) {
	cat := category.String()

	m.Evaluations.WithLabelValues(cat).Inc()
	m.CandidatePoolSize.WithLabelValues(cat).Set(float64(eligible))
	m.EvaluateDuration.WithLabelValues(cat).Observe(duration.Seconds())

	for _, reason := range exclusionReasons {
		if n := excluded[reason]; n > 0 {
			m.Exclusions.WithLabelValues(cat, string(reason)).Add(float64(n))
		}
	}

	if forcedUnique {
		m.ForcedUnique.WithLabelValues(cat).Inc()
	}
	if eligible == 0 {
		m.NoCandidates.WithLabelValues(cat).Inc()
	}
}
