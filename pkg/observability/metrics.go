package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "interviewer"

// Metrics holds the Prometheus collectors fed by engine events.
type Metrics struct {
	NodeVisits         *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	GenerationErrors   *prometheus.CounterVec
	Verdicts           *prometheus.CounterVec
	Turns              prometheus.Counter
	Difficulty         prometheus.Histogram
	Finished           prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NodeVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_visits_total",
			Help:      "Total number of node executions.",
		}, []string{"node_id"}),
		GenerationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Latency of calls to the language model.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"node_id"}),
		GenerationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_errors_total",
			Help:      "Failed calls to the language model.",
		}, []string{"node_id"}),
		Verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Classifier verdicts by intent, quality and fallback.",
		}, []string{"intent", "quality", "fallback"}),
		Turns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Recorded interview turns.",
		}),
		Difficulty: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_difficulty",
			Help:      "Difficulty level after each recorded turn.",
			Buckets:   prometheus.LinearBuckets(1, 1, 5),
		}),
		Finished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_finished_total",
			Help:      "Interviews whose feedback step completed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.NodeVisits, m.GenerationDuration, m.GenerationErrors, m.Verdicts, m.Turns, m.Difficulty, m.Finished)
	}
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(string(e.NodeID)).Inc()
		},
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) {
			if e.NodeID == domain.NodeFeedback {
				m.Finished.Inc()
			}
		},
		OnGeneration: func(_ context.Context, e *domain.GenerationEvent) {
			m.GenerationDuration.WithLabelValues(string(e.NodeID)).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.GenerationErrors.WithLabelValues(string(e.NodeID)).Inc()
			}
		},
		OnVerdict: func(_ context.Context, e *domain.VerdictEvent) {
			m.Verdicts.WithLabelValues(string(e.Verdict.Intent), string(e.Verdict.Quality), strconv.FormatBool(e.Fallback)).Inc()
		},
		OnTurnRecorded: func(_ context.Context, e *domain.TurnEvent) {
			m.Turns.Inc()
			m.Difficulty.Observe(float64(e.Difficulty))
		},
	}
}
