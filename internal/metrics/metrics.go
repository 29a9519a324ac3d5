// Package metrics holds the Prometheus collectors for workflow outcomes,
// fallback tiers, interventions and classified emotions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is a set of collectors registered on one registry. A nil
// *Metrics records nothing.
type Metrics struct {
	workflows     *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	fallbackTiers *prometheus.CounterVec
	interventions *prometheus.CounterVec
	emotions      *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		workflows: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutorly_workflow_total",
				Help: "Workflow runs by workflow and outcome",
			},
			[]string{"workflow", "outcome"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tutorly_workflow_duration_seconds",
				Help:    "Workflow wall time",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"workflow"},
		),
		fallbackTiers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutorly_fallback_tier_total",
				Help: "Fallback chain results by tier used",
			},
			[]string{"tier"},
		),
		interventions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutorly_intervention_total",
				Help: "Intervention decisions by type",
			},
			[]string{"type"},
		),
		emotions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutorly_emotion_total",
				Help: "Classified emotions",
			},
			[]string{"emotion"},
		),
	}
}

// ObserveWorkflow counts one workflow run and its duration.
func (m *Metrics) ObserveWorkflow(workflow, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.workflows.WithLabelValues(workflow, outcome).Inc()
	m.duration.WithLabelValues(workflow).Observe(d.Seconds())
}

// FallbackTier counts a fallback chain that finished on tier.
func (m *Metrics) FallbackTier(tier int) {
	if m == nil || tier < 0 {
		return
	}
	m.fallbackTiers.WithLabelValues(tierLabel(tier)).Inc()
}

// Intervention counts a decision of type t.
func (m *Metrics) Intervention(t string) {
	if m == nil {
		return
	}
	m.interventions.WithLabelValues(t).Inc()
}

// Emotion counts a classification result.
func (m *Metrics) Emotion(e string) {
	if m == nil {
		return
	}
	m.emotions.WithLabelValues(e).Inc()
}

func tierLabel(tier int) string {
	switch tier {
	case 0:
		return "primary"
	case 1:
		return "secondary"
	case 2:
		return "static"
	}
	return "unknown"
}
