// Package metrics exposes Prometheus metrics for the remediation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mender/internal/services/remediation"
)

var (
	ticksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mender_remediation_ticks_total",
			Help: "Total number of remediation ticks executed",
		},
	)
	outcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mender_remediation_outcomes_total",
			Help: "Total number of per-objective outcomes by kind",
		},
		[]string{"kind"},
	)
	objectivesGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mender_objectives_generated_total",
			Help: "Total number of new objectives admitted to the backlog",
		},
	)
	backlogActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mender_backlog_active",
			Help: "Current number of active objectives in the backlog",
		},
	)
)

// Recorder implements remediation.Recorder on top of the package-level
// Prometheus collectors.
type Recorder struct{}

var _ remediation.Recorder = Recorder{}

func (Recorder) TickRan() { ticksTotal.Inc() }

func (Recorder) ObjectiveOutcome(kind remediation.OutcomeKind) {
	outcomesTotal.WithLabelValues(string(kind)).Inc()
}

func (Recorder) ObjectivesGenerated(n int) { objectivesGenerated.Add(float64(n)) }

func (Recorder) BacklogSize(active int) { backlogActive.Set(float64(active)) }
