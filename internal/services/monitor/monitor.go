// Package monitor derives progress and health reports from the objective
// store and the execution scheduler.
//
// The monitor is stateless: every call re-reads its inputs, so two calls in
// quick succession may observe different data. Reads across components are
// unsynchronized on purpose; the output is advisory.
package monitor

import (
	"fmt"
	"sort"
	"time"

	"mender/internal/objective"
	"mender/internal/services/remediation"
	"mender/internal/signal"
	"mender/pkg/logx"
)

// stuckAfter is the age past which an active objective counts as stuck.
const stuckAfter = 3600 * time.Second

// Backlog is the store surface the monitor reads.
type Backlog interface {
	Prioritized() []objective.Objective
	Stats() objective.Stats
}

// Execution is the scheduler surface the monitor reads.
type Execution interface {
	History() []remediation.ExecutionRecord
}

type Monitor struct {
	backlog   Backlog
	execution Execution
	collector *signal.Collector // optional, for calibration diagnostics
	log       logx.Logger

	now func() time.Time
}

func New(backlog Backlog, execution Execution, collector *signal.Collector, log logx.Logger) *Monitor {
	return &Monitor{
		backlog:   backlog,
		execution: execution,
		collector: collector,
		log:       log,
		now:       time.Now,
	}
}

// Summary reports completion rate and a health label. Health is the first
// matching rule, in order: excellent, good, moderate, overwhelmed, slow.
func (m *Monitor) Summary() Summary {
	st := m.backlog.Stats()

	rate := 0.0
	if st.Total > 0 {
		rate = float64(st.Addressed) / float64(st.Total)
	}

	var health Health
	switch {
	case rate >= 0.8 && st.Active < 5:
		health = HealthExcellent
	case rate > 0.6:
		health = HealthGood
	case rate > 0.3:
		health = HealthModerate
	case st.Active > 10:
		health = HealthOverwhelmed
	default:
		health = HealthSlow
	}

	return Summary{
		Total:          st.Total,
		Active:         st.Active,
		Addressed:      st.Addressed,
		CompletionRate: rate,
		Health:         health,
		GeneratedAt:    m.now(),
	}
}

// DetailedMetrics folds the execution history into action totals and adds the
// backlog census by type and urgency.
func (m *Monitor) DetailedMetrics() Metrics {
	var out Metrics
	for _, rec := range m.execution.History() {
		out.TotalActions += rec.ObjectivesAddressed
		out.Successes += rec.Successes
		out.Failures += rec.Failures
	}
	if n := out.Successes + out.Failures; n > 0 {
		out.SuccessRate = float64(out.Successes) / float64(n)
	}

	st := m.backlog.Stats()
	out.ByType = st.ByType
	out.ByUrgency = st.ByUrgency
	return out
}

// StuckObjectives returns active objectives older than the stuck threshold,
// highest priority first, annotated with their age in whole minutes.
func (m *Monitor) StuckObjectives() []StuckObjective {
	now := m.now()
	var out []StuckObjective
	for _, o := range m.backlog.Prioritized() {
		age := now.Sub(o.CreatedAt)
		if age <= stuckAfter {
			continue
		}
		out = append(out, StuckObjective{
			Objective:  o,
			AgeMinutes: int(age.Minutes()),
		})
	}
	return out
}

// StrategyRecommendations produces diagnostics by prepending each finding, so
// the final order is the reverse of the check order: calibration first,
// type concentration, stuck objectives, low success rate last.
func (m *Monitor) StrategyRecommendations() []Recommendation {
	var out []Recommendation
	prepend := func(r Recommendation) {
		out = append([]Recommendation{r}, out...)
	}

	metrics := m.DetailedMetrics()
	if metrics.Successes+metrics.Failures > 0 && metrics.SuccessRate < 0.5 {
		prepend(Recommendation{
			Severity: "warning",
			Topic:    "low_success_rate",
			Message: fmt.Sprintf("remediation succeeding only %.0f%% of the time; effector capabilities may be degraded",
				metrics.SuccessRate*100),
		})
	}

	if stuck := len(m.StuckObjectives()); stuck > 3 {
		prepend(Recommendation{
			Severity: "warning",
			Topic:    "stuck_objectives",
			Message:  fmt.Sprintf("%d objectives stuck beyond %s; consider raising batch size or relaxing cooldowns", stuck, stuckAfter),
		})
	}

	if dominant, count := dominantType(metrics.ByType); count > 5 {
		prepend(Recommendation{
			Severity: "info",
			Topic:    "type_concentration",
			Message:  fmt.Sprintf("backlog concentrated on %s objectives (%d); a systemic weakness is likely", dominant, count),
		})
	}

	if m.calibrationWarningsPresent() {
		prepend(Recommendation{
			Severity: "info",
			Topic:    "calibration_needed",
			Message:  "calibration warnings are active; schedule synthesis work on confidence calibration",
		})
	}

	return out
}

// dominantType returns the most numerous type and its count. Ties break by
// name so the diagnostic is stable.
func dominantType(byType map[objective.Type]int) (objective.Type, int) {
	names := make([]string, 0, len(byType))
	for t := range byType {
		names = append(names, string(t))
	}
	sort.Strings(names)

	var best objective.Type
	bestN := 0
	for _, name := range names {
		if n := byType[objective.Type(name)]; n > bestN {
			best, bestN = objective.Type(name), n
		}
	}
	return best, bestN
}

func (m *Monitor) calibrationWarningsPresent() bool {
	if m.collector == nil {
		return false
	}
	return len(m.collector.Collect().CalibrationWarnings) > 0
}

// LearningVelocity buckets the execution history by whole hours-ago and
// compares the three most recent buckets against the next three.
func (m *Monitor) LearningVelocity() Velocity {
	now := m.now()
	buckets := map[int]int{}
	for _, rec := range m.execution.History() {
		h := int(now.Sub(rec.Timestamp).Hours())
		if h < 0 {
			h = 0
		}
		buckets[h] += rec.ObjectivesAddressed
	}

	if len(buckets) < 2 {
		return Velocity{Trend: TrendInsufficientData, Buckets: len(buckets)}
	}

	hours := make([]int, 0, len(buckets))
	for h := range buckets {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	recent := bucketMean(buckets, hours, 0, 3)
	older := bucketMean(buckets, hours, 3, 3)

	trend := TrendSteady
	switch {
	case recent > older*1.2:
		trend = TrendAccelerating
	case recent < older*0.8:
		trend = TrendSlowing
	}

	return Velocity{
		RecentPerHour: recent,
		OlderPerHour:  older,
		Trend:         trend,
		Buckets:       len(buckets),
	}
}

// bucketMean averages up to n bucket values starting at offset within the
// sorted hour keys (smallest hours-ago first).
func bucketMean(buckets map[int]int, hours []int, offset, n int) float64 {
	if offset >= len(hours) {
		return 0
	}
	end := offset + n
	if end > len(hours) {
		end = len(hours)
	}
	sum := 0
	for _, h := range hours[offset:end] {
		sum += buckets[h]
	}
	return float64(sum) / float64(end-offset)
}
