package monitor

import (
	"testing"
	"time"

	"mender/internal/objective"
	"mender/internal/services/remediation"
	"mender/internal/signal"
	"mender/pkg/logx"
)

type fakeBacklog struct {
	prioritized []objective.Objective
	stats       objective.Stats
}

func (f *fakeBacklog) Prioritized() []objective.Objective { return f.prioritized }
func (f *fakeBacklog) Stats() objective.Stats             { return f.stats }

type fakeExecution struct {
	history []remediation.ExecutionRecord
}

func (f *fakeExecution) History() []remediation.ExecutionRecord { return f.history }

type warningSource struct {
	warnings []string
}

func (w *warningSource) CalibrationWarnings() ([]string, error) { return w.warnings, nil }
func (w *warningSource) ClassificationAccuracy() (map[string]signal.CategoryAccuracy, error) {
	return nil, nil
}
func (w *warningSource) MetaInsights() (signal.MetaInsights, error) {
	return signal.MetaInsights{}, nil
}
func (w *warningSource) EvolutionScore() (signal.EvolutionScore, error) {
	return signal.EvolutionScore{}, nil
}

func newMonitor(backlog *fakeBacklog, exec *fakeExecution, src signal.Source) *Monitor {
	log := logx.Nop()
	var col *signal.Collector
	if src != nil {
		col = signal.NewCollector(src, log)
	}
	return New(backlog, exec, col, log)
}

func TestSummaryHealthRules(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		stats  objective.Stats
		rate   float64
		health Health
	}{
		{"excellent", objective.Stats{Total: 10, Active: 2, Addressed: 8}, 0.8, HealthExcellent},
		{"good at boundary rate with busy backlog", objective.Stats{Total: 25, Active: 5, Addressed: 20}, 0.8, HealthGood},
		{"good despite big backlog", objective.Stats{Total: 100, Active: 15, Addressed: 85}, 0.85, HealthGood},
		{"good", objective.Stats{Total: 10, Active: 3, Addressed: 7}, 0.7, HealthGood},
		{"moderate", objective.Stats{Total: 10, Active: 6, Addressed: 4}, 0.4, HealthModerate},
		{"overwhelmed", objective.Stats{Total: 12, Active: 11, Addressed: 1}, 1.0 / 12, HealthOverwhelmed},
		{"slow", objective.Stats{Total: 10, Active: 9, Addressed: 1}, 0.1, HealthSlow},
		{"empty store is slow", objective.Stats{}, 0, HealthSlow},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newMonitor(&fakeBacklog{stats: tt.stats}, &fakeExecution{}, nil)
			got := m.Summary()
			if got.Health != tt.health {
				t.Fatalf("Health = %q, want %q", got.Health, tt.health)
			}
			if diff := got.CompletionRate - tt.rate; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("CompletionRate = %v, want %v", got.CompletionRate, tt.rate)
			}
		})
	}
}

func TestDetailedMetricsFoldsHistory(t *testing.T) {
	t.Parallel()
	exec := &fakeExecution{history: []remediation.ExecutionRecord{
		{ObjectivesAddressed: 3, Successes: 2, Failures: 1},
		{ObjectivesAddressed: 2, Successes: 1, Failures: 0},
	}}
	backlog := &fakeBacklog{stats: objective.Stats{
		ByType:    map[objective.Type]int{objective.TypeSkillGap: 2},
		ByUrgency: map[objective.Urgency]int{objective.UrgencyHigh: 2},
	}}

	m := newMonitor(backlog, exec, nil)
	got := m.DetailedMetrics()
	if got.TotalActions != 5 || got.Successes != 3 || got.Failures != 1 {
		t.Fatalf("unexpected fold: %+v", got)
	}
	if got.SuccessRate != 0.75 {
		t.Fatalf("SuccessRate = %v, want 0.75", got.SuccessRate)
	}
	if got.ByType[objective.TypeSkillGap] != 2 {
		t.Fatalf("type census missing: %+v", got.ByType)
	}
}

func TestStuckObjectivesThreshold(t *testing.T) {
	t.Parallel()
	now := time.Now()
	backlog := &fakeBacklog{prioritized: []objective.Objective{
		{ID: "young", FocusArea: "young", CreatedAt: now.Add(-59 * time.Minute), Status: objective.StatusActive},
		{ID: "old", FocusArea: "old", CreatedAt: now.Add(-61 * time.Minute), Status: objective.StatusActive},
	}}

	m := newMonitor(backlog, &fakeExecution{}, nil)
	m.now = func() time.Time { return now }

	got := m.StuckObjectives()
	if len(got) != 1 {
		t.Fatalf("expected exactly the 61m objective, got %d", len(got))
	}
	if got[0].FocusArea != "old" {
		t.Fatalf("wrong objective flagged: %+v", got[0])
	}
	if got[0].AgeMinutes != 61 {
		t.Fatalf("AgeMinutes = %d, want 61", got[0].AgeMinutes)
	}
}

func TestStrategyRecommendationsOrder(t *testing.T) {
	t.Parallel()
	now := time.Now()

	// Trip every check at once.
	var stuck []objective.Objective
	for i := 0; i < 4; i++ {
		stuck = append(stuck, objective.Objective{
			FocusArea: "stuck",
			CreatedAt: now.Add(-2 * time.Hour),
			Status:    objective.StatusActive,
		})
	}
	backlog := &fakeBacklog{
		prioritized: stuck,
		stats: objective.Stats{
			ByType: map[objective.Type]int{objective.TypeSkillGap: 6},
		},
	}
	exec := &fakeExecution{history: []remediation.ExecutionRecord{
		{ObjectivesAddressed: 10, Successes: 2, Failures: 8},
	}}
	src := &warningSource{warnings: []string{"overconfident on estimates"}}

	m := newMonitor(backlog, exec, src)
	m.now = func() time.Time { return now }

	got := m.StrategyRecommendations()
	if len(got) != 4 {
		t.Fatalf("expected 4 recommendations, got %d: %+v", len(got), got)
	}
	// Prepend ordering: last check lands first.
	wantTopics := []string{"calibration_needed", "type_concentration", "stuck_objectives", "low_success_rate"}
	for i, topic := range wantTopics {
		if got[i].Topic != topic {
			t.Fatalf("recommendation %d topic = %q, want %q", i, got[i].Topic, topic)
		}
	}
}

func TestStrategyRecommendationsQuietWhenHealthy(t *testing.T) {
	t.Parallel()
	exec := &fakeExecution{history: []remediation.ExecutionRecord{
		{ObjectivesAddressed: 2, Successes: 2},
	}}
	m := newMonitor(&fakeBacklog{stats: objective.Stats{
		ByType: map[objective.Type]int{objective.TypeStrategy: 2},
	}}, exec, nil)
	if got := m.StrategyRecommendations(); len(got) != 0 {
		t.Fatalf("expected no recommendations, got %+v", got)
	}
}

func TestLearningVelocityInsufficientData(t *testing.T) {
	t.Parallel()
	m := newMonitor(&fakeBacklog{}, &fakeExecution{}, nil)
	if got := m.LearningVelocity(); got.Trend != TrendInsufficientData {
		t.Fatalf("Trend = %q, want insufficient_data", got.Trend)
	}

	now := time.Now()
	exec := &fakeExecution{history: []remediation.ExecutionRecord{
		{Timestamp: now.Add(-10 * time.Minute), ObjectivesAddressed: 2},
	}}
	m = newMonitor(&fakeBacklog{}, exec, nil)
	if got := m.LearningVelocity(); got.Trend != TrendInsufficientData {
		t.Fatalf("one bucket should be insufficient, got %q", got.Trend)
	}
}

func TestLearningVelocityTrends(t *testing.T) {
	t.Parallel()
	now := time.Now()
	rec := func(hoursAgo int, addressed int) remediation.ExecutionRecord {
		return remediation.ExecutionRecord{
			Timestamp:           now.Add(-time.Duration(hoursAgo)*time.Hour - time.Minute),
			ObjectivesAddressed: addressed,
		}
	}

	tests := []struct {
		name    string
		history []remediation.ExecutionRecord
		trend   Trend
	}{
		{
			"accelerating",
			[]remediation.ExecutionRecord{
				rec(0, 5), rec(1, 5), rec(2, 5),
				rec(3, 1), rec(4, 1), rec(5, 1),
			},
			TrendAccelerating,
		},
		{
			"slowing",
			[]remediation.ExecutionRecord{
				rec(0, 1), rec(1, 1), rec(2, 1),
				rec(3, 5), rec(4, 5), rec(5, 5),
			},
			TrendSlowing,
		},
		{
			"steady",
			[]remediation.ExecutionRecord{
				rec(0, 3), rec(1, 3), rec(2, 3),
				rec(3, 3), rec(4, 3), rec(5, 3),
			},
			TrendSteady,
		},
		{
			"recent only reads as accelerating",
			[]remediation.ExecutionRecord{
				rec(0, 2), rec(1, 2),
			},
			TrendAccelerating,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newMonitor(&fakeBacklog{}, &fakeExecution{history: tt.history}, nil)
			m.now = func() time.Time { return now }
			if got := m.LearningVelocity(); got.Trend != tt.trend {
				t.Fatalf("Trend = %q, want %q (velocity %+v)", got.Trend, tt.trend, got)
			}
		})
	}
}
