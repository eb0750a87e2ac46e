package monitor

import (
	"time"

	"mender/internal/objective"
)

// Health labels the remediation loop's overall state.
type Health string

const (
	HealthExcellent   Health = "excellent"
	HealthGood        Health = "good"
	HealthModerate    Health = "moderate"
	HealthOverwhelmed Health = "overwhelmed"
	HealthSlow        Health = "slow"
)

// Summary is the headline progress report.
type Summary struct {
	Total          int       `json:"total"`
	Active         int       `json:"active"`
	Addressed      int       `json:"addressed"`
	CompletionRate float64   `json:"completion_rate"`
	Health         Health    `json:"health"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Metrics folds the execution history plus backlog census into one view.
type Metrics struct {
	TotalActions int     `json:"total_actions"`
	Successes    int     `json:"successes"`
	Failures     int     `json:"failures"`
	SuccessRate  float64 `json:"success_rate"`

	ByType    map[objective.Type]int    `json:"by_type"`
	ByUrgency map[objective.Urgency]int `json:"by_urgency"`
}

// StuckObjective is an active objective annotated with its age. "stuck" is a
// query-time label; the store is never mutated.
type StuckObjective struct {
	objective.Objective
	AgeMinutes int `json:"age_minutes"`
}

// Recommendation is one diagnostic line for the operator or the agent's
// planning layer.
type Recommendation struct {
	Severity string `json:"severity"` // "warning" or "info"
	Topic    string `json:"topic"`
	Message  string `json:"message"`
}

// Trend classifies the remediation loop's momentum.
type Trend string

const (
	TrendAccelerating     Trend = "accelerating"
	TrendSlowing          Trend = "slowing"
	TrendSteady           Trend = "steady"
	TrendInsufficientData Trend = "insufficient_data"
)

// Velocity reports hour-bucketed throughput of the execution history.
type Velocity struct {
	RecentPerHour float64 `json:"recent_per_hour"`
	OlderPerHour  float64 `json:"older_per_hour"`
	Trend         Trend   `json:"trend"`
	Buckets       int     `json:"buckets"`
}
