// Package signal defines the performance-signal capability consumed by the
// objective store, plus a collector that shields callers from failing sources.
package signal

// CategoryAccuracy summarizes classification outcomes for one category.
type CategoryAccuracy struct {
	Total       int     `json:"total"`
	SuccessRate float64 `json:"success_rate"`
}

// Recommendation is a single high-priority tuning suggestion from the
// meta-insight source.
type Recommendation struct {
	Parameter string `json:"parameter"`
	Current   string `json:"current"`
	Suggested string `json:"suggested"`
	Reason    string `json:"reason"`
}

// MetaInsights carries the subset of meta-insight output the store consumes.
type MetaInsights struct {
	HighPriority []Recommendation `json:"high_priority_recommendations"`
}

// EvolutionScore reports the agent's self-evolution assessment.
// Component scores are normalized to [0,1].
type EvolutionScore struct {
	OverallScore float64            `json:"overall_score"`
	Level        string             `json:"level"`
	Components   map[string]float64 `json:"components"`
}

// Snapshot is one point-in-time read of all performance signals.
// Zero values are valid and mean "nothing to report".
type Snapshot struct {
	CalibrationWarnings []string
	Accuracy            map[string]CategoryAccuracy
	Insights            MetaInsights
	Evolution           EvolutionScore
}

// Source is the capability interface external signal producers implement.
// Implementations may fail or block briefly; callers go through Collector,
// which turns any failure into an empty default.
type Source interface {
	CalibrationWarnings() ([]string, error)
	ClassificationAccuracy() (map[string]CategoryAccuracy, error)
	MetaInsights() (MetaInsights, error)
	EvolutionScore() (EvolutionScore, error)
}
