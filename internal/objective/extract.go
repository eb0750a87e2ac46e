package objective

import (
	"fmt"
	"sort"
	"strings"

	"mender/internal/signal"
)

// Extractors run in a fixed order; batch dedup by focus area is
// first-writer-wins, so this order is load-bearing.
var extractors = []func(signal.Snapshot) []Objective{
	extractCalibration,
	extractStrategy,
	extractEvolution,
	extractError,
}

// extractCalibration emits one objective per calibration warning.
// Overconfidence is the dangerous direction, so it outranks the rest.
func extractCalibration(snap signal.Snapshot) []Objective {
	out := make([]Objective, 0, len(snap.CalibrationWarnings))
	for _, w := range snap.CalibrationWarnings {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		urgency := UrgencyMedium
		if strings.Contains(strings.ToLower(w), "overconfident") {
			urgency = UrgencyHigh
		}
		out = append(out, Objective{
			Type:        TypeCalibration,
			FocusArea:   "calibration:" + w,
			Description: "Confidence calibration drift: " + w,
			Source:      "calibration_monitor",
			Urgency:     urgency,
			ImpactScore: 0.7,
			RecommendedActions: []string{
				"review recent confidence assignments against outcomes",
				"synthesize calibration rules from mismatched predictions",
			},
		})
	}
	return out
}

// extractStrategy emits one objective per high-priority meta-insight
// recommendation.
func extractStrategy(snap signal.Snapshot) []Objective {
	out := make([]Objective, 0, len(snap.Insights.HighPriority))
	for _, rec := range snap.Insights.HighPriority {
		param := strings.TrimSpace(rec.Parameter)
		if param == "" {
			continue
		}
		out = append(out, Objective{
			Type:      TypeStrategy,
			FocusArea: param,
			Description: fmt.Sprintf("Strategy parameter %q underperforming: %s (current %s, suggested %s)",
				param, rec.Reason, rec.Current, rec.Suggested),
			Source:      "meta_insights",
			Urgency:     UrgencyMedium,
			ImpactScore: 0.6,
			RecommendedActions: []string{
				"research outcomes under the suggested parameter value",
				"trial the suggested value on low-stakes tasks",
			},
		})
	}
	return out
}

// extractEvolution emits one objective per component scoring below 0.5.
// Map iteration order is random, so components are walked sorted by name to
// keep batches reproducible.
func extractEvolution(snap signal.Snapshot) []Objective {
	names := make([]string, 0, len(snap.Evolution.Components))
	for name := range snap.Evolution.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Objective
	for _, name := range names {
		score := snap.Evolution.Components[name]
		if score >= 0.5 {
			continue
		}
		urgency := UrgencyHigh
		if score < 0.3 {
			urgency = UrgencyCritical
		}
		out = append(out, Objective{
			Type:        TypeKnowledge,
			FocusArea:   "evolution:" + name,
			Description: fmt.Sprintf("Evolution component %q scoring %.2f", name, score),
			Source:      "evolution_tracker",
			Urgency:     urgency,
			ImpactScore: clamp01(1 - score),
			RecommendedActions: []string{
				"research weaknesses behind the " + name + " component",
				"consolidate related memories to reinforce the component",
			},
		})
	}
	return out
}

// extractError emits one objective per category with enough samples
// (>= 10) and a success rate below 0.7.
func extractError(snap signal.Snapshot) []Objective {
	names := make([]string, 0, len(snap.Accuracy))
	for name := range snap.Accuracy {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Objective
	for _, name := range names {
		acc := snap.Accuracy[name]
		if acc.Total < 10 || acc.SuccessRate >= 0.7 {
			continue
		}
		urgency := UrgencyHigh
		if acc.SuccessRate < 0.5 {
			urgency = UrgencyCritical
		}
		out = append(out, Objective{
			Type:      TypeSkillGap,
			FocusArea: name,
			Description: fmt.Sprintf("Category %q succeeding only %.0f%% over %d samples",
				name, acc.SuccessRate*100, acc.Total),
			Source:      "error_analysis",
			Urgency:     urgency,
			ImpactScore: clamp01(1 - acc.SuccessRate),
			RecommendedActions: []string{
				"practice " + name + " tasks with known answers",
				"research common failure modes in the " + name + " category",
			},
		})
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
