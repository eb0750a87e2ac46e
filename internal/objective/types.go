// Package objective owns the remediation backlog: it turns signal snapshots
// into prioritized objectives and tracks their active/addressed lifecycle.
package objective

import (
	"errors"
	"time"
)

// Type classifies what kind of weakness an objective remediates.
type Type string

const (
	TypeSkillGap    Type = "skill_gap"
	TypeCalibration Type = "calibration"
	TypeStrategy    Type = "strategy"
	TypePattern     Type = "pattern"
	TypeKnowledge   Type = "knowledge"
)

// Urgency is an ordinal priority class used only for ordering.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// Rank maps urgency onto its sort position: critical=0, high=1, everything
// else (medium/low/unknown) 2.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyHigh:
		return 1
	default:
		return 2
	}
}

// Status is the persisted lifecycle state. "stuck" is a query-time label
// computed by the monitor and is deliberately not a Status value.
type Status string

const (
	StatusActive    Status = "active"
	StatusAddressed Status = "addressed"
)

// Objective is a structured, prioritizable unit of remediation derived from a
// performance signal.
type Objective struct {
	ID                 string    `json:"id"`
	Type               Type      `json:"type"`
	FocusArea          string    `json:"focus_area"`
	Description        string    `json:"description"`
	Source             string    `json:"source"`
	Urgency            Urgency   `json:"urgency"`
	ImpactScore        float64   `json:"impact_score"` // normalized to [0,1]
	RecommendedActions []string  `json:"recommended_actions"`
	Status             Status    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

// Stats is a point-in-time census of everything ever stored.
type Stats struct {
	Total     int             `json:"total"`
	Active    int             `json:"active"`
	Addressed int             `json:"addressed"`
	ByType    map[Type]int    `json:"by_type"`
	ByUrgency map[Urgency]int `json:"by_urgency"`

	// MarkedTotal counts MarkAddressed calls, not addressed objectives.
	// Marking the same id twice counts twice.
	MarkedTotal int `json:"marked_total"`
}

// ErrNotFound is returned by MarkAddressed for an unknown objective id.
var ErrNotFound = errors.New("objective not found")
