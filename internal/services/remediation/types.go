package remediation

import (
	"time"

	"mender/internal/effector"
)

// historyLimit bounds the execution record ring. Oldest records fall off;
// newest is always first.
const historyLimit = 100

// Config controls the remediation service.
type Config struct {
	Enabled bool
	// TickInterval is the execution period (default 5m).
	TickInterval time.Duration
	// GenerateInterval is the signal-collection period. Zero disables
	// periodic generation; Generate() stays available.
	GenerateInterval time.Duration
	// BatchSize caps objectives attempted per tick (default 3).
	BatchSize int
	// InvokeTimeout bounds one effector invocation (default 60s).
	InvokeTimeout time.Duration
	// StartPaused starts the service with the timer firing but ticks no-oping.
	StartPaused bool
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = 5 * time.Minute
	}
	if c.GenerateInterval < 0 {
		c.GenerateInterval = 0
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 3
	}
	if c.InvokeTimeout <= 0 {
		c.InvokeTimeout = 60 * time.Second
	}
	return c
}

// OutcomeKind tags how one selected objective fared within a tick.
type OutcomeKind string

const (
	OutcomeOK      OutcomeKind = "ok"
	OutcomeError   OutcomeKind = "error"
	OutcomeSkipped OutcomeKind = "skipped"
)

// SkipReasonCooldown is the only skip reason this core produces.
const SkipReasonCooldown = "on_cooldown"

// Outcome is the per-objective result inside an ExecutionRecord.
type Outcome struct {
	Kind      OutcomeKind         `json:"kind"`
	FocusArea string              `json:"focus_area"`
	Action    effector.ActionType `json:"action"`
	Reason    string              `json:"reason,omitempty"`
}

// ExecutionRecord aggregates one tick.
type ExecutionRecord struct {
	Timestamp time.Time `json:"timestamp"`
	// ObjectivesAddressed counts objectives attempted this tick,
	// including cooldown skips.
	ObjectivesAddressed int       `json:"objectives_addressed"`
	Successes           int       `json:"successes"`
	Failures            int       `json:"failures"`
	Outcomes            []Outcome `json:"outcomes"`
}

// Status is the scheduler's operator-facing snapshot.
type Status struct {
	Enabled          bool                                  `json:"enabled"`
	Paused           bool                                  `json:"paused"`
	TickInterval     time.Duration                         `json:"tick_interval"`
	GenerateInterval time.Duration                         `json:"generate_interval"`
	LastExecution    time.Time                             `json:"last_execution"`
	ActionsExecuted  uint64                                `json:"actions_executed"`
	HistoryLen       int                                   `json:"history_len"`
	Uptime           time.Duration                         `json:"uptime"`
	BacklogActive    int                                   `json:"backlog_active"`
	CooldownsLeft    map[effector.ActionType]time.Duration `json:"cooldowns_left"`
}
