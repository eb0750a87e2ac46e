// Package effector defines the remediation capabilities the scheduler invokes
// and the per-action cooldown bookkeeping that rate-limits them.
package effector

import (
	"context"
	"fmt"
	"sync"

	"mender/internal/objective"
)

// ActionType names one remediation capability.
type ActionType string

const (
	ActionResearch      ActionType = "research"
	ActionSynthesis     ActionType = "synthesis"
	ActionConsolidation ActionType = "consolidation"
	ActionPractice      ActionType = "practice"
)

// ActionFor maps an objective type onto the capability that remediates it.
// Unknown types fall back to synthesis.
func ActionFor(t objective.Type) ActionType {
	switch t {
	case objective.TypeSkillGap, objective.TypePattern:
		return ActionPractice
	case objective.TypeCalibration:
		return ActionSynthesis
	case objective.TypeStrategy, objective.TypeKnowledge:
		return ActionResearch
	default:
		return ActionSynthesis
	}
}

// Effector acts on one objective. Implementations may call into memory
// stores or model completion; they are expected to self-bound, and the
// scheduler additionally applies an invocation timeout.
type Effector interface {
	Remediate(ctx context.Context, o objective.Objective) error
}

// Func adapts a plain function to the Effector interface.
type Func func(ctx context.Context, o objective.Objective) error

func (f Func) Remediate(ctx context.Context, o objective.Objective) error { return f(ctx, o) }

// Registry holds the configured capability set. Registration happens during
// wiring; lookups are concurrent.
type Registry struct {
	mu  sync.RWMutex
	set map[ActionType]Effector
}

func NewRegistry() *Registry {
	return &Registry{set: map[ActionType]Effector{}}
}

func (r *Registry) Register(action ActionType, e Effector) {
	if e == nil {
		return
	}
	r.mu.Lock()
	r.set[action] = e
	r.mu.Unlock()
}

// Lookup returns the effector for an action, or an error when the capability
// is not wired. A missing capability is an effector failure from the
// scheduler's point of view, never a crash.
func (r *Registry) Lookup(action ActionType) (Effector, error) {
	r.mu.RLock()
	e := r.set[action]
	r.mu.RUnlock()
	if e == nil {
		return nil, fmt.Errorf("no effector registered for action %q", action)
	}
	return e, nil
}
