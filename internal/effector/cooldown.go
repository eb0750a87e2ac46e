package effector

import (
	"sync"
	"time"
)

// Default per-action cooldown windows. Any action without an explicit window
// uses DefaultCooldown.
const (
	DefaultCooldown       = 10 * time.Minute
	researchCooldown      = 10 * time.Minute
	synthesisCooldown     = 15 * time.Minute
	consolidationCooldown = 30 * time.Minute
	practiceCooldown      = 10 * time.Minute
)

func defaultWindows() map[ActionType]time.Duration {
	return map[ActionType]time.Duration{
		ActionResearch:      researchCooldown,
		ActionSynthesis:     synthesisCooldown,
		ActionConsolidation: consolidationCooldown,
		ActionPractice:      practiceCooldown,
	}
}

// Cooldowns rate-limits actions per type, independent of objective identity
// or backlog size. State is process-scoped and starts cold on every restart.
//
// Timestamps come from time.Now(), whose monotonic reading makes the
// comparisons immune to wall-clock adjustments.
type Cooldowns struct {
	mu        sync.Mutex
	windows   map[ActionType]time.Duration
	lastFired map[ActionType]time.Time

	now func() time.Time
}

func NewCooldowns() *Cooldowns {
	return &Cooldowns{
		windows:   defaultWindows(),
		lastFired: map[ActionType]time.Time{},
		now:       time.Now,
	}
}

// SetWindow overrides one action's window (config hot reload). Non-positive
// durations reset the action to its default.
func (c *Cooldowns) SetWindow(action ActionType, window time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if window <= 0 {
		def, ok := defaultWindows()[action]
		if !ok {
			def = DefaultCooldown
		}
		c.windows[action] = def
		return
	}
	c.windows[action] = window
}

// Window reports the effective window for an action.
func (c *Cooldowns) Window(action ActionType) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.windowLocked(action)
}

func (c *Cooldowns) windowLocked(action ActionType) time.Duration {
	if w, ok := c.windows[action]; ok && w > 0 {
		return w
	}
	return DefaultCooldown
}

// OnCooldown reports whether the action fired more recently than its window.
func (c *Cooldowns) OnCooldown(action ActionType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	last, ok := c.lastFired[action]
	if !ok {
		return false
	}
	return c.now().Sub(last) < c.windowLocked(action)
}

// RecordFired stamps the action as fired now.
func (c *Cooldowns) RecordFired(action ActionType) {
	c.mu.Lock()
	c.lastFired[action] = c.now()
	c.mu.Unlock()
}

// Remaining reports how long until the action may fire again (0 when ready).
// Used by status reporting only.
func (c *Cooldowns) Remaining(action ActionType) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	last, ok := c.lastFired[action]
	if !ok {
		return 0
	}
	rem := c.windowLocked(action) - c.now().Sub(last)
	if rem < 0 {
		return 0
	}
	return rem
}
