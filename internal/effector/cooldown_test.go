package effector

import (
	"context"
	"testing"
	"time"

	"mender/internal/objective"
)

func TestCooldownWindows(t *testing.T) {
	t.Parallel()
	c := NewCooldowns()
	base := time.Now()
	now := base
	c.now = func() time.Time { return now }

	if c.OnCooldown(ActionResearch) {
		t.Fatal("fresh registry should not be on cooldown")
	}

	c.RecordFired(ActionResearch)
	if !c.OnCooldown(ActionResearch) {
		t.Fatal("research should be on cooldown right after firing")
	}

	now = base.Add(9 * time.Minute)
	if !c.OnCooldown(ActionResearch) {
		t.Fatal("research window is 10m; 9m elapsed should still be cooling")
	}
	now = base.Add(10 * time.Minute)
	if c.OnCooldown(ActionResearch) {
		t.Fatal("research should be ready after a full window")
	}
}

func TestCooldownWindowsAreIndependent(t *testing.T) {
	t.Parallel()
	c := NewCooldowns()
	c.RecordFired(ActionSynthesis)
	if c.OnCooldown(ActionPractice) {
		t.Fatal("firing synthesis must not cool down practice")
	}
}

func TestCooldownUnknownActionDefaults(t *testing.T) {
	t.Parallel()
	c := NewCooldowns()
	if got := c.Window(ActionType("daydream")); got != DefaultCooldown {
		t.Fatalf("Window = %v, want default %v", got, DefaultCooldown)
	}
}

func TestCooldownSetWindowOverride(t *testing.T) {
	t.Parallel()
	c := NewCooldowns()
	c.SetWindow(ActionConsolidation, time.Second)
	if got := c.Window(ActionConsolidation); got != time.Second {
		t.Fatalf("Window = %v, want 1s", got)
	}
	c.SetWindow(ActionConsolidation, 0)
	if got := c.Window(ActionConsolidation); got != consolidationCooldown {
		t.Fatalf("Window = %v, want default %v after reset", got, consolidationCooldown)
	}
}

func TestCooldownRemaining(t *testing.T) {
	t.Parallel()
	c := NewCooldowns()
	base := time.Now()
	now := base
	c.now = func() time.Time { return now }

	if got := c.Remaining(ActionPractice); got != 0 {
		t.Fatalf("Remaining = %v before any firing", got)
	}
	c.RecordFired(ActionPractice)
	now = base.Add(4 * time.Minute)
	if got := c.Remaining(ActionPractice); got != 6*time.Minute {
		t.Fatalf("Remaining = %v, want 6m", got)
	}
}

func TestActionForMapping(t *testing.T) {
	t.Parallel()
	tests := []struct {
		typ  objective.Type
		want ActionType
	}{
		{objective.TypeSkillGap, ActionPractice},
		{objective.TypePattern, ActionPractice},
		{objective.TypeCalibration, ActionSynthesis},
		{objective.TypeStrategy, ActionResearch},
		{objective.TypeKnowledge, ActionResearch},
		{objective.Type("mystery"), ActionSynthesis},
	}
	for _, tt := range tests {
		if got := ActionFor(tt.typ); got != tt.want {
			t.Fatalf("ActionFor(%q) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestFuncAdapter(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	called := false
	reg.Register(ActionResearch, Func(func(ctx context.Context, o objective.Objective) error {
		called = true
		return nil
	}))

	e, err := reg.Lookup(ActionResearch)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if err := e.Remediate(context.Background(), objective.Objective{}); err != nil || !called {
		t.Fatalf("Remediate err=%v called=%v", err, called)
	}

	if _, err := reg.Lookup(ActionConsolidation); err == nil {
		t.Fatal("expected error for unregistered capability")
	}
}
