package core

import (
	"testing"
	"time"

	"mender/internal/config"
	"mender/internal/effector"
)

func TestMapRemediationConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{Remediation: config.RemediationConfig{Enabled: true}}
	rc, err := mapRemediationConfig(cfg)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if rc.TickInterval != 5*time.Minute {
		t.Fatalf("tick = %v", rc.TickInterval)
	}
	if rc.GenerateInterval != 10*time.Minute {
		t.Fatalf("generate = %v", rc.GenerateInterval)
	}
	if rc.InvokeTimeout != 60*time.Second {
		t.Fatalf("timeout = %v", rc.InvokeTimeout)
	}
}

func TestMapRemediationConfigExplicitZeroDisablesGeneration(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{Remediation: config.RemediationConfig{
		Enabled:          true,
		GenerateInterval: "0s",
	}}
	rc, err := mapRemediationConfig(cfg)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if rc.GenerateInterval != 0 {
		t.Fatalf("generate = %v, want 0", rc.GenerateInterval)
	}
}

func TestMapRemediationConfigRejectsBadDuration(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{Remediation: config.RemediationConfig{TickInterval: "soon"}}
	if _, err := mapRemediationConfig(cfg); err == nil {
		t.Fatal("expected error")
	}
}

func TestMapCooldownOverrides(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{Cooldowns: map[string]string{
		"research": "20m",
		"practice": "90s",
	}}
	windows, err := mapCooldownOverrides(cfg)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if windows[effector.ActionResearch] != 20*time.Minute {
		t.Fatalf("research = %v", windows[effector.ActionResearch])
	}
	if windows[effector.ActionPractice] != 90*time.Second {
		t.Fatalf("practice = %v", windows[effector.ActionPractice])
	}

	bad := &config.Config{Cooldowns: map[string]string{"meditate": "5m"}}
	if _, err := mapCooldownOverrides(bad); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestMapNotifierConfig(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{Notifier: &config.NotifierConfig{
		Enabled:     true,
		RatePerSec:  5,
		DedupWindow: "2m",
	}}
	nc, err := mapNotifierConfig(cfg)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if !nc.Enabled || nc.RatePerSec != 5 || nc.DedupWindow != 2*time.Minute {
		t.Fatalf("notifier = %+v", nc)
	}

	// Omitted section means disabled.
	nc, err = mapNotifierConfig(&config.Config{})
	if err != nil || nc.Enabled {
		t.Fatalf("omitted: %+v, %v", nc, err)
	}
}

func TestMapAuditConfig(t *testing.T) {
	t.Parallel()
	sc := mapAuditConfig(&config.Config{})
	if sc.Backend != "none" {
		t.Fatalf("backend = %q", sc.Backend)
	}
	sc = mapAuditConfig(&config.Config{Audit: &config.AuditConfig{Backend: "file", Path: "x.jsonl"}})
	if sc.Backend != "file" || sc.Path != "x.jsonl" {
		t.Fatalf("audit = %+v", sc)
	}
}
