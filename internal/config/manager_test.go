package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestParseJSON(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{
		"logging": {"level": "debug", "console": true, "file": {"enabled": false, "path": ""}, "alert": {"enabled": false, "min_level": "", "rate_per_min": 0}},
		"remediation": {"enabled": true, "tick_interval": "1m", "batch_size": 2},
		"cooldowns": {"research": "20m"}
	}`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
	if !cfg.Remediation.Enabled || cfg.Remediation.TickInterval != "1m" || cfg.Remediation.BatchSize != 2 {
		t.Fatalf("remediation = %+v", cfg.Remediation)
	}
	if cfg.Cooldowns["research"] != "20m" {
		t.Fatalf("cooldowns = %+v", cfg.Cooldowns)
	}
}

func TestParseYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
logging:
  level: info
  console: true
  file:
    enabled: true
    path: ./mender.log
  alert:
    enabled: false
    min_level: ""
    rate_per_min: 0
remediation:
  enabled: true
  generate_interval: 15m
audit:
  backend: file
  path: ./audit.jsonl
`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Logging.File.Enabled || cfg.Logging.File.Path != "./mender.log" {
		t.Fatalf("logging.file = %+v", cfg.Logging.File)
	}
	if cfg.Remediation.GenerateInterval != "15m" {
		t.Fatalf("generate_interval = %q", cfg.Remediation.GenerateInterval)
	}
	if cfg.Audit == nil || cfg.Audit.Backend != "file" {
		t.Fatalf("audit = %+v", cfg.Audit)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"remediation": {"enabled": true, "tick_intervall": "5m"}}`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected unknown-field error")
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"remediation": {"enabled": true}}{"extra": 1}`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected trailing-data error")
	}
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()
	if d, err := ParseDurationField("x", " 90s "); err != nil || d.Seconds() != 90 {
		t.Fatalf("got %v, %v", d, err)
	}
	if d, err := ParseDurationField("x", ""); err != nil || d != 0 {
		t.Fatalf("empty: got %v, %v", d, err)
	}
	if _, err := ParseDurationField("x", "-5s"); err == nil {
		t.Fatal("expected error for negative duration")
	}
	if _, err := ParseDurationField("x", "nope"); err == nil {
		t.Fatal("expected error for garbage")
	}
	if d, err := ParseDurationOrDefault("x", "", 42); err != nil || d != 42 {
		t.Fatalf("default: got %v, %v", d, err)
	}
}

func TestSubscribePublish(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"remediation": {"enabled": true}}`)
	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	sub := m.Subscribe(1)
	cfg := &Config{Remediation: RemediationConfig{Enabled: false}}
	m.publish(cfg)
	select {
	case got := <-sub:
		if got != cfg {
			t.Fatal("wrong config delivered")
		}
	default:
		t.Fatal("no config delivered")
	}

	// Full buffer drops the oldest, keeps the newest.
	a, b := &Config{}, &Config{}
	m.publish(a)
	m.publish(b)
	if got := <-sub; got != b {
		t.Fatal("expected newest config after overflow")
	}

	m.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatal("expected closed channel after Unsubscribe")
	}
}
