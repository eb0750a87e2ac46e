package core

import (
	"fmt"
	"time"

	"mender/internal/config"
	"mender/internal/effector"
	"mender/internal/services/notify"
	"mender/internal/services/remediation"
	"mender/internal/storage"
	"mender/pkg/logx"
)

func mapLoggingConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Alert: logx.AlertConfig{
			Enabled:    cfg.Logging.Alert.Enabled,
			MinLevel:   cfg.Logging.Alert.MinLevel,
			RatePerMin: cfg.Logging.Alert.RatePerMin,
		},
	}
}

func mapRemediationConfig(cfg *config.Config) (remediation.Config, error) {
	r := cfg.Remediation

	tick, err := config.ParseDurationOrDefault("remediation.tick_interval", r.TickInterval, 5*time.Minute)
	if err != nil {
		return remediation.Config{}, err
	}
	// "" defaults to 10m; an explicit "0s" disables periodic generation.
	gen, err := config.ParseDurationField("remediation.generate_interval", r.GenerateInterval)
	if err != nil {
		return remediation.Config{}, err
	}
	if r.GenerateInterval == "" {
		gen = 10 * time.Minute
	}
	timeout, err := config.ParseDurationOrDefault("remediation.invoke_timeout", r.InvokeTimeout, 60*time.Second)
	if err != nil {
		return remediation.Config{}, err
	}
	if r.BatchSize < 0 {
		return remediation.Config{}, fmt.Errorf("remediation.batch_size must be >= 0")
	}

	return remediation.Config{
		Enabled:          r.Enabled,
		TickInterval:     tick,
		GenerateInterval: gen,
		BatchSize:        r.BatchSize,
		InvokeTimeout:    timeout,
		StartPaused:      r.StartPaused,
	}, nil
}

var knownActions = map[effector.ActionType]bool{
	effector.ActionResearch:      true,
	effector.ActionSynthesis:     true,
	effector.ActionConsolidation: true,
	effector.ActionPractice:      true,
}

// mapCooldownOverrides parses the cooldowns section into per-action windows.
func mapCooldownOverrides(cfg *config.Config) (map[effector.ActionType]time.Duration, error) {
	if len(cfg.Cooldowns) == 0 {
		return nil, nil
	}
	out := make(map[effector.ActionType]time.Duration, len(cfg.Cooldowns))
	for name, raw := range cfg.Cooldowns {
		action := effector.ActionType(name)
		if !knownActions[action] {
			return nil, fmt.Errorf("cooldowns: unknown action %q", name)
		}
		d, err := config.ParseDurationField("cooldowns."+name, raw)
		if err != nil {
			return nil, err
		}
		out[action] = d
	}
	return out, nil
}

func mapNotifierConfig(cfg *config.Config) (notify.Config, error) {
	if cfg.Notifier == nil {
		return notify.Config{}, nil
	}
	n := cfg.Notifier

	retryBase, err := config.ParseDurationField("notifier.retry_base", n.RetryBase)
	if err != nil {
		return notify.Config{}, err
	}
	retryMaxDelay, err := config.ParseDurationField("notifier.retry_max_delay", n.RetryMaxDelay)
	if err != nil {
		return notify.Config{}, err
	}
	dedupWindow, err := config.ParseDurationField("notifier.dedup_window", n.DedupWindow)
	if err != nil {
		return notify.Config{}, err
	}
	if n.Workers < 0 || n.QueueSize < 0 || n.RatePerSec < 0 || n.RetryMax < 0 {
		return notify.Config{}, fmt.Errorf("notifier: counts must be >= 0")
	}

	return notify.Config{
		Enabled:         n.Enabled,
		Workers:         n.Workers,
		QueueSize:       n.QueueSize,
		RatePerSec:      n.RatePerSec,
		RetryMax:        n.RetryMax,
		RetryBase:       retryBase,
		RetryMaxDelay:   retryMaxDelay,
		DedupWindow:     dedupWindow,
		DedupMaxEntries: n.DedupMaxEntries,
	}, nil
}

func mapAuditConfig(cfg *config.Config) storage.Config {
	if cfg.Audit == nil {
		return storage.Config{Backend: "none"}
	}
	return storage.Config{Backend: cfg.Audit.Backend, Path: cfg.Audit.Path}
}

func mapMonitorInterval(cfg *config.Config) (time.Duration, error) {
	return config.ParseDurationOrDefault("monitor.check_interval", cfg.Monitor.CheckInterval, time.Minute)
}
