package config

// Config is the on-disk configuration. All durations are Go duration
// strings (e.g. "500ms", "10s", "5m").
type Config struct {
	Logging     LoggingConfig     `json:"logging"`
	Remediation RemediationConfig `json:"remediation"`

	// Cooldowns overrides the per-action cooldown windows, keyed by
	// action name ("research", "synthesis", "consolidation", "practice").
	// Omitted actions keep their built-in windows.
	Cooldowns map[string]string `json:"cooldowns,omitempty"`

	Monitor  MonitorConfig   `json:"monitor,omitempty"`
	Notifier *NotifierConfig `json:"notifier,omitempty"`
	Telegram *TelegramConfig `json:"telegram,omitempty"`
	Audit    *AuditConfig    `json:"audit,omitempty"`
	Debug    DebugConfig     `json:"debug,omitempty"`
}

type LoggingConfig struct {
	Level   string       `json:"level"`
	Console bool         `json:"console"`
	File    LoggingFile  `json:"file"`
	Alert   LoggingAlert `json:"alert"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// LoggingAlert forwards high-severity log lines to the notifier.
type LoggingAlert struct {
	Enabled    bool   `json:"enabled"`
	MinLevel   string `json:"min_level"`
	RatePerMin int    `json:"rate_per_min"`
}

// RemediationConfig controls the background remediation service.
//
// Defaults (when fields are omitted/zero):
//   - tick_interval: "5m"
//   - generate_interval: "10m" ("0s" disables periodic generation)
//   - batch_size: 3
//   - invoke_timeout: "60s"
type RemediationConfig struct {
	Enabled bool `json:"enabled"`

	TickInterval     string `json:"tick_interval,omitempty"`
	GenerateInterval string `json:"generate_interval,omitempty"`
	BatchSize        int    `json:"batch_size,omitempty"`
	InvokeTimeout    string `json:"invoke_timeout,omitempty"`

	StartPaused bool `json:"start_paused,omitempty"`
}

// MonitorConfig controls the health watcher that publishes health
// transitions on the bus and raises operator alerts.
type MonitorConfig struct {
	Enabled bool `json:"enabled"`
	// Interval between health checks. Default "1m".
	CheckInterval string `json:"check_interval,omitempty"`
}

// NotifierConfig controls the async alert pipeline. If the section is
// omitted the notifier stays disabled.
type NotifierConfig struct {
	Enabled         bool   `json:"enabled"`
	Workers         int    `json:"workers,omitempty"`
	QueueSize       int    `json:"queue_size,omitempty"`
	RatePerSec      int    `json:"rate_per_sec,omitempty"`
	RetryMax        int    `json:"retry_max,omitempty"`
	RetryBase       string `json:"retry_base,omitempty"`
	RetryMaxDelay   string `json:"retry_max_delay,omitempty"`
	DedupWindow     string `json:"dedup_window,omitempty"`
	DedupMaxEntries int    `json:"dedup_max_entries,omitempty"`
}

// TelegramConfig points alerts at an operator chat. Send-only; the bot
// never polls.
type TelegramConfig struct {
	Token    string `json:"token"`
	ChatID   int64  `json:"chat_id"`
	ThreadID int    `json:"thread_id,omitempty"`
}

// AuditConfig controls the optional execution audit log.
//
// Example:
//
//	"audit": { "backend": "file", "path": "./mender_audit.jsonl" }
type AuditConfig struct {
	Backend string `json:"backend"`
	Path    string `json:"path,omitempty"`
}

// DebugConfig controls the optional debug HTTP server (pprof + Prometheus).
//
// Security note: prefer binding to localhost.
type DebugConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"` // default: "127.0.0.1:6060"

	// Runtime profiling rates. Leave 0 to keep Go defaults.
	BlockProfileRate     int `json:"block_profile_rate,omitempty"`
	MutexProfileFraction int `json:"mutex_profile_fraction,omitempty"`
}
