package notify

import (
	"context"
	"time"
)

// Severity ranks an alert. Higher severities get louder prefixes and
// survive dedup less often.
type Severity int

const (
	SeverityInfo     Severity = 3
	SeverityWarning  Severity = 6
	SeverityCritical Severity = 9
)

// Alert is one message bound for the operator channel.
type Alert struct {
	Severity Severity
	Topic    string // e.g. "health", "log", "tick"
	Text     string
}

// Sender delivers alert text to wherever the operator watches. Adapters
// own their target configuration; the notifier only formats and paces.
type Sender interface {
	SendText(ctx context.Context, text string) error
}

// SenderFunc adapts a plain function to Sender.
type SenderFunc func(ctx context.Context, text string) error

func (f SenderFunc) SendText(ctx context.Context, text string) error { return f(ctx, text) }

type Config struct {
	Enabled bool

	Workers    int
	QueueSize  int
	RatePerSec int

	RetryMax      int
	RetryBase     time.Duration
	RetryMaxDelay time.Duration

	// DedupWindow suppresses identical alerts inside the window. Zero
	// disables dedup.
	DedupWindow     time.Duration
	DedupMaxEntries int
}

// HistoryItem records a successfully delivered alert.
type HistoryItem struct {
	At       time.Time `json:"at"`
	Severity Severity  `json:"severity"`
	Topic    string    `json:"topic"`
	Text     string    `json:"text"`
}

// Event types published on the bus by the notifier.
const (
	EventQueued  = "notify.queued"
	EventSent    = "notify.sent"
	EventFailed  = "notify.failed"
	EventDropped = "notify.dropped"
	EventDeduped = "notify.deduped"
)

// AlertEvent is the bus payload for the notify.* event types.
type AlertEvent struct {
	Topic    string    `json:"topic"`
	Severity Severity  `json:"severity"`
	Key      string    `json:"key,omitempty"`
	At       time.Time `json:"at"`
	Error    string    `json:"error,omitempty"`
}
