package storage

import (
	"context"
	"errors"

	"mender/internal/services/remediation"
)

// Config selects the audit backend.
type Config struct {
	// Backend is "none", "file", or "sqlite".
	Backend string
	Path    string
}

// AuditLog is an append-only sink for execution records.
type AuditLog interface {
	AppendExecution(ctx context.Context, rec remediation.ExecutionRecord) error
	Close() error
}

var ErrUnknownBackend = errors.New("unknown audit backend")

// Noop discards everything; used when auditing is disabled.
type Noop struct{}

func (Noop) AppendExecution(context.Context, remediation.ExecutionRecord) error { return nil }
func (Noop) Close() error                                                       { return nil }
