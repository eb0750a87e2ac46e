package storage

import (
	"fmt"
	"strings"

	"mender/pkg/logx"
)

// Validate checks cfg without opening anything. Used by config reload
// validation, where side effects are unwelcome.
func Validate(cfg Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "none":
		return nil
	case "file", "sqlite":
		if strings.TrimSpace(cfg.Path) == "" {
			return fmt.Errorf("%s audit backend requires a path", cfg.Backend)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// Open builds the configured audit backend. An empty or "none" backend yields
// a Noop sink, never an error.
func Open(cfg Config, log logx.Logger) (AuditLog, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "none":
		return Noop{}, nil
	case "file":
		return openFile(cfg, log)
	case "sqlite":
		return openSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
