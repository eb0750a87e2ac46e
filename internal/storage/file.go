package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mender/internal/services/remediation"
	"mender/pkg/logx"
)

// fileAudit appends one JSON line per execution record. Lines are
// self-contained so the file greps and tails cleanly.
type fileAudit struct {
	log logx.Logger

	mu sync.Mutex
	f  *os.File
}

func openFile(cfg Config, log logx.Logger) (AuditLog, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("file audit path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &fileAudit{log: log, f: f}, nil
}

func (a *fileAudit) AppendExecution(_ context.Context, rec remediation.ExecutionRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.f == nil {
		return errors.New("audit log closed")
	}
	_, err = a.f.Write(b)
	return err
}

func (a *fileAudit) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.f == nil {
		return nil
	}
	err := a.f.Close()
	a.f = nil
	return err
}
