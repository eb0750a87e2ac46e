//go:build sqlite
// +build sqlite

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"mender/internal/services/remediation"
	"mender/pkg/logx"
)

const executionsSchema = `
CREATE TABLE IF NOT EXISTS executions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	attempted INTEGER NOT NULL,
	successes INTEGER NOT NULL,
	failures INTEGER NOT NULL,
	outcomes TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS executions_ts ON executions(ts);
`

type sqliteAudit struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (AuditLog, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("sqlite audit path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(executionsSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteAudit{db: db, log: log}, nil
}

func (a *sqliteAudit) AppendExecution(ctx context.Context, rec remediation.ExecutionRecord) error {
	outcomes, err := json.Marshal(rec.Outcomes)
	if err != nil {
		return err
	}
	_, err = a.db.ExecContext(ctx,
		`INSERT INTO executions (ts, attempted, successes, failures, outcomes) VALUES (?, ?, ?, ?, ?)`,
		rec.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		rec.ObjectivesAddressed, rec.Successes, rec.Failures, string(outcomes))
	return err
}

func (a *sqliteAudit) Close() error { return a.db.Close() }
