package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mender/internal/services/remediation"
	"mender/pkg/logx"
)

func TestOpenBackends(t *testing.T) {
	t.Parallel()
	if _, err := Open(Config{Backend: "none"}, logx.Nop()); err != nil {
		t.Fatalf("none backend: %v", err)
	}
	if _, err := Open(Config{}, logx.Nop()); err != nil {
		t.Fatalf("empty backend: %v", err)
	}
	if _, err := Open(Config{Backend: "carrier-pigeon"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := Open(Config{Backend: "file"}, logx.Nop()); err == nil {
		t.Fatal("expected error for file backend without path")
	}
}

func TestFileAuditAppendsJSONLines(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "audit", "executions.jsonl")
	a, err := Open(Config{Backend: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	recs := []remediation.ExecutionRecord{
		{Timestamp: time.Unix(1700000000, 0), ObjectivesAddressed: 2, Successes: 1, Failures: 1},
		{Timestamp: time.Unix(1700000300, 0), ObjectivesAddressed: 1, Successes: 1},
	}
	for _, rec := range recs {
		if err := a.AppendExecution(ctx, rec); err != nil {
			t.Fatalf("AppendExecution: %v", err)
		}
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open audit file: %v", err)
	}
	defer f.Close()

	var got []remediation.ExecutionRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec remediation.ExecutionRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("bad audit line %q: %v", sc.Text(), err)
		}
		got = append(got, rec)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 audit lines, got %d", len(got))
	}
	if got[0].ObjectivesAddressed != 2 || got[1].Successes != 1 {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestFileAuditAppendAfterClose(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "executions.jsonl")
	a, err := Open(Config{Backend: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := a.AppendExecution(context.Background(), remediation.ExecutionRecord{}); err == nil {
		t.Fatal("expected error appending to closed audit log")
	}
}
