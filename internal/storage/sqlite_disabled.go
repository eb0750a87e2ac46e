//go:build !sqlite
// +build !sqlite

package storage

import (
	"errors"

	"mender/pkg/logx"
)

func openSQLite(cfg Config, log logx.Logger) (AuditLog, error) {
	_ = cfg
	_ = log
	return nil, errors.New("sqlite audit not built: build with -tags sqlite")
}
