// Package storage provides the write-only execution audit log.
//
// The audit log is an operator artifact: records go out, nothing is ever read
// back into the scheduler, so process state still starts empty on restart.
// Backends: "file" (JSON lines, always available) and "sqlite" (behind the
// sqlite build tag).
package storage
