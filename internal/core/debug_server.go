package core

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mender/internal/config"
	"mender/pkg/logx"
)

func debugDefaults(c config.DebugConfig) config.DebugConfig {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:6060"
	}
	return c
}

// debugServer manages lifecycle for the debug HTTP listener. It serves
// pprof under /debug/pprof/ and Prometheus metrics on /metrics.
type debugServer struct {
	mu   sync.Mutex
	log  logx.Logger
	srv  *http.Server
	ln   net.Listener
	addr string
}

func newDebugServer(log logx.Logger) *debugServer {
	return &debugServer{log: log.With(logx.String("comp", "debug"))}
}

// Apply starts/stops the debug server according to cfg and updates profile rates.
func (p *debugServer) Apply(ctx context.Context, cfg config.DebugConfig) {
	cfg = debugDefaults(cfg)

	// Update global profiling knobs even if the server is disabled.
	runtime.SetBlockProfileRate(cfg.BlockProfileRate)
	runtime.SetMutexProfileFraction(cfg.MutexProfileFraction)

	p.mu.Lock()
	defer p.mu.Unlock()

	if !cfg.Enabled {
		p.stopLocked(ctx)
		return
	}

	if p.srv != nil && p.addr == cfg.Addr {
		return
	}

	p.stopLocked(ctx)
	p.startLocked(cfg)
}

func (p *debugServer) startLocked(cfg config.DebugConfig) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		p.log.Warn("debug listen failed", logx.String("addr", cfg.Addr), logx.Err(err))
		return
	}

	p.srv = srv
	p.ln = ln
	p.addr = ln.Addr().String()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.log.Warn("debug server error", logx.String("addr", p.addr), logx.Err(err))
		}
	}()
	p.log.Info("debug server enabled", logx.String("addr", p.addr))
}

// Stop gracefully shuts down the debug server.
func (p *debugServer) Stop(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked(ctx)
}

func (p *debugServer) stopLocked(ctx context.Context) {
	if p.srv == nil {
		return
	}
	srv := p.srv
	ln := p.ln
	p.srv = nil
	p.ln = nil
	addr := p.addr
	p.addr = ""

	shutdownCtx := ctx
	if shutdownCtx == nil {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		p.log.Warn("debug shutdown error", logx.String("addr", addr), logx.Err(err))
	}
	if ln != nil {
		_ = ln.Close()
	}
	p.log.Info("debug server disabled", logx.String("addr", addr))
}

// Addr reports the actual listen address if running.
func (p *debugServer) Addr() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addr
}
