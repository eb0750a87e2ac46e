package core

import (
	"context"
	"fmt"
	"time"

	"mender/internal/adapters/telegram"
	"mender/internal/config"
	"mender/internal/effector"
	"mender/internal/eventbus"
	"mender/internal/metrics"
	"mender/internal/objective"
	"mender/internal/services/monitor"
	"mender/internal/services/notify"
	"mender/internal/services/remediation"
	"mender/internal/signal"
	"mender/internal/storage"
	"mender/pkg/logx"
)

// App wires the remediation pipeline: config, logging, backlog, scheduler,
// monitor, notifier, audit and the debug server. Hosts embed it, register
// their effectors and signal source, then Start().
type App struct {
	cfgPath string

	cfgm *config.Manager
	sup  *Supervisor

	log  logx.Logger
	logs *logx.Service
	bus  eventbus.Bus

	store     *objective.Store
	registry  *effector.Registry
	cooldowns *effector.Cooldowns
	collector *signal.Collector

	remed *remediation.Service
	mon   *monitor.Monitor
	notif *notify.Service
	audit storage.AuditLog
	debug *debugServer

	checkInterval time.Duration
}

// NewApp loads config and builds the component graph. src may be nil; the
// collector then yields empty snapshots and generation produces nothing.
func NewApp(cfgPath string, src signal.Source) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	// Bootstrap with alerts disabled: the alert sink target (notifier) does
	// not exist yet. Final config is re-applied once it does.
	baseLogCfg := mapLoggingConfig(cfg)
	bootLogCfg := baseLogCfg
	bootLogCfg.Alert.Enabled = false
	logSvc, log := logx.New(bootLogCfg)
	log = log.With(logx.String("comp", "app"))

	bus := eventbus.New()

	audit, err := storage.Open(mapAuditConfig(cfg), log.With(logx.String("comp", "audit")))
	if err != nil {
		return nil, err
	}

	store := objective.NewStore(log.With(logx.String("comp", "store")))
	registry := effector.NewRegistry()
	cooldowns := effector.NewCooldowns()

	windows, err := mapCooldownOverrides(cfg)
	if err != nil {
		return nil, err
	}
	for action, d := range windows {
		cooldowns.SetWindow(action, d)
	}

	collector := signal.NewCollector(src, log.With(logx.String("comp", "signal")))

	// Notifier. With no telegram section alerts go to the log, which keeps
	// the pipeline (dedup, pacing, history) active for embedded hosts.
	ncfg, err := mapNotifierConfig(cfg)
	if err != nil {
		return nil, err
	}
	var sender notify.Sender
	if cfg.Telegram != nil {
		ad, err := telegram.New(telegram.Config{
			Token:    cfg.Telegram.Token,
			ChatID:   cfg.Telegram.ChatID,
			ThreadID: cfg.Telegram.ThreadID,
		}, log.With(logx.String("comp", "telegram")))
		if err != nil {
			return nil, err
		}
		sender = ad
	} else {
		alog := log.With(logx.String("comp", "alert"))
		sender = notify.SenderFunc(func(_ context.Context, text string) error {
			alog.Info(text)
			return nil
		})
	}
	notif := notify.New(ncfg, sender, log.With(logx.String("comp", "notifier")), bus)

	// Forward high-severity log lines into the notifier, then enable alerts.
	logSvc.SetAlertFunc(func(level logx.Level, line string) {
		sev := notify.SeverityWarning
		if level >= logx.LevelError {
			sev = notify.SeverityCritical
		}
		_ = notif.Send(context.Background(), notify.Alert{Severity: sev, Topic: "log", Text: line})
	})
	logSvc.Apply(baseLogCfg)

	rcfg, err := mapRemediationConfig(cfg)
	if err != nil {
		return nil, err
	}
	remed := remediation.New(rcfg, remediation.Deps{
		Store:     store,
		Registry:  registry,
		Cooldowns: cooldowns,
		Collector: collector,
		Bus:       bus,
		Audit:     audit,
		Metrics:   metrics.Recorder{},
	}, log.With(logx.String("comp", "remediation")))

	mon := monitor.New(store, remed, collector, log.With(logx.String("comp", "monitor")))

	checkInterval, err := mapMonitorInterval(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		cfgPath:       cfgPath,
		cfgm:          cfgm,
		log:           log,
		logs:          logSvc,
		bus:           bus,
		store:         store,
		registry:      registry,
		cooldowns:     cooldowns,
		collector:     collector,
		remed:         remed,
		mon:           mon,
		notif:         notif,
		audit:         audit,
		debug:         newDebugServer(log),
		checkInterval: checkInterval,
	}, nil
}

// Effectors exposes the capability registry so hosts can register their
// remediation actions before Start().
func (a *App) Effectors() *effector.Registry { return a.registry }

func (a *App) Remediation() *remediation.Service { return a.remed }
func (a *App) Monitor() *monitor.Monitor         { return a.mon }
func (a *App) Bus() eventbus.Bus                 { return a.bus }
func (a *App) Logger() logx.Logger               { return a.log }

// Done is closed when the app supervisor context is canceled (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = NewSupervisor(ctx, WithLogger(a.log), WithCancelOnError(true))

	// Transactional config reload: validate before commit/publish.
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		if _, err := mapRemediationConfig(cfg); err != nil {
			return err
		}
		if _, err := mapCooldownOverrides(cfg); err != nil {
			return err
		}
		if _, err := mapNotifierConfig(cfg); err != nil {
			return err
		}
		if _, err := mapMonitorInterval(cfg); err != nil {
			return err
		}
		if err := storage.Validate(mapAuditConfig(cfg)); err != nil {
			return err
		}
		return nil
	})

	if a.notif.Enabled() {
		a.notif.Start(a.sup.Context())
	}
	a.remed.Start(a.sup.Context())
	if cfg := a.cfgm.Get(); cfg != nil {
		a.debug.Apply(a.sup.Context(), cfg.Debug)
	}

	a.startHealthWatch()
	a.startEventLog()
	a.startConfigReload()

	a.sup.Go("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})

	a.log.Info("app started")
	return nil
}

// startHealthWatch periodically summarizes progress and, on health
// transitions, publishes a bus event and raises an operator alert.
func (a *App) startHealthWatch() {
	cfg := a.cfgm.Get()
	if cfg == nil || !cfg.Monitor.Enabled {
		return
	}
	interval := a.checkInterval

	a.sup.Go0("monitor.watch", func(c context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last monitor.Health
		for {
			select {
			case <-c.Done():
				return
			case <-ticker.C:
				sum := a.mon.Summary()
				if sum.Health == last {
					continue
				}
				prev := last
				last = sum.Health

				a.bus.Publish(eventbus.Event{
					Type: eventbus.TopicHealth,
					Data: eventbus.HealthEvent{
						Health:         string(sum.Health),
						Previous:       string(prev),
						CompletionRate: sum.CompletionRate,
						Active:         sum.Active,
					},
				})

				if prev == "" {
					// First observation is a baseline, not a transition.
					continue
				}
				sev := notify.SeverityInfo
				switch sum.Health {
				case monitor.HealthOverwhelmed:
					sev = notify.SeverityCritical
				case monitor.HealthSlow, monitor.HealthModerate:
					sev = notify.SeverityWarning
				}
				text := fmt.Sprintf("remediation health %s -> %s (completion %.0f%%, %d active)",
					prev, sum.Health, sum.CompletionRate*100, sum.Active)
				if err := a.notif.Send(c, notify.Alert{Severity: sev, Topic: "health", Text: text}); err != nil {
					a.log.Debug("health alert not delivered", logx.Err(err))
				}
			}
		}
	})
}

// startEventLog mirrors bus traffic into debug logs for observability.
func (a *App) startEventLog() {
	events, unsub := a.bus.Subscribe(128)
	a.sup.Go0("eventbus.log", func(c context.Context) {
		defer unsub()
		for {
			select {
			case <-c.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				a.log.Debug("event", logx.String("type", e.Type), logx.Time("time", e.Time))
			}
		}
	})
}

// startConfigReload applies published config updates to live services.
func (a *App) startConfigReload() {
	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				// Coalesce bursts: keep only the latest config in the channel.
				for {
					select {
					case newer := <-sub:
						if newer != nil {
							newCfg = newer
						}
					default:
						goto APPLY
					}
				}
			APPLY:
				a.applyConfig(c, newCfg)
			}
		}
	})
}

func (a *App) applyConfig(ctx context.Context, cfg *config.Config) {
	// Logging first so following apply steps log at the new level.
	a.logs.Apply(mapLoggingConfig(cfg))

	if rcfg, err := mapRemediationConfig(cfg); err != nil {
		a.log.Warn("invalid remediation config; keeping previous", logx.Err(err))
	} else {
		a.remed.Apply(ctx, rcfg)
	}

	if windows, err := mapCooldownOverrides(cfg); err != nil {
		a.log.Warn("invalid cooldowns config; keeping previous", logx.Err(err))
	} else {
		for action, d := range windows {
			a.cooldowns.SetWindow(action, d)
		}
	}

	if ncfg, err := mapNotifierConfig(cfg); err != nil {
		a.log.Warn("invalid notifier config; keeping previous", logx.Err(err))
	} else {
		prevEnabled := a.notif.Enabled()
		a.notif.Apply(ncfg)
		if prevEnabled && !ncfg.Enabled {
			a.log.Info("notifier disabled via config")
			stopCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			a.notif.Stop(stopCtx)
			cancel()
		} else if !prevEnabled && ncfg.Enabled {
			a.log.Info("notifier enabled via config")
			a.notif.Start(ctx)
		}
	}

	a.debug.Apply(ctx, cfg.Debug)

	if cfg.Audit != nil {
		a.log.Warn("audit config changed; restart required for changes to take effect")
	}

	a.log.Info("config reloaded")
}

func (a *App) Stop(ctx context.Context) error {
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping")

	// Cancel the run context so background loops start unwinding immediately.
	a.sup.Cancel()

	// Run one shutdown step with an upper bound so a single component
	// can't stall the whole stop.
	step := func(name string, max time.Duration, fn func(context.Context) error) {
		start := time.Now()

		stepCtx := ctx
		var cancel context.CancelFunc
		if max > 0 {
			// respect the caller's deadline; never extend it
			if dl, ok := ctx.Deadline(); ok {
				rem := time.Until(dl)
				if rem <= 0 {
					max = 0
				} else if rem < max {
					max = rem
				}
			}
			if max > 0 {
				stepCtx, cancel = context.WithTimeout(ctx, max)
				defer cancel()
			}
		}

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("panic in stop step %s: %v", name, r)
				}
			}()
			done <- fn(stepCtx)
		}()

		select {
		case err := <-done:
			if err != nil {
				a.log.Warn("stop step error", logx.String("name", name), logx.Err(err))
			}
			a.log.Debug("stop step end", logx.String("name", name), logx.Duration("took", time.Since(start)))
		case <-stepCtx.Done():
			a.log.Warn("stop step deadline reached (continuing)",
				logx.String("name", name),
				logx.Duration("elapsed", time.Since(start)))
		}
	}

	step("remediation", 3*time.Second, func(c context.Context) error { a.remed.Stop(c); return nil })
	step("debug", time.Second, func(c context.Context) error { a.debug.Stop(c); return nil })
	step("notifier", 2*time.Second, func(c context.Context) error { a.notif.Stop(c); return nil })
	step("audit", time.Second, func(context.Context) error { return a.audit.Close() })
	step("supervisor", 2*time.Second, func(c context.Context) error { return a.sup.Wait(c) })

	a.log.Info("stopped")
	if a.logs != nil {
		_ = a.logs.Close()
	}
	return nil
}
