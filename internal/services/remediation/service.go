package remediation

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mender/internal/effector"
	"mender/internal/eventbus"
	"mender/internal/objective"
	"mender/internal/signal"
	"mender/pkg/logx"
)

// Auditor receives finished execution records. Implementations are write-only
// sinks; nothing in the scheduler ever reads them back.
type Auditor interface {
	AppendExecution(ctx context.Context, rec ExecutionRecord) error
}

// Recorder observes tick and generation outcomes for metrics export.
// A nil Recorder is valid.
type Recorder interface {
	TickRan()
	ObjectiveOutcome(kind OutcomeKind)
	ObjectivesGenerated(n int)
	BacklogSize(active int)
}

// Deps are the collaborators the service acts through.
type Deps struct {
	Store     *objective.Store
	Registry  *effector.Registry
	Cooldowns *effector.Cooldowns
	Collector *signal.Collector
	Bus       eventbus.Bus
	Audit     Auditor  // optional
	Metrics   Recorder // optional
}

// Service is the execution scheduler: a timer-driven actor that drains a
// small prioritized batch from the backlog each tick, honoring per-action
// cooldowns. All ticks (timer-driven and forced) are serialized on one mutex,
// so at most one tick is ever in flight.
type Service struct {
	mu  sync.Mutex // cfg + runtime state below
	log logx.Logger
	cfg Config

	store     *objective.Store
	registry  *effector.Registry
	cooldowns *effector.Cooldowns
	collector *signal.Collector
	bus       eventbus.Bus
	audit     Auditor
	metrics   Recorder

	c         *cron.Cron
	tickEntry cron.EntryID
	genEntry  cron.EntryID

	paused          bool
	startedAt       time.Time
	lastExecution   time.Time
	actionsExecuted uint64

	tickMu sync.Mutex // serializes ticks

	hmu     sync.Mutex
	history []ExecutionRecord // newest first

	now func() time.Time
}

func New(cfg Config, deps Deps, log logx.Logger) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		log:       log,
		cfg:       cfg,
		store:     deps.Store,
		registry:  deps.Registry,
		cooldowns: deps.Cooldowns,
		collector: deps.Collector,
		bus:       deps.Bus,
		audit:     deps.Audit,
		metrics:   deps.Metrics,
		paused:    cfg.StartPaused,
		now:       time.Now,
	}
}

// Start registers the tick (and optionally generation) schedules and starts
// the timer. Starting a running service is a no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c != nil {
		return
	}
	if !s.cfg.Enabled {
		s.log.Info("service disabled by config")
		return
	}

	s.startedAt = s.now()
	s.c = cron.New()
	s.registerEntriesLocked(ctx)
	s.c.Start()
	s.log.Info("service started",
		logx.Duration("tick_interval", s.cfg.TickInterval),
		logx.Duration("generate_interval", s.cfg.GenerateInterval),
		logx.Int("batch_size", s.cfg.BatchSize),
		logx.Bool("paused", s.paused))
}

// Stop halts the timer and waits for an in-flight tick to finish.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.tickEntry = 0
	s.genEntry = 0
	s.mu.Unlock()

	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
		// cron jobs finish in background
	}
	s.log.Info("service stopped")
}

// Apply swaps config at runtime. Interval changes re-register the cron
// entries; everything else takes effect on the next tick.
func (s *Service) Apply(ctx context.Context, cfg Config) {
	cfg = cfg.withDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	intervalChanged := cfg.TickInterval != s.cfg.TickInterval ||
		cfg.GenerateInterval != s.cfg.GenerateInterval
	enabledChanged := cfg.Enabled != s.cfg.Enabled
	s.cfg = cfg

	if s.c == nil {
		return
	}
	if enabledChanged && !cfg.Enabled {
		c := s.c
		s.c = nil
		s.tickEntry = 0
		s.genEntry = 0
		go func() { <-c.Stop().Done() }()
		s.log.Info("service disabled via config reload")
		return
	}
	if intervalChanged {
		if s.tickEntry != 0 {
			s.c.Remove(s.tickEntry)
			s.tickEntry = 0
		}
		if s.genEntry != 0 {
			s.c.Remove(s.genEntry)
			s.genEntry = 0
		}
		s.registerEntriesLocked(ctx)
		s.log.Info("schedule intervals reapplied",
			logx.Duration("tick_interval", cfg.TickInterval),
			logx.Duration("generate_interval", cfg.GenerateInterval))
	}
}

// registerEntriesLocked adds the @every entries to the running cron.
// Call with s.mu held and s.c non-nil.
func (s *Service) registerEntriesLocked(ctx context.Context) {
	id, err := s.c.AddFunc("@every "+s.cfg.TickInterval.String(), func() { s.onTimerTick(ctx) })
	if err != nil {
		s.log.Error("tick schedule register failed", logx.Err(err))
	} else {
		s.tickEntry = id
	}

	if s.cfg.GenerateInterval > 0 {
		id, err = s.c.AddFunc("@every "+s.cfg.GenerateInterval.String(), func() { s.onTimerGenerate(ctx) })
		if err != nil {
			s.log.Error("generation schedule register failed", logx.Err(err))
		} else {
			s.genEntry = id
		}
	}
}

// onTimerTick is the cron callback. While paused it is a pure no-op: no
// backlog reads, no history writes.
func (s *Service) onTimerTick(ctx context.Context) {
	s.mu.Lock()
	paused := s.paused
	s.mu.Unlock()
	if paused {
		s.log.Debug("tick skipped (paused)")
		return
	}
	s.runTick(ctx)
}

func (s *Service) onTimerGenerate(ctx context.Context) {
	s.mu.Lock()
	paused := s.paused
	s.mu.Unlock()
	if paused {
		return
	}
	s.Generate()
}

// Generate collects one signal snapshot and feeds it to the store. Safe to
// call at any time, including while paused (manual control surface).
func (s *Service) Generate() []objective.Objective {
	var snap signal.Snapshot
	if s.collector != nil {
		snap = s.collector.Collect()
	}
	batch := s.store.Generate(snap)

	active := s.store.Stats().Active
	if s.metrics != nil {
		s.metrics.ObjectivesGenerated(len(batch))
		s.metrics.BacklogSize(active)
	}
	if s.bus != nil {
		s.bus.Publish(eventbus.Event{
			Type: eventbus.TopicGenerated,
			Data: eventbus.GeneratedEvent{NewObjectives: len(batch), ActiveBacklog: active},
		})
	}
	if len(batch) > 0 {
		s.log.Info("objectives generated", logx.Int("new", len(batch)), logx.Int("active", active))
	}
	return batch
}
