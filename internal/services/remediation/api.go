package remediation

import (
	"context"
	"time"

	"mender/internal/effector"
)

// ExecuteNow forces one synchronous tick outside the timer. Cooldowns still
// apply, and the tick queues behind any in-flight scheduled tick. A forced
// tick runs even while paused; pausing only silences the timer.
func (s *Service) ExecuteNow(ctx context.Context) ExecutionRecord {
	return s.runTick(ctx)
}

// Pause keeps the timer firing but turns ticks into no-ops.
func (s *Service) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
	s.log.Info("execution paused")
}

func (s *Service) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	s.log.Info("execution resumed")
}

// History returns a copy of the bounded record buffer, newest first.
func (s *Service) History() []ExecutionRecord {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	out := make([]ExecutionRecord, len(s.history))
	copy(out, s.history)
	return out
}

// Status reports the scheduler's operator snapshot.
func (s *Service) Status() Status {
	s.mu.Lock()
	st := Status{
		Enabled:          s.cfg.Enabled,
		Paused:           s.paused,
		TickInterval:     s.cfg.TickInterval,
		GenerateInterval: s.cfg.GenerateInterval,
		LastExecution:    s.lastExecution,
		ActionsExecuted:  s.actionsExecuted,
	}
	startedAt := s.startedAt
	now := s.now()
	s.mu.Unlock()

	if !startedAt.IsZero() {
		st.Uptime = now.Sub(startedAt)
	}

	s.hmu.Lock()
	st.HistoryLen = len(s.history)
	s.hmu.Unlock()

	st.BacklogActive = s.store.Stats().Active

	st.CooldownsLeft = map[effector.ActionType]time.Duration{}
	for _, a := range []effector.ActionType{
		effector.ActionResearch, effector.ActionSynthesis,
		effector.ActionConsolidation, effector.ActionPractice,
	} {
		st.CooldownsLeft[a] = s.cooldowns.Remaining(a)
	}
	return st
}
