package remediation

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"mender/internal/effector"
	"mender/internal/eventbus"
	"mender/internal/objective"
	"mender/pkg/logx"
)

// runTick executes one remediation pass: pull the prioritized backlog, take
// the configured batch, and work through it sequentially. The tick mutex
// serializes timer ticks and forced ticks; a forced call during a scheduled
// tick simply queues behind it.
func (s *Service) runTick(ctx context.Context) ExecutionRecord {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.mu.Lock()
	batchSize := s.cfg.BatchSize
	invokeTimeout := s.cfg.InvokeTimeout
	s.mu.Unlock()

	backlog := s.store.Prioritized()
	selected := backlog
	if len(selected) > batchSize {
		selected = selected[:batchSize]
	}

	rec := ExecutionRecord{
		Timestamp:           s.now(),
		ObjectivesAddressed: len(selected),
		Outcomes:            make([]Outcome, 0, len(selected)),
	}

	for _, o := range selected {
		action := effector.ActionFor(o.Type)

		if s.cooldowns.OnCooldown(action) {
			// Skips leave objective status and cooldown state untouched.
			rec.Outcomes = append(rec.Outcomes, Outcome{
				Kind:      OutcomeSkipped,
				FocusArea: o.FocusArea,
				Action:    action,
				Reason:    SkipReasonCooldown,
			})
			s.log.Debug("objective skipped",
				logx.String("focus", o.FocusArea), logx.String("action", string(action)))
			continue
		}

		err := s.invoke(ctx, action, o, invokeTimeout)

		// The action fired (or failed trying); either way the window opens.
		s.cooldowns.RecordFired(action)
		s.mu.Lock()
		s.actionsExecuted++
		s.mu.Unlock()

		if err != nil {
			// Failure is local to this objective; it stays active and is
			// eligible again next tick, bounded only by the shared cooldown.
			rec.Failures++
			rec.Outcomes = append(rec.Outcomes, Outcome{
				Kind:      OutcomeError,
				FocusArea: o.FocusArea,
				Action:    action,
				Reason:    err.Error(),
			})
			s.log.Warn("remediation failed",
				logx.String("focus", o.FocusArea), logx.String("action", string(action)), logx.Err(err))
			continue
		}

		if err := s.store.MarkAddressed(o.ID); err != nil {
			s.log.Warn("mark addressed failed", logx.String("id", o.ID), logx.Err(err))
		}
		rec.Successes++
		rec.Outcomes = append(rec.Outcomes, Outcome{
			Kind:      OutcomeOK,
			FocusArea: o.FocusArea,
			Action:    action,
		})
		s.log.Info("objective remediated",
			logx.String("focus", o.FocusArea), logx.String("action", string(action)))
	}

	s.finishTick(ctx, rec, len(backlog))
	return rec
}

// invoke runs one effector with a bounding timeout and panic containment.
// Nothing an effector does may terminate the scheduling actor.
func (s *Service) invoke(ctx context.Context, action effector.ActionType, o objective.Objective, timeout time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("effector %s panicked: %v", action, r)
			s.log.Error("panic in effector",
				logx.String("action", string(action)),
				logx.Any("panic", r),
				logx.Stack(string(debug.Stack())))
		}
	}()

	e, err := s.registry.Lookup(action)
	if err != nil {
		return err
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return e.Remediate(runCtx, o)
}

// finishTick appends history, ships the record to the audit/metrics/bus
// sinks, and stamps the last execution time.
func (s *Service) finishTick(ctx context.Context, rec ExecutionRecord, backlogActive int) {
	s.hmu.Lock()
	s.history = append([]ExecutionRecord{rec}, s.history...)
	if len(s.history) > historyLimit {
		s.history = s.history[:historyLimit]
	}
	s.hmu.Unlock()

	s.mu.Lock()
	s.lastExecution = rec.Timestamp
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.TickRan()
		for _, o := range rec.Outcomes {
			s.metrics.ObjectiveOutcome(o.Kind)
		}
		s.metrics.BacklogSize(backlogActive - rec.Successes)
	}
	if s.audit != nil {
		if err := s.audit.AppendExecution(ctx, rec); err != nil {
			s.log.Warn("audit append failed", logx.Err(err))
		}
	}
	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: eventbus.TopicTick, Time: rec.Timestamp, Data: rec})
	}

	if rec.ObjectivesAddressed > 0 {
		s.log.Debug("tick finished",
			logx.Int("attempted", rec.ObjectivesAddressed),
			logx.Int("ok", rec.Successes),
			logx.Int("failed", rec.Failures),
			logx.Int("skipped", rec.ObjectivesAddressed-rec.Successes-rec.Failures))
	}
}
