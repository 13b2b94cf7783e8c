package sim

import (
	"context"
	"fmt"

	"dtnreport/internal/logging"
	"dtnreport/internal/report"
	"dtnreport/internal/scenario"
)

// Run dispatches events in order, emitting update ticks on the
// UpdateInterval grid before each event, and returns the final report text.
// Host declarations are applied without advancing time so that hosts
// declared at time zero are visible to the first tick.
// It stops at the first integrity error or when ctx is done.
func (e *Engine) Run(ctx context.Context, events []scenario.Event) (string, error) {
	log := logging.FromContext(ctx)
	log.Info("starting engine", "events", len(events), "update_interval", e.cfg.UpdateInterval, "end_time", e.cfg.EndTime)

	e.mu.Lock()
	e.total = len(events)
	e.mu.Unlock()

	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			log.Info("stopping engine", "processed", i)
			return "", err
		}
		if now := e.clock.Now(); ev.Time < now {
			return "", fmt.Errorf("event %d (%s) at %v precedes simulated time %v", i, ev.Type, ev.Time, now)
		}
		e.mu.Lock()
		if ev.Type != scenario.EventHost {
			e.advance(ev.Time)
		}
		err := e.dispatch(ev)
		e.processed++
		e.mu.Unlock()
		if err != nil {
			log.Error("event failed", "index", i, "type", ev.Type, "msg_id", ev.Message, "err", err)
			return "", fmt.Errorf("event %d (%s at %v): %w", i, ev.Type, ev.Time, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	end := e.cfg.EndTime
	if now := e.clock.Now(); now > end {
		end = now
	}
	e.advance(end)
	e.done = true
	log.Info("engine finished", "sim_time", end, "ticks", e.ticks, "messages", len(e.messages))
	return e.report(), nil
}

// advance emits every pending tick at or before t and moves the clock to t.
func (e *Engine) advance(t float64) {
	for {
		next := float64(e.ticks) * e.cfg.UpdateInterval
		if next > t {
			break
		}
		e.clock.set(next)
		e.tick(next)
	}
	e.clock.set(t)
}

// tick notifies update listeners with the current host set.
func (e *Engine) tick(now float64) {
	e.ticks++
	hosts := make([]report.Host, len(e.hosts))
	for i, h := range e.hosts {
		hosts[i] = h
	}
	for _, l := range e.updates {
		l.OnTick(now, hosts)
	}
}
