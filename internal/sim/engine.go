// Discrete-event engine driving the report listeners
package sim

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"dtnreport/internal/report"
	"dtnreport/internal/scenario"
)

// ErrUnknownMessage is returned when a trace references a message that was
// never created.
var ErrUnknownMessage = errors.New("unknown message")

// EngineConfig configures an Engine.
type EngineConfig struct {
	// UpdateInterval is the spacing of update ticks in simulated seconds.
	UpdateInterval float64
	// EndTime is the earliest time the run stops at. Ticks continue up to
	// it after the last event.
	EndTime float64
	// DefaultBufferSize applies to hosts first seen in a transfer event.
	DefaultBufferSize int64
}

// Status is a point-in-time view of a run.
type Status struct {
	SimTime   float64 `json:"sim_time"`
	Processed int     `json:"processed"`
	Total     int     `json:"total"`
	Ticks     int     `json:"ticks"`
	Hosts     int     `json:"hosts"`
	Messages  int     `json:"messages"`
	Done      bool    `json:"done"`
}

// Engine replays simulation events in time order and notifies the
// registered listeners sequentially.
type Engine struct {
	cfg   EngineConfig
	clock Clock

	hosts    []*Host
	byName   map[string]*Host
	messages map[string]*Message

	updates    []report.UpdateListener
	listeners  []report.MessageListener
	finalizers []report.Finalizer

	ticks     int
	processed int
	total     int
	done      bool
	mu        sync.Mutex
}

// NewEngine creates an engine with an empty host set.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = 1
	}
	return &Engine{
		cfg:      cfg,
		byName:   make(map[string]*Host),
		messages: make(map[string]*Message),
	}
}

// Clock returns the engine's simulated clock.
func (e *Engine) Clock() *Clock { return &e.clock }

// Register adds r to every listener list whose interface it implements.
// Listeners are notified in registration order.
func (e *Engine) Register(r any) error {
	ok := false
	if l, is := r.(report.UpdateListener); is {
		e.updates = append(e.updates, l)
		ok = true
	}
	if l, is := r.(report.MessageListener); is {
		e.listeners = append(e.listeners, l)
		ok = true
	}
	if f, is := r.(report.Finalizer); is {
		e.finalizers = append(e.finalizers, f)
		ok = true
	}
	if !ok {
		return fmt.Errorf("register %T: not a listener", r)
	}
	return nil
}

// AddHost declares a host. Declaring a name twice updates its capacity.
func (e *Engine) AddHost(name string, capacity int64) *Host {
	if h, ok := e.byName[name]; ok {
		if capacity > 0 {
			h.capacity = capacity
		}
		return h
	}
	h := &Host{address: len(e.hosts), name: name, capacity: capacity}
	e.hosts = append(e.hosts, h)
	e.byName[name] = h
	return h
}

// Host returns the host with the given name.
func (e *Engine) Host(name string) (*Host, bool) {
	h, ok := e.byName[name]
	return h, ok
}

func (e *Engine) host(name string) *Host {
	if h, ok := e.byName[name]; ok {
		return h
	}
	return e.AddHost(name, e.cfg.DefaultBufferSize)
}

func (e *Engine) message(ev scenario.Event) (*Message, error) {
	m, ok := e.messages[ev.Message]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", ev.Type, ev.Message, ErrUnknownMessage)
	}
	return m, nil
}

// dispatch applies one event to the engine state and notifies listeners.
func (e *Engine) dispatch(ev scenario.Event) error {
	switch ev.Type {
	case scenario.EventHost:
		e.AddHost(ev.Host, ev.Size)
	case scenario.EventOccupancy:
		e.host(ev.Host).pin(ev.Value)
	case scenario.EventCreate:
		from := e.host(ev.From)
		m := &Message{
			id:           ev.Message,
			from:         from,
			to:           e.host(ev.To),
			size:         ev.Size,
			responseSize: ev.ResponseSize,
			created:      e.clock.Now(),
			path:         []*Host{from},
			request:      e.messages[ev.ResponseTo],
			responseTo:   ev.ResponseTo,
		}
		e.messages[m.id] = m
		from.store(m.size)
		for _, l := range e.listeners {
			l.OnMessageCreated(m)
		}
	case scenario.EventStart, scenario.EventAbort:
		m, err := e.message(ev)
		if err != nil {
			return err
		}
		from, to := e.host(ev.From), e.host(ev.To)
		for _, l := range e.listeners {
			if ev.Type == scenario.EventStart {
				l.OnTransferStarted(m, from, to)
			} else {
				l.OnTransferAborted(m, from, to)
			}
		}
	case scenario.EventComplete:
		m, err := e.message(ev)
		if err != nil {
			return err
		}
		from, to := e.host(ev.From), e.host(ev.To)
		m.path = append(m.path, to)
		from.release(m.size)
		final := to == m.to
		if !final {
			to.store(m.size)
		}
		for _, l := range e.listeners {
			if err := l.OnTransferCompleted(m, from, to, final); err != nil {
				return err
			}
		}
	case scenario.EventDelete:
		m, err := e.message(ev)
		if err != nil {
			return err
		}
		where := e.host(ev.Host)
		where.release(m.size)
		for _, l := range e.listeners {
			l.OnMessageDeleted(m, where, ev.Dropped)
		}
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

// Status returns a snapshot of the run progress.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		SimTime:   e.clock.Now(),
		Processed: e.processed,
		Total:     e.total,
		Ticks:     e.ticks,
		Hosts:     len(e.hosts),
		Messages:  len(e.messages),
		Done:      e.done,
	}
}

// Inspect runs fn while no event is being dispatched. Use it to read
// listener state from another goroutine.
func (e *Engine) Inspect(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// Report renders the current text of every registered finalizer.
func (e *Engine) Report() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.report()
}

func (e *Engine) report() string {
	parts := make([]string, 0, len(e.finalizers))
	for _, f := range e.finalizers {
		parts = append(parts, f.Finalize())
	}
	return strings.Join(parts, "\n")
}
