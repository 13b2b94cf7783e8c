package scenario

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// EventType names an entry of a simulation trace.
type EventType string

const (
	// EventHost declares a host and its buffer capacity.
	EventHost EventType = "host"
	// EventOccupancy pins the reported buffer occupancy of a host.
	EventOccupancy EventType = "occupancy"
	EventCreate    EventType = "create"
	EventStart     EventType = "start"
	EventAbort     EventType = "abort"
	EventComplete  EventType = "complete"
	EventDelete    EventType = "delete"
)

// Event is one timestamped entry of a trace.
type Event struct {
	Time         float64   `json:"time" yaml:"time"`
	Type         EventType `json:"type" yaml:"type"`
	Message      string    `json:"msg,omitempty" yaml:"msg,omitempty"`
	Host         string    `json:"host,omitempty" yaml:"host,omitempty"`
	From         string    `json:"from,omitempty" yaml:"from,omitempty"`
	To           string    `json:"to,omitempty" yaml:"to,omitempty"`
	Size         int64     `json:"size,omitempty" yaml:"size,omitempty"`
	ResponseSize int64     `json:"response_size,omitempty" yaml:"response_size,omitempty"`
	ResponseTo   string    `json:"response_to,omitempty" yaml:"response_to,omitempty"`
	Value        float64   `json:"value,omitempty" yaml:"value,omitempty"`
	Dropped      bool      `json:"dropped,omitempty" yaml:"dropped,omitempty"`
}

// Validate checks that the fields required by the event type are present.
func (e Event) Validate() error {
	switch e.Type {
	case EventHost, EventOccupancy:
		if e.Host == "" {
			return fmt.Errorf("%s event at %v: host required", e.Type, e.Time)
		}
	case EventCreate, EventStart, EventAbort, EventComplete:
		if e.Message == "" || e.From == "" || e.To == "" {
			return fmt.Errorf("%s event at %v: msg, from and to required", e.Type, e.Time)
		}
	case EventDelete:
		if e.Message == "" || e.Host == "" {
			return fmt.Errorf("%s event at %v: msg and host required", e.Type, e.Time)
		}
	default:
		return fmt.Errorf("unknown event type %q at %v", e.Type, e.Time)
	}
	return nil
}

// Host declares a host of a scenario.
type Host struct {
	Name       string `yaml:"name"`
	BufferSize int64  `yaml:"buffer_size"`
}

// Scenario is a hand-written trace: declared hosts plus timestamped events.
type Scenario struct {
	Name        string  `yaml:"name,omitempty"`
	Description string  `yaml:"description,omitempty"`
	EndTime     float64 `yaml:"end_time,omitempty"`
	Hosts       []Host  `yaml:"hosts"`
	Events      []Event `yaml:"events"`
}

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &s, nil
}

// Trace returns the scenario as an ordered event list. Declared hosts come
// first at time zero; events keep their file order among equal times.
func (s *Scenario) Trace() ([]Event, error) {
	out := make([]Event, 0, len(s.Hosts)+len(s.Events))
	for _, h := range s.Hosts {
		out = append(out, Event{Type: EventHost, Host: h.Name, Size: h.BufferSize})
	}
	events := append([]Event(nil), s.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
	out = append(out, events...)
	for _, e := range out {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
