package sim

import (
	"path/filepath"
	"strings"

	"dtnreport/internal/scenario"
)

// Trace is an ordered event list with the time the run should last until.
type Trace struct {
	Events  []scenario.Event
	EndTime float64
}

// LoadTrace reads a YAML scenario (.yaml, .yml) or a JSONL event log (any
// other extension).
func LoadTrace(path string) (*Trace, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err := scenario.Load(path)
		if err != nil {
			return nil, err
		}
		events, err := s.Trace()
		if err != nil {
			return nil, err
		}
		return &Trace{Events: events, EndTime: s.EndTime}, nil
	}
	events, err := scenario.ReadLogFile(path)
	if err != nil {
		return nil, err
	}
	t := &Trace{Events: events}
	if n := len(events); n > 0 {
		t.EndTime = events[n-1].Time
	}
	return t, nil
}
