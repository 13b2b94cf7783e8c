package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadLog decodes a JSONL event log.
func ReadLog(r io.Reader) ([]Event, error) {
	dec := json.NewDecoder(r)
	var events []Event
	for {
		var e Event
		if err := dec.Decode(&e); err != nil {
			if err == io.EOF {
				return events, nil
			}
			return nil, fmt.Errorf("decode event %d: %w", len(events)+1, err)
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if n := len(events); n > 0 && e.Time < events[n-1].Time {
			return nil, fmt.Errorf("event %d at %v precedes previous event at %v", n+1, e.Time, events[n-1].Time)
		}
		events = append(events, e)
	}
}

// ReadLogFile opens a file and decodes its events.
func ReadLogFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLog(f)
}

// LogWriter writes events as JSONL.
type LogWriter struct {
	f   *os.File
	enc *json.Encoder
}

// NewLogWriter creates or truncates path.
func NewLogWriter(path string) (*LogWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &LogWriter{f: f, enc: json.NewEncoder(f)}, nil
}

// WriteEvents appends events to the log.
func (w *LogWriter) WriteEvents(events []Event) error {
	for _, e := range events {
		if err := w.enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (w *LogWriter) Close() error { return w.f.Close() }
