package sim

import "dtnreport/internal/report"

// Message is the engine's record of a message in flight.
type Message struct {
	id           string
	from         *Host
	to           *Host
	size         int64
	responseSize int64
	created      float64
	path         []*Host
	request      *Message
	responseTo   string
}

var _ report.Message = (*Message)(nil)

func (m *Message) ID() string            { return m.id }
func (m *Message) CreationTime() float64 { return m.created }
func (m *Message) IsResponse() bool      { return m.responseTo != "" }
func (m *Message) ExpectsResponse() bool { return m.responseSize > 0 }

// HopPath returns the hosts visited so far, source first.
func (m *Message) HopPath() []report.Host {
	out := make([]report.Host, len(m.path))
	for i, h := range m.path {
		out[i] = h
	}
	return out
}

// Request returns the originating request of a response, or nil when it is
// unknown.
func (m *Message) Request() report.Message {
	if m.request == nil {
		return nil
	}
	return m.request
}

// Destination returns the final target host.
func (m *Message) Destination() *Host { return m.to }
