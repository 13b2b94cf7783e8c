// Collaborator interfaces consumed and exposed by the report layer
package report

import "dtnreport/internal/metrics"

// Clock reports the current simulated time. It never goes backwards.
type Clock interface {
	Now() float64
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() float64

// Now calls f.
func (f ClockFunc) Now() float64 { return f() }

// Host is a simulated node observed on every update tick.
type Host interface {
	// Address is the stable identity used for deterministic report ordering.
	Address() int
	// Name is the label printed in reports.
	Name() string
	// BufferOccupancy returns the buffer fill level in percent. It is not
	// clamped by the caller.
	BufferOccupancy() float64
}

// Message is the read-only view of a simulated message.
type Message interface {
	ID() string
	CreationTime() float64
	// HopPath lists the hosts the message has visited, source first.
	HopPath() []Host
	IsResponse() bool
	// Request returns the message this one responds to, or nil.
	Request() Message
	// ExpectsResponse reports whether the sender asked for a response.
	ExpectsResponse() bool
}

// UpdateListener receives the periodic update ticks.
type UpdateListener interface {
	OnTick(now float64, hosts []Host)
}

// MessageListener receives message lifecycle events.
type MessageListener interface {
	OnMessageCreated(m Message)
	OnTransferStarted(m Message, from, to Host)
	OnTransferAborted(m Message, from, to Host)
	OnTransferCompleted(m Message, from, to Host, finalTarget bool) error
	OnMessageDeleted(m Message, where Host, dropped bool)
}

// Finalizer renders the end-of-run report. Calling Finalize more than once
// yields identical text.
type Finalizer interface {
	Finalize() string
}

// OccupancyWriter receives per-window occupancy rows.
type OccupancyWriter interface {
	WriteOccupancy(metrics.OccupancyRow) error
}

// Optional: occupancy writers may support batch mode.
type batchOccupancyWriter interface {
	WriteOccupancies([]metrics.OccupancyRow) error
}

// DeliveredWriter receives per-window delivered-count snapshots.
type DeliveredWriter interface {
	WriteDelivered(metrics.DeliveredRow) error
}
