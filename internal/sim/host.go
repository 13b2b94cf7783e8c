package sim

import "dtnreport/internal/report"

// Host is a simulated node with a finite message buffer.
type Host struct {
	address  int
	name     string
	capacity int64
	used     int64
	pinned   bool
	pinValue float64
}

var _ report.Host = (*Host)(nil)

// Address returns the host's registration index.
func (h *Host) Address() int { return h.address }

// Name returns the host label.
func (h *Host) Name() string { return h.name }

// String returns the host label.
func (h *Host) String() string { return h.name }

// BufferOccupancy returns the buffer fill level in percent. A pinned value
// from a trace takes precedence and may exceed 100.
func (h *Host) BufferOccupancy() float64 {
	if h.pinned {
		return h.pinValue
	}
	if h.capacity <= 0 {
		return 0
	}
	return float64(h.used) / float64(h.capacity) * 100
}

// Used returns the number of buffered bytes.
func (h *Host) Used() int64 { return h.used }

func (h *Host) store(size int64) { h.used += size }

func (h *Host) release(size int64) {
	h.used -= size
	if h.used < 0 {
		h.used = 0
	}
}

func (h *Host) pin(v float64) {
	h.pinned = true
	h.pinValue = v
}
