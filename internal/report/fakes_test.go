package report

import "dtnreport/internal/metrics"

type manualClock struct{ t float64 }

func (c *manualClock) Now() float64 { return c.t }

type fakeHost struct {
	addr int
	name string
	occ  float64
}

func (h *fakeHost) Address() int             { return h.addr }
func (h *fakeHost) Name() string             { return h.name }
func (h *fakeHost) BufferOccupancy() float64 { return h.occ }

type fakeMessage struct {
	id        string
	created   float64
	path      []Host
	response  bool
	request   Message
	expectsRe bool
}

func (m *fakeMessage) ID() string            { return m.id }
func (m *fakeMessage) CreationTime() float64 { return m.created }
func (m *fakeMessage) HopPath() []Host       { return m.path }
func (m *fakeMessage) IsResponse() bool      { return m.response }
func (m *fakeMessage) Request() Message {
	if m.request == nil {
		return nil
	}
	return m.request
}
func (m *fakeMessage) ExpectsResponse() bool { return m.expectsRe }

type recordingWriter struct {
	occupancy []metrics.OccupancyRow
	delivered []metrics.DeliveredRow
}

func (w *recordingWriter) WriteOccupancy(r metrics.OccupancyRow) error {
	w.occupancy = append(w.occupancy, r)
	return nil
}

func (w *recordingWriter) WriteDelivered(r metrics.DeliveredRow) error {
	w.delivered = append(w.delivered, r)
	return nil
}

func hostsPath(n int) []Host {
	path := make([]Host, n)
	for i := range path {
		path[i] = &fakeHost{addr: i}
	}
	return path
}
