// Message lifecycle aggregation
package report

import (
	"fmt"
	"log/slog"
	"strings"

	"dtnreport/internal/metrics"
)

// Lifecycle event names used in integrity errors and logs.
const (
	EventCreated   = "created"
	EventStarted   = "transfer_started"
	EventAborted   = "transfer_aborted"
	EventCompleted = "transfer_completed"
	EventDeleted   = "deleted"
)

// AggregatorConfig configures a MessageAggregator.
type AggregatorConfig struct {
	Options
	// WarmupEnd is the simulated time before which created messages are
	// excluded from every counter.
	WarmupEnd float64
	Writers   []DeliveredWriter
}

// Counters are the running lifecycle totals. They only grow.
type Counters struct {
	Created           int `json:"created"`
	Started           int `json:"started"`
	Relayed           int `json:"relayed"`
	Aborted           int `json:"aborted"`
	Dropped           int `json:"dropped"`
	Removed           int `json:"removed"`
	Delivered         int `json:"delivered"`
	ResponseCreated   int `json:"response_created"`
	ResponseDelivered int `json:"response_delivered"`
}

// Bucket is one snapshot of the delivered count.
type Bucket struct {
	Time      int `json:"time"`
	Delivered int `json:"delivered"`
}

// MessageAggregator folds message lifecycle events into counters and
// per-delivery samples, and snapshots the delivered count once per window.
type MessageAggregator struct {
	clock    Clock
	gate     *Gate
	warmup   *Warmup
	created  map[string]float64
	counters Counters

	latencies []float64
	hopCounts []int
	rtts      []float64

	buckets []Bucket

	writers []DeliveredWriter
	cfg     AggregatorConfig
	log     *slog.Logger
}

// NewMessageAggregator creates an aggregator reading event times from clock.
// Its windows always use the Aligned policy.
func NewMessageAggregator(clock Clock, cfg AggregatorConfig) *MessageAggregator {
	return &MessageAggregator{
		clock:   clock,
		gate:    NewGate(cfg.interval("messages"), Aligned),
		warmup:  NewWarmup(cfg.WarmupEnd),
		created: make(map[string]float64),
		writers: cfg.Writers,
		cfg:     cfg,
		log:     cfg.logger().With("component", "messages"),
	}
}

// OnMessageCreated records the creation time of m, or marks it as a
// warm-up message.
func (a *MessageAggregator) OnMessageCreated(m Message) {
	now := a.clock.Now()
	id := m.ID()
	if a.warmup.Active(now) {
		a.warmup.Mark(id)
		return
	}
	if a.warmup.Contains(id) {
		return
	}
	if _, dup := a.created[id]; dup {
		a.log.Warn("duplicate message creation, keeping latest time", "msg_id", id, "time", now)
		a.created[id] = now
		return
	}
	a.created[id] = now
	a.counters.Created++
	if m.ExpectsResponse() {
		a.counters.ResponseCreated++
	}
}

// OnTransferStarted counts a transfer start.
func (a *MessageAggregator) OnTransferStarted(m Message, from, to Host) {
	if a.warmup.Contains(m.ID()) {
		return
	}
	a.checkCreated(m, EventStarted)
	a.counters.Started++
}

// OnTransferAborted counts an aborted transfer. The message may restart.
func (a *MessageAggregator) OnTransferAborted(m Message, from, to Host) {
	if a.warmup.Contains(m.ID()) {
		return
	}
	a.checkCreated(m, EventAborted)
	a.counters.Aborted++
}

func (a *MessageAggregator) checkCreated(m Message, event string) {
	if _, ok := a.created[m.ID()]; !ok {
		a.log.Warn("transfer event before creation", "event", event, "msg_id", m.ID())
	}
}

// OnTransferCompleted counts a relay and, at the final target, records the
// delivery latency, hop count and, for responses, the round trip time.
// Every completed transfer counts as relayed, the final one included.
func (a *MessageAggregator) OnTransferCompleted(m Message, from, to Host, finalTarget bool) error {
	id := m.ID()
	if a.warmup.Contains(id) {
		return nil
	}
	now := a.clock.Now()
	if finalTarget {
		createdAt, ok := a.created[id]
		if !ok {
			return &IntegrityError{Event: EventCompleted, MessageID: id, Err: ErrMissingCreationTime}
		}
		var req Message
		if m.IsResponse() {
			if req = m.Request(); req == nil {
				return &IntegrityError{Event: EventCompleted, MessageID: id, Err: ErrMissingRequest}
			}
		}
		a.counters.Relayed++
		a.latencies = append(a.latencies, now-createdAt)
		a.counters.Delivered++
		hops := len(m.HopPath()) - 1
		if hops < 0 {
			hops = 0
		}
		a.hopCounts = append(a.hopCounts, hops)
		if req != nil {
			a.rtts = append(a.rtts, now-req.CreationTime())
			a.counters.ResponseDelivered++
		}
		return nil
	}
	a.counters.Relayed++
	return nil
}

// OnMessageDeleted is a hook for drop and removal accounting. The Dropped
// and Removed counters are not populated.
func (a *MessageAggregator) OnMessageDeleted(m Message, where Host, dropped bool) {}

// OnTick snapshots the delivered count when a new window opens. Ticks
// during warm-up are ignored.
func (a *MessageAggregator) OnTick(now float64, _ []Host) {
	if a.warmup.Active(now) {
		return
	}
	if !a.gate.Fire(now) {
		return
	}
	b := Bucket{Time: int(now), Delivered: a.counters.Delivered}
	if n := len(a.buckets); n > 0 && a.buckets[n-1].Time == b.Time {
		a.buckets[n-1] = b
	} else {
		a.buckets = append(a.buckets, b)
	}
	row := metrics.DeliveredRow{
		RunID:     a.cfg.RunID,
		Bucket:    b.Time,
		Delivered: b.Delivered,
		Timestamp: stamp(a.cfg.epoch(), now),
	}
	for _, w := range a.writers {
		if err := w.WriteDelivered(row); err != nil {
			a.log.Error("delivered write failed", "bucket", b.Time, "err", err)
		}
	}
}

// Counters returns a copy of the running counters.
func (a *MessageAggregator) Counters() Counters { return a.counters }

// Buckets returns a copy of the delivered-count series in ascending time.
func (a *MessageAggregator) Buckets() []Bucket {
	out := make([]Bucket, len(a.buckets))
	copy(out, a.buckets)
	return out
}

// Latencies returns a copy of the recorded delivery latencies.
func (a *MessageAggregator) Latencies() []float64 {
	return append([]float64(nil), a.latencies...)
}

// HopCounts returns a copy of the recorded hop counts.
func (a *MessageAggregator) HopCounts() []int {
	return append([]int(nil), a.hopCounts...)
}

// RoundTripTimes returns a copy of the recorded response round trip times.
func (a *MessageAggregator) RoundTripTimes() []float64 {
	return append([]float64(nil), a.rtts...)
}

// WarmupExcluded returns the number of message ids excluded by warm-up.
func (a *MessageAggregator) WarmupExcluded() int { return a.warmup.Len() }

// Finalize renders the delivered-count series, one bucket per line.
func (a *MessageAggregator) Finalize() string {
	var b strings.Builder
	b.WriteString("NrofDelivered/Time =\n")
	for _, bk := range a.buckets {
		fmt.Fprintf(&b, "%d %d\n", bk.Time, bk.Delivered)
	}
	return b.String()
}
