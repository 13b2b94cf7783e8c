package report

import (
	"errors"
	"testing"
)

func newAggregator(clock *manualClock, warmup float64, writers ...DeliveredWriter) *MessageAggregator {
	return NewMessageAggregator(clock, AggregatorConfig{
		Options:   Options{Interval: 100, RunID: "run-1"},
		WarmupEnd: warmup,
		Writers:   writers,
	})
}

func TestAggregatorDelivery(t *testing.T) {
	clock := &manualClock{t: 10}
	a := newAggregator(clock, 0)
	m := &fakeMessage{id: "M1", created: 10, path: hostsPath(4)}
	a.OnMessageCreated(m)

	clock.t = 12
	a.OnTransferStarted(m, nil, nil)

	clock.t = 20
	if err := a.OnTransferCompleted(m, nil, nil, true); err != nil {
		t.Fatalf("OnTransferCompleted: %v", err)
	}

	c := a.Counters()
	if c.Delivered != 1 || c.Created != 1 || c.Started != 1 || c.Relayed != 1 {
		t.Fatalf("counters = %+v", c)
	}
	if lat := a.Latencies(); len(lat) != 1 || lat[0] != 10 {
		t.Fatalf("latencies = %v, want [10]", lat)
	}
	if hops := a.HopCounts(); len(hops) != 1 || hops[0] != 3 {
		t.Fatalf("hop counts = %v, want [3]", hops)
	}
}

func TestAggregatorRelayedCountsEveryCompletion(t *testing.T) {
	clock := &manualClock{}
	a := newAggregator(clock, 0)
	m := &fakeMessage{id: "M1", path: hostsPath(3)}
	a.OnMessageCreated(m)
	for _, final := range []bool{false, false, true} {
		if err := a.OnTransferCompleted(m, nil, nil, final); err != nil {
			t.Fatal(err)
		}
	}
	if c := a.Counters(); c.Relayed != 3 || c.Delivered != 1 {
		t.Fatalf("counters = %+v", c)
	}
}

func TestAggregatorWarmupExcludesMessage(t *testing.T) {
	clock := &manualClock{t: 5}
	a := newAggregator(clock, 50)
	m := &fakeMessage{id: "M2", created: 5, path: hostsPath(2), expectsRe: true}
	a.OnMessageCreated(m)

	clock.t = 55
	a.OnTransferStarted(m, nil, nil)
	a.OnTransferAborted(m, nil, nil)
	a.OnMessageCreated(m)
	clock.t = 60
	if err := a.OnTransferCompleted(m, nil, nil, true); err != nil {
		t.Fatalf("warm-up message delivery returned %v", err)
	}
	a.OnMessageDeleted(m, nil, true)

	if c := a.Counters(); c != (Counters{}) {
		t.Fatalf("counters changed for warm-up message: %+v", c)
	}
	if len(a.Latencies()) != 0 || len(a.HopCounts()) != 0 {
		t.Fatalf("samples recorded for warm-up message")
	}
	if a.WarmupExcluded() != 1 {
		t.Fatalf("warm-up excluded = %d, want 1", a.WarmupExcluded())
	}
}

func TestAggregatorMissingCreationTime(t *testing.T) {
	clock := &manualClock{t: 30}
	a := newAggregator(clock, 0)
	m := &fakeMessage{id: "ghost", path: hostsPath(2)}

	err := a.OnTransferCompleted(m, nil, nil, true)
	if !errors.Is(err, ErrMissingCreationTime) {
		t.Fatalf("err = %v, want ErrMissingCreationTime", err)
	}
	var ie *IntegrityError
	if !errors.As(err, &ie) || ie.MessageID != "ghost" || ie.Event != EventCompleted {
		t.Fatalf("integrity error = %#v", err)
	}
	if c := a.Counters(); c.Delivered != 0 || len(a.Latencies()) != 0 {
		t.Fatalf("state mutated on integrity error: %+v", c)
	}

	if err := a.OnTransferCompleted(m, nil, nil, false); err != nil {
		t.Fatalf("intermediate hop should not require creation: %v", err)
	}
}

func TestAggregatorDuplicateCreation(t *testing.T) {
	clock := &manualClock{t: 10}
	a := newAggregator(clock, 0)
	m := &fakeMessage{id: "M1", path: hostsPath(2), expectsRe: true}
	a.OnMessageCreated(m)
	clock.t = 15
	a.OnMessageCreated(m)
	clock.t = 25
	if err := a.OnTransferCompleted(m, nil, nil, true); err != nil {
		t.Fatal(err)
	}
	c := a.Counters()
	if c.Created != 1 || c.ResponseCreated != 1 {
		t.Fatalf("duplicate creation counted twice: %+v", c)
	}
	if lat := a.Latencies(); lat[0] != 10 {
		t.Fatalf("latency = %v, want 10 (last creation wins)", lat[0])
	}
}

func TestAggregatorResponseRoundTrip(t *testing.T) {
	clock := &manualClock{t: 100}
	a := newAggregator(clock, 0)
	req := &fakeMessage{id: "REQ", created: 100, path: hostsPath(2), expectsRe: true}
	a.OnMessageCreated(req)
	clock.t = 130
	if err := a.OnTransferCompleted(req, nil, nil, true); err != nil {
		t.Fatal(err)
	}
	resp := &fakeMessage{id: "RESP", created: 130, path: hostsPath(3), response: true, request: req}
	a.OnMessageCreated(resp)
	clock.t = 175
	if err := a.OnTransferCompleted(resp, nil, nil, true); err != nil {
		t.Fatal(err)
	}

	c := a.Counters()
	if c.ResponseCreated != 1 || c.ResponseDelivered != 1 || c.Delivered != 2 {
		t.Fatalf("counters = %+v", c)
	}
	if rtt := a.RoundTripTimes(); len(rtt) != 1 || rtt[0] != 75 {
		t.Fatalf("rtt = %v, want [75]", rtt)
	}

	orphan := &fakeMessage{id: "ORPHAN", path: hostsPath(2), response: true}
	a.OnMessageCreated(orphan)
	if err := a.OnTransferCompleted(orphan, nil, nil, true); !errors.Is(err, ErrMissingRequest) {
		t.Fatalf("err = %v, want ErrMissingRequest", err)
	}
}

func TestAggregatorTickBuckets(t *testing.T) {
	clock := &manualClock{}
	w := &recordingWriter{}
	a := newAggregator(clock, 0, w)
	deliver := func(id string, at float64) {
		m := &fakeMessage{id: id, created: at, path: hostsPath(2)}
		clock.t = at
		a.OnMessageCreated(m)
		if err := a.OnTransferCompleted(m, nil, nil, true); err != nil {
			t.Fatal(err)
		}
	}

	a.OnTick(0, nil)
	deliver("a", 40)
	a.OnTick(50, nil)
	a.OnTick(130.5, nil)
	deliver("b", 150)
	deliver("c", 160)
	a.OnTick(199, nil)
	a.OnTick(200, nil)

	want := []Bucket{{0, 0}, {130, 1}, {200, 3}}
	got := a.Buckets()
	if len(got) != len(want) {
		t.Fatalf("buckets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("buckets = %v, want %v", got, want)
		}
	}
	if len(w.delivered) != 3 || w.delivered[1].Bucket != 130 || w.delivered[1].Delivered != 1 {
		t.Fatalf("writer rows = %+v", w.delivered)
	}

	clock.t = 200
	report := a.Finalize()
	wantReport := "NrofDelivered/Time =\n0 0\n130 1\n200 3\n"
	if report != wantReport {
		t.Fatalf("report = %q, want %q", report, wantReport)
	}
	if a.Finalize() != report {
		t.Fatalf("finalize not idempotent")
	}
}

func TestAggregatorTickSkippedDuringWarmup(t *testing.T) {
	clock := &manualClock{}
	a := newAggregator(clock, 150)
	for _, now := range []float64{0, 100, 149, 150, 250} {
		a.OnTick(now, nil)
	}
	got := a.Buckets()
	if len(got) != 2 || got[0].Time != 150 || got[1].Time != 250 {
		t.Fatalf("buckets = %v", got)
	}
}

func TestAggregatorStats(t *testing.T) {
	clock := &manualClock{}
	a := newAggregator(clock, 0)
	if st := a.Stats(); st.DeliveryProb != 0 || st.LatencyAvg != 0 {
		t.Fatalf("empty stats = %+v", st)
	}
	for i, d := range []struct {
		id      string
		created float64
		hops    int
		at      float64
	}{
		{"a", 0, 2, 10},
		{"b", 0, 4, 30},
		{"c", 0, 3, 20},
	} {
		m := &fakeMessage{id: d.id, path: hostsPath(d.hops + 1)}
		clock.t = d.created
		a.OnMessageCreated(m)
		clock.t = d.at
		if i == 1 {
			if err := a.OnTransferCompleted(m, nil, nil, false); err != nil {
				t.Fatal(err)
			}
		}
		if err := a.OnTransferCompleted(m, nil, nil, true); err != nil {
			t.Fatal(err)
		}
	}
	a.OnMessageCreated(&fakeMessage{id: "lost"})

	st := a.Stats()
	if st.DeliveryProb != 0.75 {
		t.Fatalf("delivery prob = %v", st.DeliveryProb)
	}
	if st.LatencyAvg != 20 || st.LatencyMedian != 20 {
		t.Fatalf("latency avg/med = %v/%v", st.LatencyAvg, st.LatencyMedian)
	}
	if st.HopCountAvg != 3 || st.HopCountMedian != 3 {
		t.Fatalf("hop avg/med = %v/%v", st.HopCountAvg, st.HopCountMedian)
	}
	if st.OverheadRatio != float64(4-3)/3 {
		t.Fatalf("overhead = %v", st.OverheadRatio)
	}
	row := a.SummaryRow()
	if row.RunID != "run-1" || row.Delivered != 3 || row.Created != 4 {
		t.Fatalf("summary row = %+v", row)
	}
}
