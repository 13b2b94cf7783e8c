package report

import (
	"math/rand"
	"strings"
	"testing"
)

func TestOccupancySamplerClampsAndWindows(t *testing.T) {
	clock := &manualClock{}
	w := &recordingWriter{}
	s := NewOccupancySampler(clock, SamplerConfig{
		Options: Options{Interval: 100, RunID: "run-1"},
		Mode:    Series,
		Writers: []OccupancyWriter{w},
	})
	h := &fakeHost{addr: 0, name: "n0", occ: 110}
	for _, now := range []float64{0, 50, 100, 150, 200} {
		clock.t = now
		s.OnTick(now, []Host{h})
	}
	if s.Windows() != 3 {
		t.Fatalf("windows = %d, want 3", s.Windows())
	}
	series := s.Series(0)
	if len(series) != 3 {
		t.Fatalf("series = %v, want 3 samples", series)
	}
	for _, v := range series {
		if v != 100 {
			t.Fatalf("sample %v not clamped to 100", v)
		}
	}
	if len(w.occupancy) != 3 {
		t.Fatalf("writer got %d rows, want 3", len(w.occupancy))
	}
	wantTimes := []float64{0, 100, 200}
	for i, r := range w.occupancy {
		if r.SimTime != wantTimes[i] || r.Host != "n0" || r.RunID != "run-1" || r.Occupancy != 100 {
			t.Fatalf("row %d = %+v", i, r)
		}
	}
}

func TestOccupancySamplerClampRange(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	clock := &manualClock{}
	s := NewOccupancySampler(clock, SamplerConfig{Options: Options{Interval: 1}, Mode: Series})
	hosts := make([]Host, 5)
	for i := range hosts {
		hosts[i] = &fakeHost{addr: i, name: "h"}
	}
	for tick := 0; tick < 100; tick++ {
		for _, h := range hosts {
			h.(*fakeHost).occ = r.Float64()*400 - 150
		}
		s.OnTick(float64(tick), hosts)
	}
	for i := range hosts {
		for _, v := range s.Series(i) {
			if v < 0 || v > MaxOccupancy {
				t.Fatalf("host %d recorded %v outside [0, 100]", i, v)
			}
		}
	}
}

func TestOccupancySamplerLatestFinalize(t *testing.T) {
	clock := &manualClock{}
	s := NewOccupancySampler(clock, SamplerConfig{Options: Options{Interval: 10}})
	hosts := []Host{
		&fakeHost{addr: 2, name: "c2", occ: 12.5},
		&fakeHost{addr: 0, name: "a0", occ: 40},
		&fakeHost{addr: 1, name: "b1", occ: 250},
	}
	s.OnTick(0, hosts)
	hosts[1].(*fakeHost).occ = 42.25
	clock.t = 15.9
	s.OnTick(15.9, hosts)

	if v, ok := s.Latest(0); !ok || v != 42.25 {
		t.Fatalf("latest(0) = %v, %v", v, ok)
	}
	got := s.Finalize()
	want := "Buffer Occupancy PerNode/Update :\n" +
		"Current Interval  : 15\n" +
		"a0\t\t42.2500\n" +
		"b1\t\t100.0000\n" +
		"c2\t\t12.5000\n"
	if got != want {
		t.Fatalf("report =\n%q\nwant\n%q", got, want)
	}
	if again := s.Finalize(); again != got {
		t.Fatalf("second finalize differs:\n%q\n%q", again, got)
	}
}

func TestOccupancySamplerSeriesFinalize(t *testing.T) {
	clock := &manualClock{t: 20}
	s := NewOccupancySampler(clock, SamplerConfig{Options: Options{Interval: 10}, Mode: Series})
	h := &fakeHost{addr: 7, name: "p7", occ: 1}
	s.OnTick(0, []Host{h})
	h.occ = 2
	s.OnTick(10, []Host{h})
	out := s.Finalize()
	if !strings.Contains(out, "p7\t\t1.0000\t2.0000\n") {
		t.Fatalf("series line missing in %q", out)
	}
}

func TestOccupancySamplerInvalidIntervalUsesDefault(t *testing.T) {
	s := NewOccupancySampler(&manualClock{}, SamplerConfig{Options: Options{Interval: -1}})
	if s.gate.Interval() != DefaultInterval {
		t.Fatalf("interval = %v, want %d", s.gate.Interval(), DefaultInterval)
	}
	h := &fakeHost{name: "x"}
	s.OnTick(0, []Host{h})
	s.OnTick(3599, []Host{h})
	s.OnTick(3600, []Host{h})
	if s.Windows() != 2 {
		t.Fatalf("windows = %d, want 2", s.Windows())
	}
}

func TestParseOccupancyMode(t *testing.T) {
	if m, err := ParseOccupancyMode("series"); err != nil || m != Series {
		t.Fatalf("series = %v, %v", m, err)
	}
	if m, err := ParseOccupancyMode(""); err != nil || m != Latest {
		t.Fatalf("empty = %v, %v", m, err)
	}
	if _, err := ParseOccupancyMode("avg"); err == nil {
		t.Fatalf("expected error")
	}
}
