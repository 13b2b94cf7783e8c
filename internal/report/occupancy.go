// Per-host buffer occupancy sampling
package report

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"dtnreport/internal/metrics"
)

// MaxOccupancy is the ceiling applied to every recorded occupancy value.
const MaxOccupancy = 100.0

// OccupancyMode selects which recorded view the final report renders.
type OccupancyMode int

const (
	// Latest renders the most recent sample of each host.
	Latest OccupancyMode = iota
	// Series renders every sample of each host in temporal order.
	Series
)

func (m OccupancyMode) String() string {
	if m == Series {
		return "series"
	}
	return "latest"
}

// ParseOccupancyMode maps a configuration string to an OccupancyMode. The
// empty string selects Latest.
func ParseOccupancyMode(s string) (OccupancyMode, error) {
	switch strings.ToLower(s) {
	case "", "latest":
		return Latest, nil
	case "series":
		return Series, nil
	}
	return Latest, fmt.Errorf("unknown occupancy mode %q", s)
}

// SamplerConfig configures an OccupancySampler.
type SamplerConfig struct {
	Options
	Policy  Policy
	Mode    OccupancyMode
	Writers []OccupancyWriter
}

type hostRecord struct {
	name   string
	latest float64
	series []float64
}

// OccupancySampler records the buffer occupancy of every live host once per
// sampling window. Warm-up does not apply to it.
type OccupancySampler struct {
	clock   Clock
	gate    *Gate
	mode    OccupancyMode
	hosts   map[int]*hostRecord
	windows int
	writers []OccupancyWriter
	runID   string
	cfg     SamplerConfig
	log     *slog.Logger
}

// NewOccupancySampler creates a sampler reading the report time from clock.
func NewOccupancySampler(clock Clock, cfg SamplerConfig) *OccupancySampler {
	log := cfg.logger().With("component", "occupancy")
	return &OccupancySampler{
		clock:   clock,
		gate:    NewGate(cfg.interval("occupancy"), cfg.Policy),
		mode:    cfg.Mode,
		hosts:   make(map[int]*hostRecord),
		writers: cfg.Writers,
		runID:   cfg.RunID,
		cfg:     cfg,
		log:     log,
	}
}

// ClampOccupancy limits v to [0, MaxOccupancy].
func ClampOccupancy(v float64) float64 {
	if v > MaxOccupancy {
		return MaxOccupancy
	}
	if v < 0 {
		return 0
	}
	return v
}

// OnTick samples every host when a new window opens at now.
func (s *OccupancySampler) OnTick(now float64, hosts []Host) {
	if !s.gate.Fire(now) {
		return
	}
	s.windows++
	rows := make([]metrics.OccupancyRow, 0, len(hosts))
	ts := stamp(s.cfg.epoch(), now)
	for _, h := range hosts {
		v := ClampOccupancy(h.BufferOccupancy())
		rec, ok := s.hosts[h.Address()]
		if !ok {
			rec = &hostRecord{name: h.Name()}
			s.hosts[h.Address()] = rec
		}
		rec.latest = v
		rec.series = append(rec.series, v)
		rows = append(rows, metrics.OccupancyRow{
			RunID:     s.runID,
			Host:      rec.name,
			SimTime:   now,
			Occupancy: v,
			Timestamp: ts,
		})
	}
	s.emit(rows)
}

func (s *OccupancySampler) emit(rows []metrics.OccupancyRow) {
	if len(rows) == 0 {
		return
	}
	for _, w := range s.writers {
		if bw, ok := w.(batchOccupancyWriter); ok {
			if err := bw.WriteOccupancies(rows); err != nil {
				s.log.Error("occupancy batch write failed", "err", err)
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteOccupancy(r); err != nil {
				s.log.Error("occupancy write failed", "host", r.Host, "err", err)
			}
		}
	}
}

// Windows returns the number of sampling windows recorded so far.
func (s *OccupancySampler) Windows() int { return s.windows }

// Latest returns the most recent sample of the host with the given address.
func (s *OccupancySampler) Latest(address int) (float64, bool) {
	rec, ok := s.hosts[address]
	if !ok {
		return 0, false
	}
	return rec.latest, true
}

// Series returns a copy of the samples recorded for the host with the given
// address.
func (s *OccupancySampler) Series(address int) []float64 {
	rec, ok := s.hosts[address]
	if !ok {
		return nil
	}
	out := make([]float64, len(rec.series))
	copy(out, rec.series)
	return out
}

func (s *OccupancySampler) addresses() []int {
	addrs := make([]int, 0, len(s.hosts))
	for a := range s.hosts {
		addrs = append(addrs, a)
	}
	sort.Ints(addrs)
	return addrs
}

// Finalize renders the per-host occupancy report ordered by host address.
func (s *OccupancySampler) Finalize() string {
	var b strings.Builder
	b.WriteString("Buffer Occupancy PerNode/Update :\n")
	fmt.Fprintf(&b, "Current Interval  : %d\n", int(s.clock.Now()))
	for _, a := range s.addresses() {
		rec := s.hosts[a]
		b.WriteString(rec.name)
		b.WriteString("\t\t")
		if s.mode == Series {
			vals := make([]string, len(rec.series))
			for i, v := range rec.series {
				vals[i] = format(v)
			}
			b.WriteString(strings.Join(vals, "\t"))
		} else {
			b.WriteString(format(rec.latest))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
