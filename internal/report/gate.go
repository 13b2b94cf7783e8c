package report

import (
	"fmt"
	"math"
	"strings"
)

// DefaultInterval is the sampling interval in simulated seconds used when the
// configured value is missing or not positive.
const DefaultInterval = 3600

// Policy controls how a gate moves its last-record mark after firing.
type Policy int

const (
	// Absolute sets the mark to the firing time. Windows may drift with
	// irregular tick spacing.
	Absolute Policy = iota
	// Aligned sets the mark to the interval boundary at or below the firing
	// time.
	Aligned
)

func (p Policy) String() string {
	switch p {
	case Absolute:
		return "absolute"
	case Aligned:
		return "aligned"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps a configuration string to a Policy. The empty string
// selects Absolute.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "absolute":
		return Absolute, nil
	case "aligned":
		return Aligned, nil
	}
	return Absolute, fmt.Errorf("unknown sampling policy %q", s)
}

// ShouldSample reports whether at least interval time units have elapsed
// since lastRecord.
func ShouldSample(now, lastRecord, interval float64) bool {
	return now-lastRecord >= interval
}

// NormalizeInterval returns interval, or DefaultInterval when interval <= 0.
// The second result reports whether the fallback was applied.
func NormalizeInterval(interval int) (int, bool) {
	if interval <= 0 {
		return DefaultInterval, true
	}
	return interval, false
}

// Gate tracks the last sampling window of one component.
type Gate struct {
	interval float64
	policy   Policy
	last     float64
	fired    bool
}

// NewGate returns a gate that has never fired. interval must be positive;
// use NormalizeInterval on configuration input.
func NewGate(interval int, policy Policy) *Gate {
	return &Gate{interval: float64(interval), policy: policy}
}

// Interval returns the window length.
func (g *Gate) Interval() float64 { return g.interval }

// Last returns the current last-record mark and whether the gate has fired.
func (g *Gate) Last() (float64, bool) { return g.last, g.fired }

// Fire reports whether a new window opens at now and, if so, advances the
// last-record mark according to the gate policy. The first call always fires.
func (g *Gate) Fire(now float64) bool {
	if g.fired && !ShouldSample(now, g.last, g.interval) {
		return false
	}
	g.fired = true
	switch g.policy {
	case Aligned:
		g.last = now - math.Mod(now, g.interval)
	default:
		g.last = now
	}
	return true
}
