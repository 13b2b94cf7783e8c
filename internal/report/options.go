package report

import (
	"log/slog"
	"strconv"
	"time"
)

// Options holds the settings shared by the sampler and the aggregator.
type Options struct {
	// Interval is the sampling window in simulated seconds. Values <= 0
	// fall back to DefaultInterval.
	Interval int
	// RunID tags every emitted row.
	RunID string
	// Epoch is the wall-clock instant mapped to simulated time zero when
	// stamping rows. The zero value means the Unix epoch.
	Epoch  time.Time
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) interval(component string) int {
	iv, fallback := NormalizeInterval(o.Interval)
	if fallback {
		o.logger().Warn("invalid sampling interval, using default",
			"component", component, "configured", o.Interval, "default", iv)
	}
	return iv
}

func (o Options) epoch() time.Time {
	if o.Epoch.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return o.Epoch
}

// stamp converts simulated seconds to a wall-clock timestamp.
func stamp(epoch time.Time, simTime float64) time.Time {
	return epoch.Add(time.Duration(simTime * float64(time.Second)))
}

// format renders a value with the fixed precision used in report text.
func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
