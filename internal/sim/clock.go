package sim

import (
	"math"
	"sync/atomic"
)

// Clock holds the simulated time. Reads are safe from any goroutine.
type Clock struct {
	bits atomic.Uint64
}

// Now returns the current simulated time.
func (c *Clock) Now() float64 {
	return math.Float64frombits(c.bits.Load())
}

func (c *Clock) set(t float64) {
	c.bits.Store(math.Float64bits(t))
}
