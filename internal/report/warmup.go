package report

// Warmup excludes messages created before the warm-up period ends from
// all lifecycle counters. Membership is write-once and never pruned.
type Warmup struct {
	end float64
	ids map[string]struct{}
}

// NewWarmup returns a filter for a warm-up period ending at end.
func NewWarmup(end float64) *Warmup {
	return &Warmup{end: end, ids: make(map[string]struct{})}
}

// End returns the simulated time at which warm-up ends.
func (w *Warmup) End() float64 { return w.end }

// Active reports whether now is still inside the warm-up period.
func (w *Warmup) Active(now float64) bool {
	return now < w.end
}

// Mark records id as created during warm-up.
func (w *Warmup) Mark(id string) {
	w.ids[id] = struct{}{}
}

// Contains reports whether id was created during warm-up.
func (w *Warmup) Contains(id string) bool {
	_, ok := w.ids[id]
	return ok
}

// Len returns the number of ids excluded so far.
func (w *Warmup) Len() int { return len(w.ids) }
