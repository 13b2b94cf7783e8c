package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"dtnreport/internal/config"
	"dtnreport/internal/scenario"
)

// Generator produces a synthetic multi-hop traffic trace.
type Generator struct {
	cfg   config.Traffic
	rand  *rand.Rand
	names []string
	out   []scenario.Event
}

// NewGenerator creates a generator seeded from cfg.Seed.
func NewGenerator(cfg config.Traffic) *Generator {
	names := make([]string, cfg.Hosts)
	for i := range names {
		names[i] = fmt.Sprintf("n%d", i)
	}
	return &Generator{cfg: cfg, rand: rand.New(rand.NewSource(cfg.Seed)), names: names}
}

// Generate returns the full trace ordered by time: host declarations first,
// then message lifecycles. Requests that ask for a response get one routed
// back from the destination once they are delivered.
func (g *Generator) Generate() []scenario.Event {
	g.out = g.out[:0]
	for _, n := range g.names {
		g.out = append(g.out, scenario.Event{Type: scenario.EventHost, Host: n, Size: g.cfg.BufferSize})
	}
	hosts := len(g.out)

	seq := 0
	at := 0.0
	for {
		at += g.cfg.MessageIntervalMin + g.rand.Float64()*(g.cfg.MessageIntervalMax-g.cfg.MessageIntervalMin)
		if at > g.cfg.Duration {
			break
		}
		seq++
		id := fmt.Sprintf("M%d", seq)
		src, dst := g.pair()
		var respSize int64
		if g.rand.Float64() < g.cfg.ResponseRatio {
			respSize = g.cfg.MessageSize / 4
			if respSize == 0 {
				respSize = 1
			}
		}
		delivered, ok := g.route(scenario.Event{
			Time:         at,
			Type:         scenario.EventCreate,
			Message:      id,
			From:         src,
			To:           dst,
			Size:         g.cfg.MessageSize,
			ResponseSize: respSize,
		})
		if ok && respSize > 0 {
			g.route(scenario.Event{
				Time:       delivered,
				Type:       scenario.EventCreate,
				Message:    "R" + id,
				From:       dst,
				To:         src,
				Size:       respSize,
				ResponseTo: id,
			})
		}
	}

	msgs := g.out[hosts:]
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Time < msgs[j].Time })
	return append([]scenario.Event(nil), g.out...)
}

func (g *Generator) pair() (string, string) {
	n := len(g.names)
	src := g.rand.Intn(n)
	dst := g.rand.Intn(n - 1)
	if dst >= src {
		dst++
	}
	return g.names[src], g.names[dst]
}

// route appends the creation event and the transfers along a random path.
// It returns the delivery time, or false when the message was dropped.
func (g *Generator) route(create scenario.Event) (float64, bool) {
	g.out = append(g.out, create)
	path := []string{create.From}
	for hops := 1 + g.rand.Intn(g.cfg.MaxHops); hops > 1; hops-- {
		next := g.names[g.rand.Intn(len(g.names))]
		if next == path[len(path)-1] || next == create.To {
			continue
		}
		path = append(path, next)
	}
	path = append(path, create.To)

	id := create.Message
	tt := g.cfg.TransferTime
	cur := create.Time
	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]
		cur += tt / 2
		g.out = append(g.out, scenario.Event{Time: cur, Type: scenario.EventStart, Message: id, From: from, To: to})
		if g.rand.Float64() < g.cfg.AbortRate {
			cur += tt / 2
			g.out = append(g.out, scenario.Event{Time: cur, Type: scenario.EventAbort, Message: id, From: from, To: to})
			cur += tt / 2
			g.out = append(g.out, scenario.Event{Time: cur, Type: scenario.EventStart, Message: id, From: from, To: to})
		}
		cur += tt
		g.out = append(g.out, scenario.Event{Time: cur, Type: scenario.EventComplete, Message: id, From: from, To: to})
		if i+2 < len(path) && g.rand.Float64() < g.cfg.DropRate {
			cur += tt
			g.out = append(g.out, scenario.Event{Time: cur, Type: scenario.EventDelete, Message: id, Host: to, Dropped: true})
			return 0, false
		}
	}
	return cur, true
}
