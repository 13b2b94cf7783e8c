package report

import (
	"sort"
	"time"

	"dtnreport/internal/metrics"
)

// Stats summarizes the lifecycle counters and delivery samples.
type Stats struct {
	Counters
	SimTime        float64 `json:"sim_time"`
	DeliveryProb   float64 `json:"delivery_prob"`
	ResponseProb   float64 `json:"response_prob"`
	OverheadRatio  float64 `json:"overhead_ratio"`
	LatencyAvg     float64 `json:"latency_avg"`
	LatencyMedian  float64 `json:"latency_med"`
	HopCountAvg    float64 `json:"hopcount_avg"`
	HopCountMedian float64 `json:"hopcount_med"`
	RTTAvg         float64 `json:"rtt_avg"`
	RTTMedian      float64 `json:"rtt_med"`
}

// Stats computes the current summary. It does not modify the aggregator.
func (a *MessageAggregator) Stats() Stats {
	c := a.counters
	st := Stats{Counters: c, SimTime: a.clock.Now()}
	if c.Created > 0 {
		st.DeliveryProb = float64(c.Delivered) / float64(c.Created)
	}
	if c.ResponseCreated > 0 {
		st.ResponseProb = float64(c.ResponseDelivered) / float64(c.ResponseCreated)
	}
	if c.Delivered > 0 {
		st.OverheadRatio = float64(c.Relayed-c.Delivered) / float64(c.Delivered)
	}
	hops := make([]float64, len(a.hopCounts))
	for i, h := range a.hopCounts {
		hops[i] = float64(h)
	}
	st.LatencyAvg, st.LatencyMedian = average(a.latencies), median(a.latencies)
	st.HopCountAvg, st.HopCountMedian = average(hops), median(hops)
	st.RTTAvg, st.RTTMedian = average(a.rtts), median(a.rtts)
	return st
}

func (st Stats) row(runID string, epoch time.Time) metrics.SummaryRow {
	return metrics.SummaryRow{
		RunID:             runID,
		SimTime:           st.SimTime,
		Created:           st.Created,
		Started:           st.Started,
		Relayed:           st.Relayed,
		Aborted:           st.Aborted,
		Dropped:           st.Dropped,
		Removed:           st.Removed,
		Delivered:         st.Delivered,
		ResponseCreated:   st.ResponseCreated,
		ResponseDelivered: st.ResponseDelivered,
		DeliveryProb:      st.DeliveryProb,
		ResponseProb:      st.ResponseProb,
		OverheadRatio:     st.OverheadRatio,
		LatencyAvg:        st.LatencyAvg,
		LatencyMedian:     st.LatencyMedian,
		HopCountAvg:       st.HopCountAvg,
		HopCountMedian:    st.HopCountMedian,
		RTTAvg:            st.RTTAvg,
		RTTMedian:         st.RTTMedian,
		Timestamp:         stamp(epoch, st.SimTime),
	}
}

// SummaryRow returns the current summary as an output row.
func (a *MessageAggregator) SummaryRow() metrics.SummaryRow {
	return a.Stats().row(a.cfg.RunID, a.cfg.epoch())
}

func average(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// median returns the middle element of the sorted values; for an even count
// the upper of the two middle elements is used.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}
