// Row types emitted by the report layer to output writers
package metrics

import "time"

// OccupancyRow is one host's buffer occupancy captured in a sampling window.
type OccupancyRow struct {
	RunID     string    `json:"run_id"`    // TAG
	Host      string    `json:"host"`      // TAG
	SimTime   float64   `json:"sim_time"`  // FIELD
	Occupancy float64   `json:"occupancy"` // FIELD, clamped to [0, 100]
	Timestamp time.Time `json:"ts"`        // TIME INDEX
}

// DeliveredRow is the cumulative delivered count snapshotted at a time bucket.
type DeliveredRow struct {
	RunID     string    `json:"run_id"`
	Bucket    int       `json:"bucket"`
	Delivered int       `json:"delivered"`
	Timestamp time.Time `json:"ts"`
}

// SummaryRow carries the end-of-run message statistics.
type SummaryRow struct {
	RunID             string    `json:"run_id"`
	SimTime           float64   `json:"sim_time"`
	Created           int       `json:"created"`
	Started           int       `json:"started"`
	Relayed           int       `json:"relayed"`
	Aborted           int       `json:"aborted"`
	Dropped           int       `json:"dropped"`
	Removed           int       `json:"removed"`
	Delivered         int       `json:"delivered"`
	ResponseCreated   int       `json:"response_created"`
	ResponseDelivered int       `json:"response_delivered"`
	DeliveryProb      float64   `json:"delivery_prob"`
	ResponseProb      float64   `json:"response_prob"`
	OverheadRatio     float64   `json:"overhead_ratio"`
	LatencyAvg        float64   `json:"latency_avg"`
	LatencyMedian     float64   `json:"latency_med"`
	HopCountAvg       float64   `json:"hopcount_avg"`
	HopCountMedian    float64   `json:"hopcount_med"`
	RTTAvg            float64   `json:"rtt_avg"`
	RTTMedian         float64   `json:"rtt_med"`
	Timestamp         time.Time `json:"ts"`
}
