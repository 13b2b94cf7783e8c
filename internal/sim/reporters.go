package sim

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dtnreport/internal/config"
	"dtnreport/internal/report"
)

// Reporters bundles the report components of one run.
type Reporters struct {
	RunID     string
	Occupancy *report.OccupancySampler
	Messages  *report.MessageAggregator
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// NewReporters builds the occupancy sampler and message aggregator from cfg
// and registers both with the engine, sampler first. An empty runID gets a
// generated one. w may be nil.
func NewReporters(e *Engine, cfg *config.ReportConfig, runID string, epoch time.Time, w Writer, log *slog.Logger) (*Reporters, error) {
	if runID == "" {
		runID = NewRunID()
	}
	policy, err := cfg.SamplerPolicy()
	if err != nil {
		return nil, err
	}
	mode, err := cfg.SamplerMode()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("run_id", runID)

	var occWriters []report.OccupancyWriter
	var delWriters []report.DeliveredWriter
	if w != nil {
		occWriters = append(occWriters, w)
		delWriters = append(delWriters, w)
	}

	r := &Reporters{
		RunID: runID,
		Occupancy: report.NewOccupancySampler(e.Clock(), report.SamplerConfig{
			Options: report.Options{Interval: cfg.OccupancyInterval, RunID: runID, Epoch: epoch, Logger: log},
			Policy:  policy,
			Mode:    mode,
			Writers: occWriters,
		}),
		Messages: report.NewMessageAggregator(e.Clock(), report.AggregatorConfig{
			Options:   report.Options{Interval: cfg.MessageInterval, RunID: runID, Epoch: epoch, Logger: log},
			WarmupEnd: cfg.Warmup,
			Writers:   delWriters,
		}),
	}
	if err := e.Register(r.Occupancy); err != nil {
		return nil, err
	}
	if err := e.Register(r.Messages); err != nil {
		return nil, err
	}
	return r, nil
}

// WriteSummary pushes the aggregator's end-of-run summary to w.
func (r *Reporters) WriteSummary(w SummaryWriter) error {
	if w == nil {
		return nil
	}
	return w.WriteSummary(r.Messages.SummaryRow())
}
