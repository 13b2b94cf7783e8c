package sim

import (
	"dtnreport/internal/metrics"
	"dtnreport/internal/report"
)

// SummaryWriter handles the end-of-run summary row.
type SummaryWriter interface {
	WriteSummary(metrics.SummaryRow) error
}

// Writer is an output sink for every row kind the reporters emit.
type Writer interface {
	report.OccupancyWriter
	report.DeliveredWriter
	SummaryWriter
}

// Optional: writers can also support batch mode for occupancy rows.
type batchOccupancyWriter interface {
	WriteOccupancies([]metrics.OccupancyRow) error
}
