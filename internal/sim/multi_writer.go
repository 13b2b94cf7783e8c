package sim

import (
	"errors"

	"dtnreport/internal/metrics"
)

// MultiWriter fan-outs report rows to multiple writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...Writer) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// WriteOccupancy sends an occupancy row to all writers.
func (mw *MultiWriter) WriteOccupancy(row metrics.OccupancyRow) error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.WriteOccupancy(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteOccupancies sends multiple occupancy rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteOccupancies(rows []metrics.OccupancyRow) error {
	var errs []error
	for _, w := range mw.writers {
		if bw, ok := w.(batchOccupancyWriter); ok {
			if err := bw.WriteOccupancies(rows); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteOccupancy(r); err != nil {
				errs = append(errs, err)
				break
			}
		}
	}
	return errors.Join(errs...)
}

// WriteDelivered sends a delivered-count row to all writers.
func (mw *MultiWriter) WriteDelivered(row metrics.DeliveredRow) error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.WriteDelivered(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteSummary sends the summary row to all writers.
func (mw *MultiWriter) WriteSummary(row metrics.SummaryRow) error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.WriteSummary(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
