package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"dtnreport/internal/metrics"
)

// JSONStdoutWriter prints report rows as JSON lines.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

func (w *JSONStdoutWriter) print(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// WriteOccupancy outputs an occupancy row in JSON format.
func (w *JSONStdoutWriter) WriteOccupancy(row metrics.OccupancyRow) error {
	return w.print(row)
}

// WriteDelivered outputs a delivered-count row in JSON format.
func (w *JSONStdoutWriter) WriteDelivered(row metrics.DeliveredRow) error {
	return w.print(row)
}

// WriteSummary outputs the summary row in JSON format.
func (w *JSONStdoutWriter) WriteSummary(row metrics.SummaryRow) error {
	return w.print(row)
}
