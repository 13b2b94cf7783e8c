// ColorStdoutWriter prints human-friendly, colorized report rows to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"dtnreport/internal/metrics"
)

// occupancy at or above this level is highlighted.
const highOccupancy = 90.0

var (
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hostStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	hotStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	deliveryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
)

// ColorStdoutWriter prints report rows using terminal colors.
type ColorStdoutWriter struct {
	out io.Writer
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter() *ColorStdoutWriter {
	return &ColorStdoutWriter{out: os.Stdout}
}

// WriteOccupancy prints one host's window sample.
func (w *ColorStdoutWriter) WriteOccupancy(row metrics.OccupancyRow) error {
	style := okStyle
	if row.Occupancy >= highOccupancy {
		style = hotStyle
	}
	_, err := fmt.Fprintf(w.out, "%s %s %s\n",
		timeStyle.Render(fmt.Sprintf("[t=%.0f]", row.SimTime)),
		hostStyle.Render(row.Host),
		style.Render(fmt.Sprintf("%.2f%%", row.Occupancy)))
	return err
}

// WriteDelivered prints the cumulative delivered count of a window.
func (w *ColorStdoutWriter) WriteDelivered(row metrics.DeliveredRow) error {
	_, err := fmt.Fprintf(w.out, "%s %s\n",
		timeStyle.Render(fmt.Sprintf("[t=%d]", row.Bucket)),
		deliveryStyle.Render(fmt.Sprintf("delivered=%d", row.Delivered)))
	return err
}

// WriteSummary prints the end-of-run statistics as a table.
func (w *ColorStdoutWriter) WriteSummary(row metrics.SummaryRow) error {
	fmt.Fprintln(w.out, titleStyle.Render("Message stats for run "+row.RunID))
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "sim_time:\t%.1f\n", row.SimTime)
	fmt.Fprintf(tw, "created:\t%d\n", row.Created)
	fmt.Fprintf(tw, "started:\t%d\n", row.Started)
	fmt.Fprintf(tw, "relayed:\t%d\n", row.Relayed)
	fmt.Fprintf(tw, "aborted:\t%d\n", row.Aborted)
	fmt.Fprintf(tw, "delivered:\t%d\n", row.Delivered)
	fmt.Fprintf(tw, "response_created:\t%d\n", row.ResponseCreated)
	fmt.Fprintf(tw, "response_delivered:\t%d\n", row.ResponseDelivered)
	fmt.Fprintf(tw, "delivery_prob:\t%.4f\n", row.DeliveryProb)
	fmt.Fprintf(tw, "response_prob:\t%.4f\n", row.ResponseProb)
	fmt.Fprintf(tw, "overhead_ratio:\t%.4f\n", row.OverheadRatio)
	fmt.Fprintf(tw, "latency_avg/med:\t%.4f / %.4f\n", row.LatencyAvg, row.LatencyMedian)
	fmt.Fprintf(tw, "hopcount_avg/med:\t%.4f / %.4f\n", row.HopCountAvg, row.HopCountMedian)
	fmt.Fprintf(tw, "rtt_avg/med:\t%.4f / %.4f\n", row.RTTAvg, row.RTTMedian)
	return tw.Flush()
}
