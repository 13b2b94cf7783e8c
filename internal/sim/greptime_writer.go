package sim

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"dtnreport/internal/metrics"
)

const (
	defaultGreptimePort = 4001
	greptimeTimeout     = 5 * time.Second
)

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeTables names the destination tables.
type GreptimeTables struct {
	Occupancy string
	Delivered string
	Summary   string
}

func (t GreptimeTables) withDefaults() GreptimeTables {
	if t.Occupancy == "" {
		t.Occupancy = "buffer_occupancy"
	}
	if t.Delivered == "" {
		t.Delivered = "messages_delivered"
	}
	if t.Summary == "" {
		t.Summary = "message_stats"
	}
	return t
}

// GreptimeDBWriter writes report rows to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client greptimeClient
	tables GreptimeTables
	log    *slog.Logger
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port").
func NewGreptimeDBWriter(endpoint, database string, tables GreptimeTables, log *slog.Logger) (*GreptimeDBWriter, error) {
	host, port := endpoint, defaultGreptimePort
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid GreptimeDB port %q: %w", p, err)
		}
		host, port = h, n
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &GreptimeDBWriter{client: client, tables: tables.withDefaults(), log: log}, nil
}

func (w *GreptimeDBWriter) write(name string, tbl *table.Table, rows int) error {
	ctx, cancel := context.WithTimeout(context.Background(), greptimeTimeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tbl); err != nil {
		w.log.Error("greptime write failed", "table", name, "err", err)
		return err
	}
	w.log.Debug("greptime write", "table", name, "rows", rows)
	return nil
}

// WriteOccupancy inserts a single occupancy row.
func (w *GreptimeDBWriter) WriteOccupancy(row metrics.OccupancyRow) error {
	return w.WriteOccupancies([]metrics.OccupancyRow{row})
}

// WriteOccupancies inserts multiple occupancy rows.
func (w *GreptimeDBWriter) WriteOccupancies(rows []metrics.OccupancyRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.tables.Occupancy)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		column{"run_id", types.STRING, tag},
		column{"host", types.STRING, tag},
		column{"sim_time", types.FLOAT64, field},
		column{"occupancy", types.FLOAT64, field},
		column{"ts", types.TIMESTAMP_MILLISECOND, timestamp},
	); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.Host, r.SimTime, r.Occupancy, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(w.tables.Occupancy, tbl, len(rows))
}

// WriteDelivered inserts a delivered-count row.
func (w *GreptimeDBWriter) WriteDelivered(row metrics.DeliveredRow) error {
	tbl, err := table.New(w.tables.Delivered)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		column{"run_id", types.STRING, tag},
		column{"bucket", types.INT64, field},
		column{"delivered", types.INT64, field},
		column{"ts", types.TIMESTAMP_MILLISECOND, timestamp},
	); err != nil {
		return err
	}
	if err := tbl.AddRow(row.RunID, int64(row.Bucket), int64(row.Delivered), row.Timestamp); err != nil {
		return err
	}
	return w.write(w.tables.Delivered, tbl, 1)
}

// WriteSummary inserts the end-of-run summary row.
func (w *GreptimeDBWriter) WriteSummary(row metrics.SummaryRow) error {
	tbl, err := table.New(w.tables.Summary)
	if err != nil {
		return err
	}
	cols := []column{{"run_id", types.STRING, tag}}
	vals := []any{row.RunID}
	for _, f := range []struct {
		name string
		v    any
	}{
		{"sim_time", row.SimTime},
		{"created", int64(row.Created)},
		{"started", int64(row.Started)},
		{"relayed", int64(row.Relayed)},
		{"aborted", int64(row.Aborted)},
		{"dropped", int64(row.Dropped)},
		{"removed", int64(row.Removed)},
		{"delivered", int64(row.Delivered)},
		{"response_created", int64(row.ResponseCreated)},
		{"response_delivered", int64(row.ResponseDelivered)},
		{"delivery_prob", row.DeliveryProb},
		{"response_prob", row.ResponseProb},
		{"overhead_ratio", row.OverheadRatio},
		{"latency_avg", row.LatencyAvg},
		{"latency_med", row.LatencyMedian},
		{"hopcount_avg", row.HopCountAvg},
		{"hopcount_med", row.HopCountMedian},
		{"rtt_avg", row.RTTAvg},
		{"rtt_med", row.RTTMedian},
	} {
		typ := types.FLOAT64
		if _, ok := f.v.(int64); ok {
			typ = types.INT64
		}
		cols = append(cols, column{f.name, typ, field})
		vals = append(vals, f.v)
	}
	cols = append(cols, column{"ts", types.TIMESTAMP_MILLISECOND, timestamp})
	vals = append(vals, row.Timestamp)
	if err := addColumns(tbl, cols...); err != nil {
		return err
	}
	if err := tbl.AddRow(vals...); err != nil {
		return err
	}
	return w.write(w.tables.Summary, tbl, 1)
}

type columnKind int

const (
	tag columnKind = iota
	field
	timestamp
)

type column struct {
	name string
	typ  types.ColumnType
	kind columnKind
}

func addColumns(tbl *table.Table, cols ...column) error {
	for _, c := range cols {
		var err error
		switch c.kind {
		case tag:
			err = tbl.AddTagColumn(c.name, c.typ)
		case field:
			err = tbl.AddFieldColumn(c.name, c.typ)
		case timestamp:
			err = tbl.AddTimestampColumn(c.name, c.typ)
		}
		if err != nil {
			return fmt.Errorf("column %s: %w", c.name, err)
		}
	}
	return nil
}
