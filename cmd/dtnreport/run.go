package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"dtnreport/internal/admin"
	"dtnreport/internal/config"
	"dtnreport/internal/logging"
	"dtnreport/internal/scenario"
	"dtnreport/internal/sim"
)

// runOptions are the flags shared by simulate and replay.
type runOptions struct {
	configPath string
	schemaPath string
	printOnly  bool
	logFile    string
	reportPath string
	adminAddr  string
}

func (o *runOptions) loadConfig(log *slog.Logger) (*config.ReportConfig, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(o.configPath, o.schemaPath, log)
}

// runTrace drives events through an engine with both reporters attached and
// writes the report text to o.reportPath, or out when no path is set.
func runTrace(ctx context.Context, o *runOptions, cfg *config.ReportConfig, events []scenario.Event, endTime, updateInterval float64, out io.Writer) error {
	log := logging.FromContext(ctx)

	writer, cleanup, err := newWriter(o.printOnly, o.logFile, log)
	if err != nil {
		return err
	}
	defer cleanup()

	e := sim.NewEngine(sim.EngineConfig{
		UpdateInterval:    updateInterval,
		EndTime:           endTime,
		DefaultBufferSize: cfg.Traffic.BufferSize,
	})
	reporters, err := sim.NewReporters(e, cfg, os.Getenv("RUN_ID"), time.Now().UTC(), writer, log)
	if err != nil {
		return err
	}
	log = log.With("run_id", reporters.RunID)

	if o.adminAddr != "" {
		srv := admin.NewServer(e, reporters, log)
		go func() {
			if err := srv.Start(ctx, o.adminAddr); err != nil {
				log.Error("admin server failed", "err", err)
			}
		}()
	}

	log.Info("run started", "events", len(events), "end_time", endTime)
	text, err := e.Run(ctx, events)
	if err != nil {
		return fmt.Errorf("run %s: %w", reporters.RunID, err)
	}
	if err := reporters.WriteSummary(writer); err != nil {
		log.Error("summary write failed", "err", err)
	}
	st := e.Status()
	log.Info("run finished", "sim_time", st.SimTime, "ticks", st.Ticks, "hosts", st.Hosts, "messages", st.Messages)

	if o.reportPath != "" {
		return os.WriteFile(o.reportPath, []byte(text), 0o644)
	}
	_, err = io.WriteString(out, text)
	return err
}

func addRunFlags(fs interface {
	StringVar(p *string, name, value, usage string)
	BoolVar(p *bool, name string, value bool, usage string)
}, o *runOptions) {
	fs.StringVar(&o.configPath, "config", "", "Path to report configuration YAML (defaults apply when empty)")
	fs.StringVar(&o.schemaPath, "schema", "", "Path to CUE schema file (embedded schema when empty)")
	fs.BoolVar(&o.printOnly, "print-only", false, "Print report rows to STDOUT instead of writing to DB")
	fs.StringVar(&o.logFile, "log-file", "", "Path to export occupancy rows (JSONL); delivered and summary rows go to .delivered and .summary")
	fs.StringVar(&o.reportPath, "report", "", "Write the final report text to this file instead of STDOUT")
	fs.StringVar(&o.adminAddr, "admin", "", "Serve run status on this address (e.g. :8080)")
}
