package main

import (
	"log/slog"
	"os"

	"dtnreport/internal/sim"
)

// newWriter sets up the report row writer based on flags and env vars.
// It returns the writer and a cleanup function to close any resources.
func newWriter(printOnly bool, logFile string, log *slog.Logger) (sim.Writer, func(), error) {
	cleanup := func() {}

	writer, err := baseWriter(printOnly, log)
	if err != nil {
		return nil, nil, err
	}
	if logFile == "" {
		return writer, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".delivered", logFile+".summary")
	if err != nil {
		return nil, nil, err
	}
	cleanup = func() { fw.Close() }
	return sim.NewMultiWriter(writer, fw), cleanup, nil
}

// baseWriter chooses the underlying writer based on printOnly flag and env vars.
func baseWriter(printOnly bool, log *slog.Logger) (sim.Writer, error) {
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if printOnly || endpoint == "" {
		return sim.NewStdoutWriter(), nil
	}
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	tables := sim.GreptimeTables{
		Occupancy: os.Getenv("OCCUPANCY_TABLE"),
		Delivered: os.Getenv("DELIVERED_TABLE"),
		Summary:   os.Getenv("SUMMARY_TABLE"),
	}
	return sim.NewGreptimeDBWriter(endpoint, database, tables, log)
}
