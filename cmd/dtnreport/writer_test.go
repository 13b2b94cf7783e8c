package main

import (
	"os"
	"path/filepath"
	"testing"

	"dtnreport/internal/metrics"
	"dtnreport/internal/sim"
)

func TestNewWriterPrintOnly(t *testing.T) {
	w, cleanup, err := newWriter(true, "", nil)
	if err != nil {
		t.Fatalf("newWriter returned error: %v", err)
	}
	cleanup()
	if _, ok := w.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", w)
	}
}

func TestNewWriterGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, cleanup, err := newWriter(false, "", nil)
	if err != nil {
		t.Fatalf("newWriter returned error: %v", err)
	}
	cleanup()
	if _, ok := w.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", w)
	}
}

func TestNewWriterLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "occupancy.log")
	w, cleanup, err := newWriter(true, path, nil)
	if err != nil {
		t.Fatalf("newWriter returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", w)
	}
	if err := w.WriteOccupancy(metrics.OccupancyRow{RunID: "r", Host: "n0", Occupancy: 12}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.WriteSummary(metrics.SummaryRow{RunID: "r", Created: 1}); err != nil {
		t.Fatalf("write summary failed: %v", err)
	}
	for _, p := range []string{path, path + ".summary"} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s to be non-empty", p)
		}
	}
	if _, err := os.Stat(path + ".delivered"); err != nil {
		t.Fatalf("delivered log not created: %v", err)
	}
}
