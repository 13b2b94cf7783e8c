package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `
occupancy_interval: 600
message_interval: 300
warmup: 120.5
occupancy_mode: series
occupancy_policy: aligned
traffic:
  hosts: 5
  seed: 9
`)
	cfg, err := Load(path, "", nil)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.OccupancyInterval != 600 || cfg.MessageInterval != 300 || cfg.Warmup != 120.5 {
		t.Errorf("unexpected intervals: %+v", cfg)
	}
	if cfg.Traffic.Hosts != 5 || cfg.Traffic.Seed != 9 {
		t.Errorf("unexpected traffic: %+v", cfg.Traffic)
	}
	if cfg.Traffic.Duration != 43200 || cfg.Traffic.MaxHops != 4 {
		t.Errorf("traffic defaults not applied: %+v", cfg.Traffic)
	}
	mode, err := cfg.SamplerMode()
	if err != nil || mode.String() != "series" {
		t.Errorf("mode = %v, %v", mode, err)
	}
	policy, err := cfg.SamplerPolicy()
	if err != nil || policy.String() != "aligned" {
		t.Errorf("policy = %v, %v", policy, err)
	}
}

func TestLoadConfig_InvalidIntervalFallsBack(t *testing.T) {
	path := writeConfig(t, "occupancy_interval: -5\nmessage_interval: 0\n")
	cfg, err := Load(path, "", nil)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.OccupancyInterval != 3600 || cfg.MessageInterval != 3600 {
		t.Errorf("intervals = %d/%d, want defaults", cfg.OccupancyInterval, cfg.MessageInterval)
	}
}

func TestLoadConfig_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"bad mode":    "occupancy_mode: average\n",
		"bad policy":  "occupancy_policy: sliding\n",
		"unknown key": "sample_every: 10\n",
		"bad ratio":   "traffic:\n  drop_rate: 3\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body), "", nil); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadConfig_ExternalSchema(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "strict.cue")
	if err := os.WriteFile(schema, []byte("#ReportConfig: {occupancy_interval: >=60}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(writeConfig(t, "occupancy_interval: 10\n"), schema, nil); err == nil {
		t.Fatalf("expected external schema to reject interval")
	}
	if _, err := Load(writeConfig(t, "occupancy_interval: 120\n"), schema, nil); err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.OccupancyInterval != 3600 || cfg.OccupancyMode != "latest" || cfg.OccupancyPolicy != "absolute" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Traffic.UpdateInterval != 1 || cfg.Traffic.Hosts != 10 {
		t.Fatalf("unexpected traffic defaults: %+v", cfg.Traffic)
	}
}
