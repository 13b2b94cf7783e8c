// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"dtnreport/internal/report"
)

// Traffic configures the synthetic traffic generator.
type Traffic struct {
	Hosts              int     `yaml:"hosts"`
	Duration           float64 `yaml:"duration"`
	UpdateInterval     float64 `yaml:"update_interval"`
	MessageIntervalMin float64 `yaml:"message_interval_min"`
	MessageIntervalMax float64 `yaml:"message_interval_max"`
	MessageSize        int64   `yaml:"message_size"`
	ResponseRatio      float64 `yaml:"response_ratio"`
	BufferSize         int64   `yaml:"buffer_size"`
	TransferTime       float64 `yaml:"transfer_time"`
	MaxHops            int     `yaml:"max_hops"`
	AbortRate          float64 `yaml:"abort_rate"`
	DropRate           float64 `yaml:"drop_rate"`
	Seed               int64   `yaml:"seed"`
}

// ReportConfig is the root configuration of a reporting run.
type ReportConfig struct {
	OccupancyInterval int     `yaml:"occupancy_interval"`
	MessageInterval   int     `yaml:"message_interval"`
	Warmup            float64 `yaml:"warmup"`
	OccupancyMode     string  `yaml:"occupancy_mode"`
	OccupancyPolicy   string  `yaml:"occupancy_policy"`
	Traffic           Traffic `yaml:"traffic"`
}

// Default returns the configuration used when no file is given.
func Default() *ReportConfig {
	cfg := &ReportConfig{}
	cfg.ApplyDefaults(nil)
	return cfg
}

// Load reads a YAML config, validates it against the CUE schema and fills in
// defaults. An empty schema path selects the embedded schema.
func Load(configPath, cueSchemaPath string, log *slog.Logger) (*ReportConfig, error) {
	if log == nil {
		log = slog.Default()
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	schema := embeddedSchema
	if cueSchemaPath != "" {
		if schema, err = os.ReadFile(cueSchemaPath); err != nil {
			return nil, fmt.Errorf("read CUE schema: %w", err)
		}
	}
	if err := ValidateWithCue(configPath, data, schema); err != nil {
		return nil, err
	}

	var cfg ReportConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults(log)

	log.Info("loaded configuration", "path", configPath,
		"occupancy_interval", cfg.OccupancyInterval,
		"message_interval", cfg.MessageInterval,
		"warmup", cfg.Warmup)
	return &cfg, nil
}

// ApplyDefaults replaces missing or invalid values with their defaults.
// Invalid sampling intervals are logged, never fatal.
func (c *ReportConfig) ApplyDefaults(log *slog.Logger) {
	if iv, fallback := report.NormalizeInterval(c.OccupancyInterval); fallback {
		if log != nil && c.OccupancyInterval != 0 {
			log.Warn("invalid occupancy_interval, using default", "configured", c.OccupancyInterval, "default", iv)
		}
		c.OccupancyInterval = iv
	}
	if iv, fallback := report.NormalizeInterval(c.MessageInterval); fallback {
		if log != nil && c.MessageInterval != 0 {
			log.Warn("invalid message_interval, using default", "configured", c.MessageInterval, "default", iv)
		}
		c.MessageInterval = iv
	}
	if c.Warmup < 0 {
		c.Warmup = 0
	}
	if c.OccupancyMode == "" {
		c.OccupancyMode = report.Latest.String()
	}
	if c.OccupancyPolicy == "" {
		c.OccupancyPolicy = report.Absolute.String()
	}

	t := &c.Traffic
	if t.Hosts <= 1 {
		t.Hosts = 10
	}
	if t.Duration <= 0 {
		t.Duration = 43200
	}
	if t.UpdateInterval <= 0 {
		t.UpdateInterval = 1
	}
	if t.MessageIntervalMin <= 0 {
		t.MessageIntervalMin = 25
	}
	if t.MessageIntervalMax < t.MessageIntervalMin {
		t.MessageIntervalMax = t.MessageIntervalMin + 10
	}
	if t.MessageSize <= 0 {
		t.MessageSize = 500_000
	}
	if t.BufferSize <= 0 {
		t.BufferSize = 5_000_000
	}
	if t.TransferTime <= 0 {
		t.TransferTime = 2
	}
	if t.MaxHops <= 0 {
		t.MaxHops = 4
	}
	t.ResponseRatio = clamp01(t.ResponseRatio)
	t.AbortRate = clamp01(t.AbortRate)
	t.DropRate = clamp01(t.DropRate)
}

// SamplerPolicy parses the configured occupancy sampling policy.
func (c *ReportConfig) SamplerPolicy() (report.Policy, error) {
	return report.ParsePolicy(c.OccupancyPolicy)
}

// SamplerMode parses the configured occupancy report mode.
func (c *ReportConfig) SamplerMode() (report.OccupancyMode, error) {
	return report.ParseOccupancyMode(c.OccupancyMode)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
