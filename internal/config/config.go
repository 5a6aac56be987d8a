// Package config loads the daemon configuration from YAML.
package config

import (
	"fmt"
	"net"
	"os"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const MetricsAddrEnvVar = "CADENCE_METRICS_ADDR"

// Config is the daemon configuration.
type Config struct {
	Schedules   Schedules `yaml:"schedules"`
	MetricsAddr string    `yaml:"metrics_addr,omitempty"`
	// RunOnStart runs expansion and mode evaluation before the first tick.
	RunOnStart *bool `yaml:"run_on_start,omitempty"`
}

// Schedules holds a standard 5-field cron spec per pass.
type Schedules struct {
	Expansion   string `yaml:"expansion"`
	Mode        string `yaml:"mode"`
	Arbitration string `yaml:"arbitration"`
	Summary     string `yaml:"summary"`
	Prune       string `yaml:"prune"`
}

func Default() *Config {
	runOnStart := true
	return &Config{
		Schedules: Schedules{
			Expansion:   "5 0 * * *",
			Mode:        "*/15 * * * *",
			Arbitration: "*/5 * * * *",
			Summary:     "*/15 * * * *",
			Prune:       "30 3 * * *",
		},
		RunOnStart: &runOnStart,
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv(MetricsAddrEnvVar); addr != "" {
		c.MetricsAddr = addr
	}
}

// fillDefaults restores schedules blanked out by the file.
func (c *Config) fillDefaults() {
	d := Default()
	orDefault(&c.Schedules.Expansion, d.Schedules.Expansion)
	orDefault(&c.Schedules.Mode, d.Schedules.Mode)
	orDefault(&c.Schedules.Arbitration, d.Schedules.Arbitration)
	orDefault(&c.Schedules.Summary, d.Schedules.Summary)
	orDefault(&c.Schedules.Prune, d.Schedules.Prune)
	if c.RunOnStart == nil {
		c.RunOnStart = d.RunOnStart
	}
}

func orDefault(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// ShouldRunOnStart reports whether the daemon primes expansion and mode at startup.
func (c *Config) ShouldRunOnStart() bool {
	return c.RunOnStart == nil || *c.RunOnStart
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for name, spec := range c.Schedules.byName() {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid %s schedule %q: %w", name, spec, err)
		}
	}
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			return fmt.Errorf("invalid metrics_addr %q: %w", c.MetricsAddr, err)
		}
	}
	return nil
}

func (s Schedules) byName() map[string]string {
	return map[string]string{
		"expansion":   s.Expansion,
		"mode":        s.Mode,
		"arbitration": s.Arbitration,
		"summary":     s.Summary,
		"prune":       s.Prune,
	}
}
