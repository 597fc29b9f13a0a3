// Package config loads the benchmark run configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Logging configures the run logger.
type Logging struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is json or console.
	Format string `yaml:"format"`
	// File enables rotating file output when set; empty logs to stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Config is the full run configuration. Flags override file values.
type Config struct {
	// Engine names the decision engine under benchmark.
	Engine string `yaml:"engine"`
	// Warmup is the discarded call count per scenario.
	Warmup int `yaml:"warmup"`
	// Samples is the timed call count per scenario.
	Samples int `yaml:"samples"`
	// Output is the results file path; empty derives
	// "<engine>-benchmark-results.json".
	Output  string  `yaml:"output"`
	Logging Logging `yaml:"logging"`
}

// Default returns the configuration used when no file or flags are given.
func Default() Config {
	return Config{
		Engine:  "cel",
		Warmup:  100,
		Samples: 1000,
		Logging: Logging{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the runner cannot execute.
func (c *Config) Validate() error {
	if c.Engine == "" {
		return fmt.Errorf("engine must be set")
	}
	if c.Warmup < 0 {
		return fmt.Errorf("warmup must be non-negative, got %d", c.Warmup)
	}
	if c.Samples < 0 {
		return fmt.Errorf("samples must be non-negative, got %d", c.Samples)
	}
	return nil
}

// OutputPath resolves the results file path.
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return fmt.Sprintf("%s-benchmark-results.json", c.Engine)
}
