// Package config loads the carbonchallenge configuration: simulation window
// and constants, editing gates, logging and output preferences.
//
// Values are layered: built-in defaults, then the YAML config file (each top
// level section replaces the default section wholesale), then CARBON_*
// environment variables. CLI flags are applied by the caller last.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/carbonchallenge/internal/board"
	"github.com/rshade/carbonchallenge/internal/engine"
	"github.com/rshade/carbonchallenge/internal/logging"
)

// Output format names.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

const (
	defaultPrecision = 1
	maxPrecision     = 6
)

// Config is the full configuration document.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Settings   SettingsConfig   `yaml:"settings"`
	Logging    LoggingConfig    `yaml:"logging"`
	Output     OutputConfig     `yaml:"output"`

	configPath string
}

// SimulationConfig fixes the simulation window and the engine constants.
type SimulationConfig struct {
	// CurrentYear is the first simulated year. Zero means the year the
	// configuration was loaded.
	CurrentYear int `yaml:"current_year,omitempty"`

	EndYear                 int     `yaml:"end_year"`
	BaselineYearlyEmissions float64 `yaml:"baseline_yearly_emissions"`
	WarmingPerGigatonne     float64 `yaml:"warming_per_gigatonne"`
}

// SettingsConfig holds the editing gates of the board.
type SettingsConfig struct {
	MagicMode      bool `yaml:"magic_mode"`
	CustomPolicies bool `yaml:"custom_policies"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// OutputConfig sets CLI output defaults.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// New returns the built-in defaults. The current year is taken from now.
func New(now time.Time) *Config {
	return &Config{
		Simulation: SimulationConfig{
			CurrentYear:             now.Year(),
			EndYear:                 engine.DefaultSimEndYear,
			BaselineYearlyEmissions: engine.OrigYearlyEmissionsGigaTonnes,
			WarmingPerGigatonne:     engine.HighEstDegreesWarmingPerGigaTonne,
		},
		Settings: SettingsConfig{
			CustomPolicies: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     defaultPrecision,
		},
	}
}

// Load builds the effective configuration. When path is empty the default
// config file is used if it exists; an explicit path must exist. Simulation
// values left at zero, including the current year, fall back to the defaults.
func Load(path string, now time.Time) (*Config, error) {
	cfg := New(now)

	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	cfg.configPath = path

	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.fillSimulationDefaults(now)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillSimulationDefaults replaces zero simulation values, which a partial
// simulation section leaves behind, with the built-in defaults.
func (c *Config) fillSimulationDefaults(now time.Time) {
	defaults := New(now).Simulation
	sim := &c.Simulation
	if sim.CurrentYear == 0 {
		sim.CurrentYear = defaults.CurrentYear
	}
	if sim.EndYear == 0 {
		sim.EndYear = defaults.EndYear
	}
	if sim.BaselineYearlyEmissions == 0 {
		sim.BaselineYearlyEmissions = defaults.BaselineYearlyEmissions
	}
	if sim.WarmingPerGigatonne == 0 {
		sim.WarmingPerGigatonne = defaults.WarmingPerGigatonne
	}
}

// ConfigPath returns the file this configuration is read from and saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating the parent directory.
// The current year is omitted so a saved file keeps following the clock.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	out := *c
	out.Simulation.CurrentYear = 0
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatNDJSON:
	default:
		return fmt.Errorf("output: unknown default_format %q", c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		return fmt.Errorf("output: precision must be between 0 and %d, got %d", maxPrecision, c.Output.Precision)
	}

	switch c.Logging.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("logging: unknown format %q", c.Logging.Format)
	}
	if _, err := logging.ParseLevelStrict(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// EngineConfig converts the simulation section for engine.New.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		CurrentYear:             c.Simulation.CurrentYear,
		EndYear:                 c.Simulation.EndYear,
		BaselineYearlyEmissions: c.Simulation.BaselineYearlyEmissions,
		WarmingPerGigatonne:     c.Simulation.WarmingPerGigatonne,
	}
}

// Window is the simulation window for board.New.
func (c *Config) Window() board.Window {
	return board.Window{CurrentYear: c.Simulation.CurrentYear, EndYear: c.Simulation.EndYear}
}

// BoardSettings converts the settings section for board.New.
func (c *Config) BoardSettings() board.Settings {
	return board.Settings{
		MagicModeEnabled:      c.Settings.MagicMode,
		CustomPoliciesEnabled: c.Settings.CustomPolicies,
	}
}
