package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvHome           = "CARBON_HOME"
	EnvCurrentYear    = "CARBON_CURRENT_YEAR"
	EnvEndYear        = "CARBON_END_YEAR"
	EnvLogLevel       = "CARBON_LOG_LEVEL"
	EnvMagicMode      = "CARBON_MAGIC_MODE"
	EnvCustomPolicies = "CARBON_CUSTOM_POLICIES"
)

// ApplyEnvOverrides applies CARBON_* variables on top of the loaded values.
// Malformed numbers or booleans are errors rather than silently ignored.
func (c *Config) ApplyEnvOverrides() error {
	if err := envInt(EnvCurrentYear, &c.Simulation.CurrentYear); err != nil {
		return err
	}
	if err := envInt(EnvEndYear, &c.Simulation.EndYear); err != nil {
		return err
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if err := envBool(EnvMagicMode, &c.Settings.MagicMode); err != nil {
		return err
	}
	return envBool(EnvCustomPolicies, &c.Settings.CustomPolicies)
}

func envInt(name string, dst *int) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid integer %q", name, raw)
	}
	*dst = v
	return nil
}

func envBool(name string, dst *bool) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid boolean %q", name, raw)
	}
	*dst = v
	return nil
}
