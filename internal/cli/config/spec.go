package config

import "time"

// CLIConfig holds defaults for the global CLI flags. Empty fields leave
// the built-in flag default in place.
type CLIConfig struct {
	Server  string        `yaml:"server"`
	Output  string        `yaml:"output"` // table, json, yaml
	CAFile  string        `yaml:"ca_file"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns an empty configuration.
func Default() *CLIConfig {
	return &CLIConfig{}
}

// FlagValues returns the configured defaults keyed by global flag name.
func (c *CLIConfig) FlagValues() map[string]string {
	values := make(map[string]string)
	if c.Server != "" {
		values["server"] = c.Server
	}
	if c.Output != "" {
		values["output"] = c.Output
	}
	if c.CAFile != "" {
		values["ca-file"] = c.CAFile
	}
	if c.Timeout > 0 {
		values["timeout"] = c.Timeout.String()
	}
	return values
}
