// Package config handles scenecast configuration loading and management.
package config

import "time"

// Config holds all scenecast settings.
type Config struct {
	// Prefix is an optional command prefix inserted before any renderer
	// executable, e.g. "nice -n 19".
	Prefix   string                   `yaml:"prefix"`
	Backends map[string]BackendConfig `yaml:"backends"`
	Render   RenderConfig             `yaml:"render"`
	Logging  LoggingConfig            `yaml:"logging"`
}

// BackendConfig holds per-renderer executable settings. An empty Path means
// the renderer is not configured on this machine.
type BackendConfig struct {
	Path   string `yaml:"path"`
	Params string `yaml:"params"` // default CLI parameters
}

// RenderConfig holds invocation settings shared by all backends.
type RenderConfig struct {
	Timeout  time.Duration `yaml:"timeout"`  // kill the renderer after this long; 0 = no limit
	External bool          `yaml:"external"` // open the renderer's own viewer instead of headless
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values. All renderer paths
// start empty: the user points them at local installs.
func Default() *Config {
	return &Config{
		Backends: map[string]BackendConfig{
			"cycles":  {},
			"luxcore": {},
			"povray":  {},
		},
		Render: RenderConfig{
			Timeout: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Backend returns the configuration for the named backend; a zero value is
// returned for backends the file does not mention.
func (c *Config) Backend(name string) BackendConfig {
	return c.Backends[name]
}
