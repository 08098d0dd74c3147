package config

import (
	"flag"
	"time"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagExternal = flag.Bool("external", false, "Open the renderer's interactive viewer")
	flagTimeout  = flag.Duration("timeout", 0, "Kill the renderer after this duration")
	flagPrefix   = flag.String("prefix", "", "Command prefix for the renderer invocation")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagExternal {
		cfg.Render.External = true
	}
	if *flagTimeout > time.Duration(0) {
		cfg.Render.Timeout = *flagTimeout
	}
	if *flagPrefix != "" {
		cfg.Prefix = *flagPrefix
	}
}
