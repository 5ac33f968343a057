package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flag.String("log-file", "", "Write logs to this file as well")
	flagBlend     = flag.Duration("blend", 0, "Ragdoll-to-animation blend duration")
	flagDuration  = flag.Duration("duration", 0, "Simulated time to run")
	flagFrameRate = flag.Int("fps", 0, "Simulation frame rate")
	flagRealtime  = flag.Bool("realtime", false, "Pace frames to the wall clock")
	flagWatch     = flag.Bool("watch", false, "Reload the config file when it changes")

	flagWriteConfig = flag.String("write-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WatchEnabled reports whether --watch was given.
func WatchEnabled() bool {
	return *flagWatch
}

// WriteConfigPath returns the --write-config target, empty when unset.
func WriteConfigPath() string {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagBlend > 0 {
		cfg.Ragdoll.BlendDuration = *flagBlend
	}
	if *flagDuration > 0 {
		cfg.Simulation.Duration = *flagDuration
	}
	if *flagFrameRate > 0 {
		cfg.Simulation.FrameRate = *flagFrameRate
	}
	if *flagRealtime {
		cfg.Simulation.Realtime = true
	}
}
