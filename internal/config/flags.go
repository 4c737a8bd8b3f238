package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagWidth  = flag.Int("width", 0, "Viewport width")
	flagHeight = flag.Int("height", 0, "Viewport height")
	flagFrames = flag.Int("frames", -1, "Number of frames to render")
	flagOut    = flag.String("out", "", "Frame output directory")
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
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
	}
	if *flagFrames >= 0 {
		cfg.Output.Frames = *flagFrames
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
}
