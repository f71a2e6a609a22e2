package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagStart   = flag.String("start", "", "Start mesh (OBJ)")
	flagEnd     = flag.String("end", "", "End mesh (OBJ)")
	flagFrames  = flag.Int("frames", 0, "Number of frames to write")
	flagOut     = flag.String("out", "", "Output directory")
	flagRadius  = flag.Float64("radius", 0, "Projection sphere radius")
	flagEpsilon = flag.Float64("epsilon", 0, "Geometric tolerance")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
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
	if *flagStart != "" {
		cfg.Start.Path = *flagStart
	}
	if *flagEnd != "" {
		cfg.End.Path = *flagEnd
	}
	if *flagFrames > 0 {
		cfg.Morph.Frames = *flagFrames
		cfg.Morph.Step = 0
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagRadius > 0 {
		cfg.Morph.Radius = *flagRadius
	}
	if *flagEpsilon > 0 {
		cfg.Morph.Epsilon = *flagEpsilon
	}
}
