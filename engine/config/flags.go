package config

import "flag"

// Flags holds command-line overrides. Zero values leave the loaded config untouched.
type Flags struct {
	ConfigPath      string
	Debug           bool
	Width           int
	Height          int
	Mute            bool
	Seed            uint64
	Profile         bool
	FallbackAdapter bool
}

// ParseFlags parses command-line arguments, usually os.Args[1:].
//
// Parameters:
//   - name: the program name used in usage output
//   - args: the arguments to parse
//
// Returns:
//   - *Flags: the parsed overrides
//   - error: error if the arguments are invalid
func ParseFlags(name string, args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.BoolVar(&f.Mute, "mute", false, "Disable audio")
	fs.Uint64Var(&f.Seed, "seed", 0, "Map generation seed")
	fs.BoolVar(&f.Profile, "profile", false, "Log frame statistics")
	fs.BoolVar(&f.FallbackAdapter, "fallback-adapter", false, "Force the software GPU adapter")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// apply applies flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Log.Level = "debug"
	}
	if f.Width > 0 {
		cfg.Window.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Window.Height = f.Height
	}
	if f.Mute {
		cfg.Audio.Enabled = false
	}
	if f.Seed != 0 {
		cfg.Map.Seed = f.Seed
	}
	if f.Profile {
		cfg.Profiler.Enabled = true
	}
	if f.FallbackAdapter {
		cfg.Renderer.FallbackAdapter = true
	}
}
