// Package config handles loading, saving and hot-reloading of engine and game settings.
package config

// Config holds every setting of a running game.
type Config struct {
	Window   WindowConfig   `yaml:"window" toml:"window"`
	Renderer RendererConfig `yaml:"renderer" toml:"renderer"`
	Map      MapConfig      `yaml:"map" toml:"map"`
	Audio    AudioConfig    `yaml:"audio" toml:"audio"`
	Log      LogConfig      `yaml:"log" toml:"log"`
	Profiler ProfilerConfig `yaml:"profiler" toml:"profiler"`
}

// WindowConfig holds presentation surface settings.
type WindowConfig struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`
	VSync  bool   `yaml:"vsync" toml:"vsync"`
}

// RendererConfig holds renderer settings.
type RendererConfig struct {
	// Workers bounds the uniform preparation pool. 0 picks one less than the CPU count.
	Workers int `yaml:"workers" toml:"workers"`
	// ParallelThreshold is the object count from which uniform preparation is fanned out.
	ParallelThreshold int `yaml:"parallel_threshold" toml:"parallel_threshold"`
	// ClearColor is used when no active camera provides one.
	ClearColor [4]float64 `yaml:"clear_color" toml:"clear_color"`
	// FallbackAdapter forces the software adapter.
	FallbackAdapter bool `yaml:"fallback_adapter" toml:"fallback_adapter"`
}

// MapConfig holds chunk streaming settings.
type MapConfig struct {
	FarDistance      float32 `yaml:"far_distance" toml:"far_distance"`
	DespawnThreshold float32 `yaml:"despawn_threshold" toml:"despawn_threshold"`
	GenerationCap    int     `yaml:"generation_cap" toml:"generation_cap"`
	MinChunkLength   float32 `yaml:"min_chunk_length" toml:"min_chunk_length"`
	MaxChunkLength   float32 `yaml:"max_chunk_length" toml:"max_chunk_length"`
	Jitter           float32 `yaml:"jitter" toml:"jitter"`
	// Seed fixes the chunk layout; 0 seeds from the clock.
	Seed uint64 `yaml:"seed" toml:"seed"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled" toml:"enabled"`
	MasterVolume float64 `yaml:"master_volume" toml:"master_volume"`
	SampleRate   int     `yaml:"sample_rate" toml:"sample_rate"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level" toml:"level"`
	File       string `yaml:"file" toml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// ProfilerConfig holds frame statistics settings.
type ProfilerConfig struct {
	Enabled         bool    `yaml:"enabled" toml:"enabled"`
	IntervalSeconds float64 `yaml:"interval_seconds" toml:"interval_seconds"`
}

// Default returns a Config with the values the game ships with.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Bionic Jolt",
			VSync:  true,
		},
		Renderer: RendererConfig{
			ParallelThreshold: 64,
			ClearColor:        [4]float64{0, 0, 0, 1},
		},
		Map: MapConfig{
			FarDistance:      100,
			DespawnThreshold: 100,
			GenerationCap:    10,
			MinChunkLength:   1,
			MaxChunkLength:   6,
			Jitter:           0.4,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 0.2,
			SampleRate:   48000,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Profiler: ProfilerConfig{
			Enabled:         false,
			IntervalSeconds: 1,
		},
	}
}
