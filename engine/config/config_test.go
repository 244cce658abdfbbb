package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("Expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Map.FarDistance != 100 || cfg.Map.DespawnThreshold != 100 {
		t.Errorf("Expected map distances 100/100, got %f/%f", cfg.Map.FarDistance, cfg.Map.DespawnThreshold)
	}
	if cfg.Map.GenerationCap != 10 {
		t.Errorf("Expected generation cap 10, got %d", cfg.Map.GenerationCap)
	}
	if cfg.Map.MinChunkLength != 1 || cfg.Map.MaxChunkLength != 6 {
		t.Errorf("Expected chunk lengths 1..6, got %f..%f", cfg.Map.MinChunkLength, cfg.Map.MaxChunkLength)
	}
	if cfg.Audio.MasterVolume != 0.2 {
		t.Errorf("Expected master volume 0.2, got %f", cfg.Audio.MasterVolume)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected log level info, got %s", cfg.Log.Level)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
window:
  width: 1920
  title: "falling"
map:
  far_distance: 50
  seed: 99
audio:
  enabled: false
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Window.Width != 1920 || cfg.Window.Title != "falling" {
		t.Errorf("Expected window overrides, got %+v", cfg.Window)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("Expected unset height to keep its default, got %d", cfg.Window.Height)
	}
	if cfg.Map.FarDistance != 50 || cfg.Map.Seed != 99 || cfg.Map.DespawnThreshold != 100 {
		t.Errorf("Expected merged map settings, got %+v", cfg.Map)
	}
	if cfg.Audio.Enabled {
		t.Error("Expected audio to be disabled")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[renderer]
workers = 3
clear_color = [0.1, 0.6, 1.0, 1.0]

[map]
generation_cap = 4
jitter = 0.25
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Renderer.Workers != 3 || cfg.Renderer.ClearColor != [4]float64{0.1, 0.6, 1, 1} {
		t.Errorf("Expected renderer overrides, got %+v", cfg.Renderer)
	}
	if cfg.Map.GenerationCap != 4 || cfg.Map.Jitter != 0.25 {
		t.Errorf("Expected map overrides, got %+v", cfg.Map)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	badYAML := filepath.Join(dir, "bad.yaml")
	badTOML := filepath.Join(dir, "bad.toml")
	os.WriteFile(badYAML, []byte("window:\n  width: not a number\n"), 0644)
	os.WriteFile(badTOML, []byte("[map\nseed = "), 0644)

	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: filepath.Join(dir, "missing.yaml")},
		{name: "invalid yaml", path: badYAML},
		{name: "invalid toml", path: badTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := LoadFile(Default(), tt.path); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			want := Default()
			want.Map.Seed = 1234
			want.Window.Title = "saved"
			if err := want.SaveTo(path); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			got := &Config{}
			if err := LoadFile(got, path); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got.Map != want.Map || got.Window != want.Window || got.Renderer != want.Renderer {
				t.Errorf("Expected %+v, got %+v", want, got)
			}
		})
	}
}

func TestParseFlagsAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("window:\n  width: 800\naudio:\n  enabled: true\n"), 0644)

	flags, err := ParseFlags("wayfare", []string{"-config", path, "-debug", "-height", "600", "-mute", "-seed", "7", "-profile"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cfg, loaded, err := Load(flags)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if loaded != path {
		t.Errorf("Expected %s to be loaded, got %q", path, loaded)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("Expected file width and flag height, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Audio.Enabled || cfg.Log.Level != "debug" || cfg.Map.Seed != 7 || !cfg.Profiler.Enabled {
		t.Errorf("Expected flags to win over the file, got %+v", cfg)
	}

	if _, err := ParseFlags("wayfare", []string{"-width", "wide"}); err == nil {
		t.Error("Expected an error for a non-numeric width")
	}
}

func TestLoadWithoutFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())

	cfg, loaded, err := Load(nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if loaded != "" {
		t.Errorf("Expected no file, got %s", loaded)
	}
	if *cfg != *Default() {
		t.Error("Expected defaults without a file or flags")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("map:\n  far_distance: 10\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan *Config, 16)
	if err := Watch(ctx, path, func(c *Config) { changes <- c }); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := os.WriteFile(path, []byte("map:\n  far_distance: 42\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite test config: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.Map.FarDistance == 42 {
				if c.Map.DespawnThreshold != 100 {
					t.Errorf("Expected reload to start from defaults, got %f", c.Map.DespawnThreshold)
				}
				return
			}
		case <-deadline:
			t.Fatal("Expected a reload with far_distance 42")
		}
	}
}
