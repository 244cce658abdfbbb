package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// A nil flags value applies no overrides.
//
// Parameters:
//   - flags: parsed command-line flags, see ParseFlags
//
// Returns:
//   - *Config: the merged configuration
//   - string: the file that was loaded, or empty if none was found
//   - error: error if the file exists but cannot be decoded
func Load(flags *Flags) (*Config, string, error) {
	cfg := Default()

	path := ""
	if flags != nil {
		path = flags.ConfigPath
	}
	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, "", fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	flags.apply(cfg)
	return cfg, path, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.toml",
		filepath.Join(ConfigDir(), "config.yaml"),
		filepath.Join(ConfigDir(), "config.toml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Wayfare")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Wayfare")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "wayfare")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "wayfare")
	}
}

// LoadFile decodes a YAML or TOML file into cfg, keeping values the file does not set.
// The format is chosen by extension; anything other than .toml is read as YAML.
//
// Parameters:
//   - cfg: the config to merge into
//   - path: the file to read
//
// Returns:
//   - error: error if the file cannot be read or decoded
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isTOML(path) {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// SaveTo writes cfg to path in the format matching its extension.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
