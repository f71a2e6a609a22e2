package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when loaded settings cannot drive a merge.
var ErrInvalidConfig = errors.New("invalid config")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path wins over the search locations
	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the merge and animation depend on.
func (c *Config) Validate() error {
	m := c.Morph
	switch {
	case m.Radius <= 0:
		return fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidConfig, m.Radius)
	case m.Epsilon <= 0:
		return fmt.Errorf("%w: epsilon must be positive, got %g", ErrInvalidConfig, m.Epsilon)
	case m.Step < 0 || m.Step > 1:
		return fmt.Errorf("%w: step must be in [0, 1], got %g", ErrInvalidConfig, m.Step)
	case m.Step == 0 && m.Frames < 1:
		return fmt.Errorf("%w: frames must be at least 1, got %d", ErrInvalidConfig, m.Frames)
	}
	for name, mc := range map[string]MeshConfig{"start": c.Start, "end": c.End} {
		if mc.Scale < 0 {
			return fmt.Errorf("%w: %s scale must not be negative, got %g", ErrInvalidConfig, name, mc.Scale)
		}
	}
	return nil
}

// findConfigFile returns the first existing config file in the working
// directory or the user config directory.
func findConfigFile() string {
	for _, path := range []string{"./config.yaml", "./config.toml", DefaultPath()} {
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
		return filepath.Join(home, "Library", "Application Support", "MidgardMorph")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MidgardMorph")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "midgard-morph")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "midgard-morph")
	}
}

// DefaultPath returns the config file location used by Save.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// loadFromFile merges a YAML or TOML file into cfg, chosen by extension.
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if isTOML(path) {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
