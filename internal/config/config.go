// Package config handles morph tool configuration loading and management.
package config

import (
	stdmath "math"

	"github.com/Faultbox/midgard-morph/pkg/math"
)

// Config holds all tool settings.
type Config struct {
	Morph   MorphConfig   `yaml:"morph" toml:"morph"`
	Start   MeshConfig    `yaml:"start" toml:"start"`
	End     MeshConfig    `yaml:"end" toml:"end"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// MorphConfig holds merge and animation settings.
type MorphConfig struct {
	Radius  float64 `yaml:"radius" toml:"radius"`   // Projection sphere radius
	Epsilon float64 `yaml:"epsilon" toml:"epsilon"` // Geometric tolerance
	Frames  int     `yaml:"frames" toml:"frames"`   // Frames written by "frames", both ends included
	Step    float64 `yaml:"step" toml:"step"`       // Ratio step; overrides Frames when > 0
}

// MeshConfig describes one input mesh and the placement applied after
// loading it.
type MeshConfig struct {
	Path  string   `yaml:"path" toml:"path"`
	Color [4]uint8 `yaml:"color" toml:"color"` // RGBA

	// Placement: uniform scale about the centroid, rotation in degrees
	// around X, Y and Z, then translation.
	Scale     float64    `yaml:"scale" toml:"scale"`
	Rotate    [3]float64 `yaml:"rotate" toml:"rotate"`
	Translate [3]float64 `yaml:"translate" toml:"translate"`
}

// OutputConfig holds where generated meshes are written.
type OutputConfig struct {
	Dir    string `yaml:"dir" toml:"dir"`
	Prefix string `yaml:"prefix" toml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	LogFile    string `yaml:"log_file" toml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Morph: MorphConfig{
			Radius:  100,
			Epsilon: 1e-9,
			Frames:  51,
		},
		Start: MeshConfig{
			Color: [4]uint8{230, 80, 60, 255},
			Scale: 1,
		},
		End: MeshConfig{
			Color: [4]uint8{60, 120, 230, 255},
			Scale: 1,
		},
		Output: OutputConfig{
			Dir:    "frames",
			Prefix: "frame",
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// FrameStep returns the ratio increment between frames.
func (m MorphConfig) FrameStep() float64 {
	if m.Step > 0 {
		return m.Step
	}
	if m.Frames < 2 {
		return 1
	}
	return 1 / float64(m.Frames-1)
}

// Placement returns the rotation, scale and translation of the mesh as one
// matrix. Scaling and rotation happen about center.
func (m MeshConfig) Placement(center math.Vec3) math.Mat4 {
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	rot := math.RotateEuler(radians(m.Rotate[0]), radians(m.Rotate[1]), radians(m.Rotate[2]))

	return math.Translate(m.Translate[0], m.Translate[1], m.Translate[2]).
		Mul(math.Translate(center.X, center.Y, center.Z)).
		Mul(rot).
		Mul(math.Scale(scale, scale, scale)).
		Mul(math.Translate(-center.X, -center.Y, -center.Z))
}

func radians(deg float64) float64 {
	return deg * stdmath.Pi / 180
}
