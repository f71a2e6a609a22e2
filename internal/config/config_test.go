package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/midgard-morph/pkg/math"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test morph defaults
	if cfg.Morph.Radius != 100 {
		t.Errorf("expected radius 100, got %f", cfg.Morph.Radius)
	}
	if cfg.Morph.Epsilon != 1e-9 {
		t.Errorf("expected epsilon 1e-9, got %g", cfg.Morph.Epsilon)
	}
	if cfg.Morph.Frames != 51 {
		t.Errorf("expected 51 frames, got %d", cfg.Morph.Frames)
	}

	// Test mesh defaults
	if cfg.Start.Scale != 1 || cfg.End.Scale != 1 {
		t.Errorf("expected unit scale, got %f and %f", cfg.Start.Scale, cfg.End.Scale)
	}
	if cfg.Start.Color[3] != 255 {
		t.Errorf("expected opaque start color, got %v", cfg.Start.Color)
	}

	// Test output defaults
	if cfg.Output.Dir != "frames" {
		t.Errorf("expected output dir 'frames', got %s", cfg.Output.Dir)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.MaxSizeMB != 50 {
		t.Errorf("expected max size 50, got %d", cfg.Logging.MaxSizeMB)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
morph:
  radius: 50
  epsilon: 1.0e-7
  frames: 11
  step: 0.05

start:
  path: "cube.obj"
  color: [255, 0, 0, 128]
  scale: 2
  rotate: [0, 90, 0]
  translate: [1, 2, 3]

end:
  path: "sphere.obj"

output:
  dir: "out"
  prefix: "morph"

logging:
  level: "debug"
  log_file: "morph.log"
  compress: false
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Morph.Radius != 50 {
		t.Errorf("expected radius 50, got %f", cfg.Morph.Radius)
	}
	if cfg.Morph.Epsilon != 1e-7 {
		t.Errorf("expected epsilon 1e-7, got %g", cfg.Morph.Epsilon)
	}
	if cfg.Morph.Frames != 11 {
		t.Errorf("expected 11 frames, got %d", cfg.Morph.Frames)
	}

	if cfg.Start.Path != "cube.obj" {
		t.Errorf("expected start path cube.obj, got %s", cfg.Start.Path)
	}
	if cfg.Start.Color != [4]uint8{255, 0, 0, 128} {
		t.Errorf("expected start color [255 0 0 128], got %v", cfg.Start.Color)
	}
	if cfg.Start.Scale != 2 {
		t.Errorf("expected start scale 2, got %f", cfg.Start.Scale)
	}
	if cfg.Start.Rotate != [3]float64{0, 90, 0} {
		t.Errorf("expected start rotation [0 90 0], got %v", cfg.Start.Rotate)
	}
	if cfg.Start.Translate != [3]float64{1, 2, 3} {
		t.Errorf("expected start translation [1 2 3], got %v", cfg.Start.Translate)
	}

	// Unset fields keep their defaults
	if cfg.End.Path != "sphere.obj" {
		t.Errorf("expected end path sphere.obj, got %s", cfg.End.Path)
	}
	if cfg.End.Scale != 1 {
		t.Errorf("expected default end scale 1, got %f", cfg.End.Scale)
	}

	if cfg.Output.Dir != "out" || cfg.Output.Prefix != "morph" {
		t.Errorf("expected output out/morph, got %s/%s", cfg.Output.Dir, cfg.Output.Prefix)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "morph.log" {
		t.Errorf("expected log file 'morph.log', got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.Compress {
		t.Error("expected compress to be false")
	}
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("expected default max backups 3, got %d", cfg.Logging.MaxBackups)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
morph:
  radius: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("morph:\n  radius: 10\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "mesh flags",
			setup: func() {
				*flagStart = "a.obj"
				*flagEnd = "b.obj"
			},
			verify: func(cfg *Config) {
				if cfg.Start.Path != "a.obj" || cfg.End.Path != "b.obj" {
					t.Errorf("expected a.obj -> b.obj, got %s -> %s", cfg.Start.Path, cfg.End.Path)
				}
			},
			teardown: func() {
				*flagStart = ""
				*flagEnd = ""
			},
		},
		{
			name: "frames flag clears step",
			setup: func() {
				*flagFrames = 5
			},
			verify: func(cfg *Config) {
				if cfg.Morph.Frames != 5 {
					t.Errorf("expected 5 frames, got %d", cfg.Morph.Frames)
				}
				if cfg.Morph.Step != 0 {
					t.Errorf("expected step to be cleared, got %f", cfg.Morph.Step)
				}
			},
			teardown: func() {
				*flagFrames = 0
			},
		},
		{
			name: "out flag",
			setup: func() {
				*flagOut = "/tmp/morph"
			},
			verify: func(cfg *Config) {
				if cfg.Output.Dir != "/tmp/morph" {
					t.Errorf("expected output dir /tmp/morph, got %s", cfg.Output.Dir)
				}
			},
			teardown: func() {
				*flagOut = ""
			},
		},
		{
			name: "radius and epsilon flags",
			setup: func() {
				*flagRadius = 10
				*flagEpsilon = 1e-6
			},
			verify: func(cfg *Config) {
				if cfg.Morph.Radius != 10 {
					t.Errorf("expected radius 10, got %f", cfg.Morph.Radius)
				}
				if cfg.Morph.Epsilon != 1e-6 {
					t.Errorf("expected epsilon 1e-6, got %g", cfg.Morph.Epsilon)
				}
			},
			teardown: func() {
				*flagRadius = 0
				*flagEpsilon = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			cfg.Morph.Step = 0.1
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
morph:
  radius: 40
  frames: 9
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagRadius = 75
	defer func() {
		*flagConfig = ""
		*flagRadius = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Radius should be from flag (75), not file (40)
	if cfg.Morph.Radius != 75 {
		t.Errorf("expected radius 75 from flag, got %f", cfg.Morph.Radius)
	}

	// Frames should be from file (9) since no flag override
	if cfg.Morph.Frames != 9 {
		t.Errorf("expected 9 frames from file, got %d", cfg.Morph.Frames)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Start.Path = "cube.obj"
	cfg.Start.Rotate = [3]float64{10, 20, 30}
	cfg.Morph.Step = 0.125
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	got := Default()
	if err := loadFromFile(got, path); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestFrameStep(t *testing.T) {
	tests := []struct {
		cfg  MorphConfig
		want float64
	}{
		{MorphConfig{Frames: 5}, 0.25},
		{MorphConfig{Frames: 51}, 0.02},
		{MorphConfig{Frames: 1}, 1},
		{MorphConfig{Frames: 5, Step: 0.1}, 0.1},
	}
	for _, tt := range tests {
		if got := tt.cfg.FrameStep(); got != tt.want {
			t.Errorf("FrameStep(%+v) = %v, want %v", tt.cfg, got, tt.want)
		}
	}
}

func TestPlacement(t *testing.T) {
	near := func(a, b math.Vec3) bool { return a.Sub(b).Norm() < 1e-9 }
	center := math.V(1, 1, 1)

	// Identity placement leaves points alone.
	m := MeshConfig{}
	if p := m.Placement(center).TransformPoint(math.V(3, 4, 5)); !near(p, math.V(3, 4, 5)) {
		t.Errorf("zero placement moved point to %v", p)
	}

	// Scale about the center keeps the center fixed.
	m = MeshConfig{Scale: 2}
	if p := m.Placement(center).TransformPoint(center); !near(p, center) {
		t.Errorf("center moved to %v", p)
	}
	if p := m.Placement(center).TransformPoint(math.V(2, 1, 1)); !near(p, math.V(3, 1, 1)) {
		t.Errorf("expected (3, 1, 1), got %v", p)
	}

	// Rotation happens before translation.
	m = MeshConfig{Scale: 1, Rotate: [3]float64{0, 0, 90}, Translate: [3]float64{10, 0, 0}}
	if p := m.Placement(math.V(0, 0, 0)).TransformPoint(math.V(1, 0, 0)); !near(p, math.V(10, 1, 0)) {
		t.Errorf("expected (10, 1, 0), got %v", p)
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("morph:\n  raduis: 10\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for misspelled key, got nil")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load, got %v", err)
	}
	if *cfg != *Default() {
		t.Error("empty file changed the defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero radius", func(c *Config) { c.Morph.Radius = 0 }, false},
		{"negative epsilon", func(c *Config) { c.Morph.Epsilon = -1 }, false},
		{"step too large", func(c *Config) { c.Morph.Step = 1.5 }, false},
		{"no frames", func(c *Config) { c.Morph.Frames = 0 }, false},
		{"step without frames", func(c *Config) { c.Morph.Frames = 0; c.Morph.Step = 0.1 }, true},
		{"negative scale", func(c *Config) { c.End.Scale = -2 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestMarshal(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	out := string(data)
	if !strings.HasPrefix(out, fileHeader) {
		t.Errorf("missing header in:\n%s", out)
	}
	if !strings.Contains(out, "\n  radius: 100\n") {
		t.Errorf("expected two-space indented radius in:\n%s", out)
	}
}

func TestLoadFromTOMLFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	tomlContent := `
[morph]
radius = 25.0
frames = 3

[start]
path = "cube.obj"
color = [10, 20, 30, 40]

[output]
prefix = "toml"
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Morph.Radius != 25 || cfg.Morph.Frames != 3 {
		t.Errorf("expected radius 25 and 3 frames, got %f and %d", cfg.Morph.Radius, cfg.Morph.Frames)
	}
	if cfg.Start.Path != "cube.obj" || cfg.Start.Color != [4]uint8{10, 20, 30, 40} {
		t.Errorf("unexpected start mesh %+v", cfg.Start)
	}
	if cfg.Output.Prefix != "toml" || cfg.Output.Dir != "frames" {
		t.Errorf("unexpected output %+v", cfg.Output)
	}
	if cfg.Morph.Epsilon != 1e-9 {
		t.Errorf("expected default epsilon, got %g", cfg.Morph.Epsilon)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[morph]\nraduis = 1.0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(Default(), bad); err == nil {
		t.Error("expected error for misspelled TOML key, got nil")
	}
}

func TestSaveToTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Morph.Radius = 42
	cfg.Output.Dir = "out"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !strings.HasPrefix(string(data), fileHeader) || !strings.Contains(string(data), "[morph]") {
		t.Errorf("expected commented TOML, got:\n%s", data)
	}

	got := Default()
	if err := loadFromFile(got, path); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if got.Morph != cfg.Morph || got.Output != cfg.Output {
		t.Errorf("round trip mismatch: got %+v %+v", got.Morph, got.Output)
	}
}
