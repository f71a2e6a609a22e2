// morphtool merges two star-shaped meshes and writes morph frames between them.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-morph/internal/config"
	"github.com/Faultbox/midgard-morph/internal/logger"
	"github.com/Faultbox/midgard-morph/pkg/formats"
	"github.com/Faultbox/midgard-morph/pkg/mesh"
	"github.com/Faultbox/midgard-morph/pkg/morph"
	"github.com/Faultbox/midgard-morph/pkg/shapes"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(args)
	case "merge":
		cmdMerge(args)
	case "frames", "animate":
		cmdFrames(args)
	case "shape":
		cmdShape(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`morphtool - spherical mesh merge and morph utility

Usage:
  morphtool [global flags] <command> [options]

Commands:
  info <mesh.obj>                          Show mesh statistics
  merge [-ratio R -o out.obj] <a.obj> <b.obj>
                                           Merge two meshes and print statistics
  frames [-n N] [-out DIR] [-format obj|stl] <a.obj> <b.obj>
                                           Write morph frames
  shape [-size S -cells N] <name> <out>    Generate a primitive (box, cylinder,
                                           rounded-box, sphere)
  config [path]                            Write the effective config (YAML or TOML)

Global flags:
  -config, -debug, -start, -end, -frames, -out, -radius, -epsilon

Examples:
  morphtool info cube.obj
  morphtool merge cube.obj sphere.obj
  morphtool merge shape:box shape:sphere
  morphtool shape -size 2 sphere sphere.obj
  morphtool -debug frames -n 25 -out ./frames cube.obj sphere.obj`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: morphtool info <mesh.obj>")
		os.Exit(1)
	}

	m, err := formats.ParseOBJFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	b := m.Bounds()
	c := m.Centroid()
	fmt.Printf("Mesh:      %s\n", args[0])
	fmt.Printf("Vertices:  %d\n", m.VertexCount())
	fmt.Printf("Normals:   %d\n", len(m.Normals))
	fmt.Printf("Triangles: %d\n", m.TriangleCount())
	fmt.Printf("Bounds:    (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	fmt.Printf("Centroid:  (%.3f, %.3f, %.3f)\n", c.X, c.Y, c.Z)

	if err := m.Validate(); err != nil {
		fmt.Printf("Valid:     no (%v)\n", err)
		return
	}
	if _, err := morph.NewProjection(m); err != nil {
		fmt.Printf("Valid:     yes, but cannot be projected (%v)\n", err)
		return
	}
	fmt.Println("Valid:     yes")
}

func cmdMerge(args []string) {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	ratio := fs.Float64("ratio", 0.5, "Ratio of the mesh written with -o")
	out := fs.String("o", "", "Write the merged mesh at -ratio to this OBJ file")
	fs.Parse(args)

	cfg := setup()
	defer logger.Sync()
	m := buildMerger(cfg, fs.Args())

	start, end := m.Start(), m.End()
	fmt.Printf("Start:     %s\n", cfg.Start.Path)
	fmt.Printf("End:       %s\n", cfg.End.Path)
	fmt.Printf("Vertices:  %d\n", m.VertexCount())
	fmt.Printf("Triangles: %d\n", m.TriangleCount())
	fmt.Printf("Colors:    %v -> %v\n", start.Color().Array(), end.Color().Array())

	if *out == "" {
		return
	}
	s, err := m.Interpolate(*ratio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := writeMesh(*out, s.Mesh()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Written:   %s (ratio %.3f)\n", *out, *ratio)
}

func cmdFrames(args []string) {
	fs := flag.NewFlagSet("frames", flag.ExitOnError)
	n := fs.Int("n", 0, "Number of frames (overrides config)")
	outDir := fs.String("out", "", "Output directory (overrides config)")
	prefix := fs.String("prefix", "", "Frame file name prefix (overrides config)")
	format := fs.String("format", "obj", "Frame file format: obj or stl")
	fs.Parse(args)

	ext := "." + strings.ToLower(*format)
	if ext != ".obj" && ext != ".stl" {
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *format)
		os.Exit(1)
	}

	cfg := setup()
	defer logger.Sync()
	if *n > 0 {
		cfg.Morph.Frames = *n
		cfg.Morph.Step = 0
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *prefix != "" {
		cfg.Output.Prefix = *prefix
	}

	m := buildMerger(cfg, fs.Args())
	anim, err := morph.NewAnimator(m, cfg.Morph.FrameStep())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	started := time.Now()
	count := 0
	for {
		s, ok := anim.Next()
		if !ok {
			break
		}
		name := fmt.Sprintf("%s_%04d%s", cfg.Output.Prefix, count, ext)
		path := filepath.Join(cfg.Output.Dir, name)
		if err := writeMesh(path, s.Mesh()); err != nil {
			logger.Error("failed to write frame", zap.String("path", path), zap.Error(err))
			os.Exit(1)
		}
		logger.Debug("frame written", zap.String("path", path), zap.Float64("ratio", s.Ratio))
		count++
	}

	logger.Info("frames written",
		zap.Int("frames", count),
		zap.String("dir", cfg.Output.Dir),
		zap.Duration("elapsed", time.Since(started)))
	fmt.Printf("Written %d frames to %s\n", count, cfg.Output.Dir)
}

func cmdShape(args []string) {
	fs := flag.NewFlagSet("shape", flag.ExitOnError)
	size := fs.Float64("size", 2, "Overall size of the primitive")
	cells := fs.Int("cells", shapes.DefaultCells, "Marching cubes resolution")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Usage: morphtool shape [-size S -cells N] <%s> <out.obj|out.stl>\n",
			strings.Join(shapes.Names(), "|"))
		os.Exit(1)
	}

	m, err := shapes.Generate(fs.Arg(0), *size, *cells)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := writeMesh(fs.Arg(1), m); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Written %s: %d vertices, %d triangles\n", fs.Arg(1), m.VertexCount(), m.TriangleCount())
}

func cmdConfig(args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(args) > 0 {
		err = cfg.SaveTo(args[0])
	} else {
		err = cfg.Save()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}
	if len(args) > 0 {
		fmt.Printf("Config written to %s\n", args[0])
	} else {
		fmt.Printf("Config written to %s\n", config.DefaultPath())
	}
}

// setup loads configuration and initializes logging.
func setup() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	l := cfg.Logging
	file := logger.FileConfig{
		Path:       l.LogFile,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
	if err := logger.Init(l.Level, file); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)
	return cfg
}

// buildMerger loads both meshes named by args (or the config) and merges them.
func buildMerger(cfg *config.Config, args []string) *morph.Merger {
	if len(args) > 0 {
		cfg.Start.Path = args[0]
	}
	if len(args) > 1 {
		cfg.End.Path = args[1]
	}
	if cfg.Start.Path == "" || cfg.End.Path == "" {
		fmt.Fprintln(os.Stderr, "Error: both a start and an end mesh are required")
		os.Exit(1)
	}

	start := loadProjection(cfg, cfg.Start)
	end := loadProjection(cfg, cfg.End)

	began := time.Now()
	m, err := morph.Build(start, end, morph.WithLogger(logger.Named("morph")))
	if err != nil {
		logger.Error("merge failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("meshes merged",
		zap.String("start", cfg.Start.Path),
		zap.String("end", cfg.End.Path),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
		zap.Duration("elapsed", time.Since(began)))
	return m
}

func loadProjection(cfg *config.Config, mc config.MeshConfig) *morph.Projection {
	m, err := loadMesh(mc.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", mc.Path, err)
		os.Exit(1)
	}
	m.Color = mesh.ColorFromArray(mc.Color)
	m.Transform(mc.Placement(m.Centroid()))

	p, err := morph.NewProjection(m,
		morph.WithRadius(cfg.Morph.Radius),
		morph.WithEpsilon(cfg.Morph.Epsilon))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error projecting %s: %v\n", mc.Path, err)
		os.Exit(1)
	}
	logger.Debug("mesh projected",
		zap.String("path", mc.Path),
		zap.Int("vertices", p.VertexCount()),
		zap.Int("edges", len(p.Edges())))
	return p
}

// loadMesh reads an OBJ file, or generates a unit primitive for a
// "shape:<name>" path.
func loadMesh(path string) (*mesh.Mesh, error) {
	if name, ok := strings.CutPrefix(path, "shape:"); ok {
		return shapes.Generate(name, 2, shapes.DefaultCells)
	}
	return formats.ParseOBJFile(path)
}

// writeMesh writes m as STL when path ends in .stl and as OBJ otherwise.
func writeMesh(path string, m *mesh.Mesh) error {
	if strings.EqualFold(filepath.Ext(path), ".stl") {
		return formats.WriteSTLFile(path, m)
	}
	return formats.WriteOBJFile(path, m)
}
