// Package formats reads and writes mesh files.
// OBJ (Wavefront) parser and writer for triangle meshes.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/midgard-morph/pkg/math"
	"github.com/Faultbox/midgard-morph/pkg/mesh"
)

// OBJ format errors.
var (
	ErrInvalidOBJ         = errors.New("invalid OBJ data")
	ErrUnsupportedOBJFace = errors.New("unsupported OBJ face: only triangles are supported")
)

// ParseOBJ parses Wavefront OBJ data. Only v, vn and f records are used;
// texture coordinates, groups and materials are skipped. Faces must be
// triangles. When the file has no normals, flat face normals are computed.
func ParseOBJ(data []byte) (*mesh.Mesh, error) {
	m := &mesh.Mesh{}
	sc := bufio.NewScanner(bytes.NewReader(data))

	withNormals, withoutNormals := 0, 0
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: vertex: %v", ErrInvalidOBJ, line, err)
			}
			m.Positions = append(m.Positions, v)

		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: normal: %v", ErrInvalidOBJ, line, err)
			}
			m.Normals = append(m.Normals, n.Normalize())

		case "f":
			if len(fields) != 4 {
				return nil, fmt.Errorf("%w: line %d has %d vertices", ErrUnsupportedOBJFace, line, len(fields)-1)
			}
			var f mesh.Face
			normals := 0
			for i, ref := range fields[1:] {
				v, vn, err := parseFaceRef(ref, len(m.Positions), len(m.Normals))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidOBJ, line, err)
				}
				f.Vertices[i] = v
				if vn >= 0 {
					f.Normals[i] = vn
					normals++
				}
			}
			switch normals {
			case 0:
				withoutNormals++
			case 3:
				withNormals++
			default:
				return nil, fmt.Errorf("%w: line %d: mixed normal references", ErrInvalidOBJ, line)
			}
			m.Faces = append(m.Faces, f)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ data: %w", err)
	}

	switch {
	case withNormals > 0 && withoutNormals > 0:
		return nil, fmt.Errorf("%w: %d faces lack normals", ErrInvalidOBJ, withoutNormals)
	case withNormals == 0:
		m.ComputeFaceNormals()
	}
	return m, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*mesh.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	var c [3]float64
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math.Vec3{}, err
		}
		c[i] = f
	}
	return math.V(c[0], c[1], c[2]), nil
}

// parseFaceRef parses one "v", "v/vt", "v//vn" or "v/vt/vn" reference and
// returns zero-based vertex and normal indices. vn is -1 when absent.
// Negative OBJ indices count back from the last element read so far.
func parseFaceRef(ref string, nv, nn int) (v, vn int, err error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return 0, 0, fmt.Errorf("bad face reference %q", ref)
	}
	if v, err = resolveIndex(parts[0], nv); err != nil {
		return 0, 0, fmt.Errorf("vertex reference %q: %w", ref, err)
	}
	vn = -1
	if len(parts) == 3 && parts[2] != "" {
		if vn, err = resolveIndex(parts[2], nn); err != nil {
			return 0, 0, fmt.Errorf("normal reference %q: %w", ref, err)
		}
	}
	return v, vn, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("index %d out of range [1, %d]", i, n)
}

// EncodeOBJ writes m as OBJ text. Faces use the v//vn form and the color is
// written as a comment.
func EncodeOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	c := m.Color
	fmt.Fprintf(bw, "# color %d %d %d %d\n", c.R, c.G, c.B, c.A)
	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", formatFloat(n.X), formatFloat(n.Y), formatFloat(n.Z))
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n",
			f.Vertices[0]+1, f.Normals[0]+1,
			f.Vertices[1]+1, f.Normals[1]+1,
			f.Vertices[2]+1, f.Normals[2]+1)
	}
	return bw.Flush()
}

// WriteOBJFile writes m to path.
func WriteOBJFile(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating OBJ file: %w", err)
	}
	if err := EncodeOBJ(f, m); err != nil {
		f.Close()
		return fmt.Errorf("writing OBJ file: %w", err)
	}
	return f.Close()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
