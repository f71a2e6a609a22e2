// Package mesh holds parsed triangle meshes: positions, per-corner normal
// indices and a solid color.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-morph/pkg/math"
)

// ErrInvalidMesh is returned by Validate for structurally broken meshes.
var ErrInvalidMesh = errors.New("invalid mesh")

// Face is a triangle: three vertex indices and the normal index used at
// each corner.
type Face struct {
	Vertices [3]int
	Normals  [3]int
}

// Mesh is a closed triangle mesh with a single solid color.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Faces     []Face
	Color     Color
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// Centroid returns the mean of all vertex positions.
func (m *Mesh) Centroid() math.Vec3 {
	return math.Centroid(m.Positions)
}

// Corners returns the three positions of face i.
func (m *Mesh) Corners(i int) [3]math.Vec3 {
	f := m.Faces[i]
	return [3]math.Vec3{
		m.Positions[f.Vertices[0]],
		m.Positions[f.Vertices[1]],
		m.Positions[f.Vertices[2]],
	}
}

// CornerNormals returns the three normals of face i.
func (m *Mesh) CornerNormals(i int) [3]math.Vec3 {
	f := m.Faces[i]
	return [3]math.Vec3{
		m.Normals[f.Normals[0]],
		m.Normals[f.Normals[1]],
		m.Normals[f.Normals[2]],
	}
}

// Bounds returns the bounding box of all positions.
func (m *Mesh) Bounds() Bounds {
	if len(m.Positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Min.Z = min(b.Min.Z, p.Z)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
		b.Max.Z = max(b.Max.Z, p.Z)
	}
	return b
}

// Validate checks that the mesh has geometry and that every face index is in
// range and references three distinct vertices.
func (m *Mesh) Validate() error {
	if len(m.Positions) < 4 {
		return fmt.Errorf("%w: need at least 4 vertices, got %d", ErrInvalidMesh, len(m.Positions))
	}
	if len(m.Faces) < 4 {
		return fmt.Errorf("%w: need at least 4 faces, got %d", ErrInvalidMesh, len(m.Faces))
	}
	for i, f := range m.Faces {
		for j := 0; j < 3; j++ {
			if f.Vertices[j] < 0 || f.Vertices[j] >= len(m.Positions) {
				return fmt.Errorf("%w: face %d vertex index %d out of range", ErrInvalidMesh, i, f.Vertices[j])
			}
			if f.Normals[j] < 0 || f.Normals[j] >= len(m.Normals) {
				return fmt.Errorf("%w: face %d normal index %d out of range", ErrInvalidMesh, i, f.Normals[j])
			}
		}
		v := f.Vertices
		if v[0] == v[1] || v[1] == v[2] || v[0] == v[2] {
			return fmt.Errorf("%w: face %d repeats a vertex", ErrInvalidMesh, i)
		}
	}
	return nil
}

// ComputeFaceNormals replaces the normals with one flat normal per face,
// for meshes loaded without normal data. Degenerate faces get (0, 1, 0).
func (m *Mesh) ComputeFaceNormals() {
	m.Normals = make([]math.Vec3, len(m.Faces))
	for i := range m.Faces {
		c := m.Corners(i)
		n := c[1].Sub(c[0]).Cross(c[2].Sub(c[0]))
		if n.Norm() < 1e-12 {
			n = math.V(0, 1, 0)
		}
		m.Normals[i] = n.Normalize()
		m.Faces[i].Normals = [3]int{i, i, i}
	}
}

// Transform applies mat to every position and to every normal (without the
// translation part). Normals are renormalized.
func (m *Mesh) Transform(mat math.Mat4) {
	for i, p := range m.Positions {
		m.Positions[i] = mat.TransformPoint(p)
	}
	for i, n := range m.Normals {
		m.Normals[i] = mat.TransformDirection(n).Normalize()
	}
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Positions: append([]math.Vec3(nil), m.Positions...),
		Normals:   append([]math.Vec3(nil), m.Normals...),
		Faces:     append([]Face(nil), m.Faces...),
		Color:     m.Color,
	}
}
