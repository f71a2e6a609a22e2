package morph

import (
	"github.com/golang/geo/r3"

	"github.com/Faultbox/midgard-morph/pkg/mesh"
)

// Snapshot is the merged mesh at one ratio. It shares its triangle list with
// the Merger that produced it.
type Snapshot struct {
	Ratio float64

	positions []r3.Vector
	normals   []r3.Vector
	triangles [][3]int
	color     mesh.Color
}

// VertexCount returns the number of vertices.
func (s *Snapshot) VertexCount() int {
	return len(s.positions)
}

// TriangleCount returns the number of triangles.
func (s *Snapshot) TriangleCount() int {
	return len(s.triangles)
}

// Triangle returns the three corner positions of triangle i.
func (s *Snapshot) Triangle(i int) [3]r3.Vector {
	t := s.triangles[i]
	return [3]r3.Vector{s.positions[t[0]], s.positions[t[1]], s.positions[t[2]]}
}

// Indices returns the vertex indices of triangle i.
func (s *Snapshot) Indices(i int) [3]int {
	return s.triangles[i]
}

// Positions returns the vertex positions. Callers must not modify them.
func (s *Snapshot) Positions() []r3.Vector {
	return s.positions
}

// Normals returns the blended vertex normals, which are not unit length in
// general. Callers must not modify them.
func (s *Snapshot) Normals() []r3.Vector {
	return s.normals
}

// Color returns the blended color.
func (s *Snapshot) Color() mesh.Color {
	return s.color
}

// Mesh converts the snapshot to a standalone mesh with one normal per
// vertex.
func (s *Snapshot) Mesh() *mesh.Mesh {
	m := &mesh.Mesh{
		Positions: append([]r3.Vector(nil), s.positions...),
		Normals:   append([]r3.Vector(nil), s.normals...),
		Faces:     make([]mesh.Face, len(s.triangles)),
		Color:     s.color,
	}
	for i, t := range s.triangles {
		m.Faces[i] = mesh.Face{Vertices: t, Normals: t}
	}
	return m
}
