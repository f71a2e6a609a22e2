package morph

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-morph/pkg/math"
	"github.com/Faultbox/midgard-morph/pkg/mesh"
)

func tetraMesh() *mesh.Mesh {
	m := &mesh.Mesh{
		Positions: []r3.Vector{
			{X: 1, Y: 1, Z: 1},
			{X: 1, Y: -1, Z: -1},
			{X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1},
		},
		Faces: []mesh.Face{
			{Vertices: [3]int{0, 1, 2}},
			{Vertices: [3]int{0, 3, 1}},
			{Vertices: [3]int{0, 2, 3}},
			{Vertices: [3]int{1, 3, 2}},
		},
		Color: mesh.RGBA(255, 0, 0, 255),
	}
	m.ComputeFaceNormals()
	return m
}

func cubeMesh() *mesh.Mesh {
	m := &mesh.Mesh{
		Positions: []r3.Vector{
			{X: -1, Y: -1, Z: -1},
			{X: 1, Y: -1, Z: -1},
			{X: 1, Y: 1, Z: -1},
			{X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1},
			{X: 1, Y: -1, Z: 1},
			{X: 1, Y: 1, Z: 1},
			{X: -1, Y: 1, Z: 1},
		},
		Color: mesh.RGBA(0, 0, 255, 255),
	}
	for _, f := range [][3]int{
		{0, 2, 1}, {0, 3, 2}, // z = -1
		{4, 5, 6}, {4, 6, 7}, // z = +1
		{0, 1, 5}, {0, 5, 4}, // y = -1
		{3, 7, 6}, {3, 6, 2}, // y = +1
		{0, 4, 7}, {0, 7, 3}, // x = -1
		{1, 2, 6}, {1, 6, 5}, // x = +1
	} {
		m.Faces = append(m.Faces, mesh.Face{Vertices: f})
	}
	m.ComputeFaceNormals()
	return m
}

// rotatedTetra returns the tetrahedron scaled and turned so that none of its
// edges lines up with the cube's.
func rotatedTetra() *mesh.Mesh {
	m := tetraMesh()
	m.Transform(math.RotateEuler(0.3, 0.5, 0.7).Mul(math.Scale(1.5, 1.5, 1.5)))
	return m
}

// cycledTetra returns the tetrahedron doubled in size and turned a third of a
// revolution about (1, 1, 1), which maps its vertex set onto itself.
func cycledTetra() *mesh.Mesh {
	m := tetraMesh()
	for i, p := range m.Positions {
		m.Positions[i] = r3.Vector{X: 2 * p.Y, Y: 2 * p.Z, Z: 2 * p.X}
	}
	for i, n := range m.Normals {
		m.Normals[i] = r3.Vector{X: n.Y, Y: n.Z, Z: n.X}
	}
	m.Color = mesh.RGBA(0, 255, 0, 127)
	return m
}

func mustProject(t testing.TB, m *mesh.Mesh, opts ...ProjectionOption) *Projection {
	t.Helper()
	p, err := NewProjection(m, opts...)
	require.NoError(t, err)
	return p
}

func mustBuild(t testing.TB, a, b *mesh.Mesh) *Merger {
	t.Helper()
	m, err := Build(mustProject(t, a), mustProject(t, b))
	require.NoError(t, err)
	return m
}
