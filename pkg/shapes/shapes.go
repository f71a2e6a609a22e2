// Package shapes generates closed primitive meshes by polygonizing signed
// distance fields with github.com/deadsy/sdfx. The results are convex, so
// they project cleanly onto a sphere and make handy morph targets.
package shapes

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	mmath "github.com/Faultbox/midgard-morph/pkg/math"
	"github.com/Faultbox/midgard-morph/pkg/mesh"
)

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 24

// ErrUnknownShape is returned by Generate for an unsupported primitive name.
var ErrUnknownShape = errors.New("unknown shape")

// builders maps primitive names to SDF constructors for a given size.
var builders = map[string]func(size float64) (sdf.SDF3, error){
	"sphere": func(size float64) (sdf.SDF3, error) {
		return sdf.Sphere3D(size / 2)
	},
	"box": func(size float64) (sdf.SDF3, error) {
		return sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, 0)
	},
	"rounded-box": func(size float64) (sdf.SDF3, error) {
		return sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, size/8)
	},
	"cylinder": func(size float64) (sdf.SDF3, error) {
		return sdf.Cylinder3D(size, size/2, 0)
	},
}

// Names returns the supported primitive names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate builds the named primitive with the given overall size, centered
// at the origin. cells <= 0 selects DefaultCells.
func Generate(name string, size float64, cells int) (*mesh.Mesh, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownShape, name, Names())
	}
	if !(size > 0) {
		return nil, fmt.Errorf("shapes: size must be positive, got %g", size)
	}
	s, err := build(size)
	if err != nil {
		return nil, fmt.Errorf("shapes: %s: %w", name, err)
	}
	return FromSDF(s, cells), nil
}

// FromSDF polygonizes s with uniform marching cubes and welds the resulting
// triangle soup into an indexed mesh with flat face normals.
func FromSDF(s sdf.SDF3, cells int) *mesh.Mesh {
	if cells <= 0 {
		cells = DefaultCells
	}
	tris := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	soup := make([][3]mmath.Vec3, 0, len(tris))
	for _, t := range tris {
		soup = append(soup, [3]mmath.Vec3{toVec(t[0]), toVec(t[1]), toVec(t[2])})
	}

	bb := s.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	return Weld(soup, math.Max(size.X, math.Max(size.Y, size.Z))*1e-9)
}

func toVec(v v3.Vec) mmath.Vec3 {
	return mmath.V(v.X, v.Y, v.Z)
}

// Weld merges corners of soup that fall into the same tol-sized grid cell
// and returns the indexed mesh. Triangles that collapse onto fewer than
// three distinct vertices are dropped, and the rest are wound to face away
// from the centroid.
func Weld(soup [][3]mmath.Vec3, tol float64) *mesh.Mesh {
	if !(tol > 0) {
		tol = 1e-12
	}

	m := &mesh.Mesh{Color: mesh.RGBA(255, 255, 255, 255)}
	index := make(map[[3]int64]int, len(soup))
	vertex := func(p mmath.Vec3) int {
		key := [3]int64{
			int64(math.Round(p.X / tol)),
			int64(math.Round(p.Y / tol)),
			int64(math.Round(p.Z / tol)),
		}
		if i, ok := index[key]; ok {
			return i
		}
		index[key] = len(m.Positions)
		m.Positions = append(m.Positions, p)
		return len(m.Positions) - 1
	}

	for _, t := range soup {
		a, b, c := vertex(t[0]), vertex(t[1]), vertex(t[2])
		if a == b || b == c || a == c {
			continue
		}
		m.Faces = append(m.Faces, mesh.Face{Vertices: [3]int{a, b, c}})
	}

	center := m.Centroid()
	for i := range m.Faces {
		c := m.Corners(i)
		n := c[1].Sub(c[0]).Cross(c[2].Sub(c[0]))
		if n.Dot(mmath.Centroid(c[:]).Sub(center)) < 0 {
			v := &m.Faces[i].Vertices
			v[1], v[2] = v[2], v[1]
		}
	}
	m.ComputeFaceNormals()
	return m
}
