package morph

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/Faultbox/midgard-morph/pkg/geom"
	"github.com/Faultbox/midgard-morph/pkg/math"
	"github.com/Faultbox/midgard-morph/pkg/mesh"
)

// DefaultRadius is the radius of the shared projection sphere.
const DefaultRadius = 100.0

// Projection maps a mesh radially from its centroid onto a sphere of a fixed
// radius centered at the origin, and back.
type Projection struct {
	mesh    *mesh.Mesh
	center  r3.Vector
	radius  float64
	eps     float64
	sphere  []r3.Vector
	normals []r3.Vector
	edges   *geom.EdgeSet
	tris    []geom.Triangle
}

// ProjectionOption configures a Projection.
type ProjectionOption func(*Projection)

// WithRadius sets the sphere radius.
func WithRadius(r float64) ProjectionOption {
	return func(p *Projection) {
		p.radius = r
	}
}

// WithEpsilon sets the tolerance used for geometric tests.
func WithEpsilon(eps float64) ProjectionOption {
	return func(p *Projection) {
		p.eps = eps
	}
}

// NewProjection validates m and projects its vertices onto the sphere. The
// mesh is referenced, not copied, and must not be modified afterwards.
func NewProjection(m *mesh.Mesh, opts ...ProjectionOption) (*Projection, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	p := &Projection{
		mesh:   m,
		center: m.Centroid(),
		radius: DefaultRadius,
		eps:    geom.DefaultEpsilon,
		edges:  geom.NewEdgeSet(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if !(p.radius > 0) || !(p.eps > 0) {
		return nil, fmt.Errorf("%w: radius %g, epsilon %g", ErrInvalidOption, p.radius, p.eps)
	}

	p.sphere = make([]r3.Vector, len(m.Positions))
	for i, v := range m.Positions {
		if v.Sub(p.center).Norm() < p.eps {
			return nil, fmt.Errorf("%w: vertex %d", ErrDegenerateVertex, i)
		}
		p.sphere[i] = math.ProjectToSphere(v, p.center, p.radius)
	}

	p.tris = make([]geom.Triangle, len(m.Faces))
	for i, f := range m.Faces {
		v := f.Vertices
		p.edges.Add(v[0], v[1])
		p.edges.Add(v[1], v[2])
		p.edges.Add(v[0], v[2])

		c := m.Corners(i)
		p.tris[i] = geom.Triangle{A: c[0], B: c[1], C: c[2]}
	}

	p.normals = vertexNormals(m, p.sphere)
	return p, nil
}

// vertexNormals averages, for every vertex, the corner normals of all faces
// that use it. A vertex whose corner normals cancel out falls back to its
// radial direction.
func vertexNormals(m *mesh.Mesh, sphere []r3.Vector) []r3.Vector {
	sum := make([]r3.Vector, len(m.Positions))
	for _, f := range m.Faces {
		for j := 0; j < 3; j++ {
			v := f.Vertices[j]
			sum[v] = sum[v].Add(m.Normals[f.Normals[j]])
		}
	}
	for i, n := range sum {
		if n.Norm2() == 0 {
			sum[i] = sphere[i].Normalize()
			continue
		}
		sum[i] = n.Normalize()
	}
	return sum
}

// Mesh returns the projected mesh.
func (p *Projection) Mesh() *mesh.Mesh {
	return p.mesh
}

// Center returns the centroid the projection rays start from.
func (p *Projection) Center() r3.Vector {
	return p.center
}

// Radius returns the sphere radius.
func (p *Projection) Radius() float64 {
	return p.radius
}

// Epsilon returns the geometric tolerance.
func (p *Projection) Epsilon() float64 {
	return p.eps
}

// VertexCount returns the number of projected vertices.
func (p *Projection) VertexCount() int {
	return len(p.sphere)
}

// Edges returns the mesh's undirected edges.
func (p *Projection) Edges() []geom.Edge {
	return p.edges.Edges()
}

// Forward returns the sphere point of vertex i.
func (p *Projection) Forward(i int) r3.Vector {
	return p.sphere[i]
}

// Position returns the model-space position of vertex i.
func (p *Projection) Position(i int) r3.Vector {
	return p.mesh.Positions[i]
}

// VertexNormal returns the averaged normal of vertex i.
func (p *Projection) VertexNormal(i int) r3.Vector {
	return p.normals[i]
}

// Inverse casts the ray from the centroid in the direction of the sphere
// point s and returns the first mesh face hit, with the normal blended from
// that face's corner normals. Faces are tried in order.
func (p *Projection) Inverse(s r3.Vector) (pos, normal r3.Vector, err error) {
	through := p.center.Add(s)
	for i, tri := range p.tris {
		if tri.Degenerate(p.eps) {
			continue
		}
		hit, ok := tri.IntersectRay(p.center, through, p.eps)
		if !ok {
			continue
		}
		return hit, tri.BlendNormal(hit, p.mesh.CornerNormals(i)), nil
	}
	return r3.Vector{}, r3.Vector{}, fmt.Errorf("%w: no face along (%g, %g, %g)", ErrReconstruction, s.X, s.Y, s.Z)
}
