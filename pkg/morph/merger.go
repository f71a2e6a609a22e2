// Package morph builds a vertex correspondence between two closed meshes by
// projecting both onto a common sphere, overlaying their edge networks and
// re-triangulating the result. The built Merger blends the two shapes at any
// ratio between 0 and 1.
package morph

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r3"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-morph/pkg/geom"
	mmath "github.com/Faultbox/midgard-morph/pkg/math"
	"github.com/Faultbox/midgard-morph/pkg/mesh"
)

// Vertex is a position with its shading normal.
type Vertex struct {
	Position r3.Vector
	Normal   r3.Vector
}

// Pair holds where a merged vertex sits on the start mesh and on the end
// mesh.
type Pair struct {
	Start Vertex
	End   Vertex
}

// Merger is the immutable result of Build. It is safe for concurrent use.
type Merger struct {
	pairs     []Pair
	triangles [][3]int
	colors    [2]mesh.Color
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	log *zap.Logger
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(o *buildOptions) {
		if log != nil {
			o.log = log
		}
	}
}

type origin uint8

const (
	originCross origin = iota
	originStart
	originEnd
)

// poolVertex is a point of the merged sphere graph. index refers into the
// source mesh for originStart and originEnd.
type poolVertex struct {
	point  r3.Vector
	origin origin
	index  int
}

type builder struct {
	start, end *Projection
	eps        float64
	log        *zap.Logger
	pool       []poolVertex
	edges      *geom.EdgeSet

	crossings int
	overlaps  int
	skipped   int
	welded    int
}

// Build overlays the edge network of end onto that of start on the shared
// sphere and returns the merged, triangulated correspondence. Both
// projections must use the same radius and epsilon.
func Build(start, end *Projection, opts ...Option) (*Merger, error) {
	o := buildOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	if start.radius != end.radius || start.eps != end.eps {
		return nil, fmt.Errorf("%w: radius %g vs %g, epsilon %g vs %g",
			ErrConfigMismatch, start.radius, end.radius, start.eps, end.eps)
	}

	b := &builder{
		start: start,
		end:   end,
		eps:   start.eps,
		log:   o.log,
		edges: geom.NewEdgeSet(),
	}
	b.seed()
	for _, e := range end.Edges() {
		b.insert(e)
	}

	points := b.points()
	faces, err := resolveFaces(points, b.edges, b.eps)
	if err != nil {
		return nil, err
	}
	tris := Triangulate(faces, points)
	if err := checkClosed(tris); err != nil {
		return nil, err
	}
	keep, tris := compact(len(points), tris)

	m := &Merger{
		pairs:     make([]Pair, len(keep)),
		triangles: tris,
		colors:    [2]mesh.Color{start.mesh.Color, end.mesh.Color},
	}
	for i, id := range keep {
		if m.pairs[i], err = b.pair(b.pool[id]); err != nil {
			return nil, err
		}
	}

	b.log.Debug("merge built",
		zap.Int("start_vertices", start.VertexCount()),
		zap.Int("end_vertices", end.VertexCount()),
		zap.Int("crossings", b.crossings),
		zap.Int("overlaps", b.overlaps),
		zap.Int("skipped_edges", b.skipped),
		zap.Int("welded_vertices", b.welded),
		zap.Int("faces", len(faces)),
		zap.Int("vertices", len(m.pairs)),
		zap.Int("triangles", len(m.triangles)),
	)
	return m, nil
}

// seed fills the pool with the sphere points of both meshes, start first,
// and the edge set with the start mesh's edges. An end point within epsilon
// of a start point is replaced by that start point, so that both compare
// equal from then on.
func (b *builder) seed() {
	n, m := b.start.VertexCount(), b.end.VertexCount()
	b.pool = make([]poolVertex, 0, n+m)
	for i := 0; i < n; i++ {
		b.pool = append(b.pool, poolVertex{point: b.start.Forward(i), origin: originStart, index: i})
	}
	tol := b.eps * b.start.radius
	for i := 0; i < m; i++ {
		p := b.end.Forward(i)
		for _, s := range b.pool[:n] {
			if s.point != p && s.point.Sub(p).Norm() <= tol {
				p = s.point
				b.welded++
				break
			}
		}
		b.pool = append(b.pool, poolVertex{point: p, origin: originEnd, index: i})
	}
	for _, e := range b.start.Edges() {
		b.edges.Insert(e)
	}
}

func (b *builder) points() []r3.Vector {
	out := make([]r3.Vector, len(b.pool))
	for i, v := range b.pool {
		out[i] = v.point
	}
	return out
}

func (b *builder) arc(e geom.Edge) geom.Arc {
	return geom.NewArc(b.pool[e.From].point, b.pool[e.To].point, e.From, e.To)
}

// split replaces e with two edges meeting at vertex id.
func (b *builder) split(e geom.Edge, id int) {
	b.edges.Remove(e)
	b.edges.Add(e.From, id)
	b.edges.Add(e.To, id)
}

// insert cuts end-mesh edge e against every edge already in the set and adds
// its pieces. The set is iterated as it was before e was processed.
func (b *builder) insert(e geom.Edge) {
	n := b.start.VertexCount()
	from, to := e.From+n, e.To+n
	arc := geom.NewArc(b.pool[from].point, b.pool[to].point, from, to)

	cuts := []geom.CutPoint{{ID: from, T: 0}, {ID: to, T: 1}}
	for _, se := range b.edges.Edges() {
		switch x := geom.Intersect(b.arc(se), arc, b.eps).(type) {
		case geom.TJunction1:
			cuts = append(cuts, geom.CutPoint{ID: x.ID, T: x.T})

		case geom.TJunction2:
			b.split(se, x.ID)

		case geom.Cross:
			id := len(b.pool)
			b.pool = append(b.pool, poolVertex{point: x.Point, origin: originCross})
			b.split(se, id)
			cuts = append(cuts, geom.CutPoint{ID: id, T: x.T})
			b.crossings++

		case geom.Overlap:
			b.overlaps++
			b.edges.Remove(se)
			switch {
			case x.First.T > 0:
				cuts = append(cuts, x.First)
			case x.First.T < 0:
				b.edges.Add(x.First.ID, cuts[0].ID)
			default:
				cuts[0].ID = x.First.ID
			}
			switch {
			case x.Second.T < 1:
				cuts = append(cuts, x.Second)
			case x.Second.T > 1:
				b.edges.Add(x.Second.ID, cuts[1].ID)
			default:
				cuts[1].ID = x.Second.ID
			}

		case geom.SharedEndpoint:
			switch x.BID {
			case from:
				cuts[0].ID = x.AID
			case to:
				cuts[1].ID = x.AID
			}

		case geom.Same:
			b.skipped++
			return
		}
	}

	slices.SortFunc(cuts, func(p, q geom.CutPoint) int {
		if c := cmp.Compare(p.T, q.T); c != 0 {
			return c
		}
		return p.ID - q.ID
	})
	for i := 0; i+1 < len(cuts); i++ {
		b.edges.Add(cuts[i].ID, cuts[i+1].ID)
	}
}

// pair maps a pool vertex back onto both meshes.
func (b *builder) pair(v poolVertex) (Pair, error) {
	var (
		p   Pair
		err error
	)
	switch v.origin {
	case originStart:
		p.Start = Vertex{Position: b.start.Position(v.index), Normal: b.start.VertexNormal(v.index)}
		p.End, err = inverse(b.end, v.point)
	case originEnd:
		p.Start, err = inverse(b.start, v.point)
		p.End = Vertex{Position: b.end.Position(v.index), Normal: b.end.VertexNormal(v.index)}
	default:
		if p.Start, err = inverse(b.start, v.point); err == nil {
			p.End, err = inverse(b.end, v.point)
		}
	}
	return p, err
}

func inverse(p *Projection, s r3.Vector) (Vertex, error) {
	pos, normal, err := p.Inverse(s)
	return Vertex{Position: pos, Normal: normal}, err
}

// resolveFaces rebuilds the faces of the merged edge network on the sphere.
func resolveFaces(points []r3.Vector, edges *geom.EdgeSet, eps float64) ([][]int, error) {
	g := geom.NewGraph(points)
	for _, e := range edges.Edges() {
		g.AddPair(e.From, e.To)
	}
	g.LinkRotation(points, eps)
	return g.Faces()
}

// compact renumbers the vertices referenced by tris to 0..k-1 in ascending
// order of their pool index. It returns the pool index of each kept vertex
// and the renumbered triangles.
func compact(n int, tris [][3]int) ([]int, [][3]int) {
	remap := make([]int, n)
	for i := range remap {
		remap[i] = -1
	}
	for _, t := range tris {
		for _, id := range t {
			remap[id] = 0
		}
	}

	var keep []int
	for id, r := range remap {
		if r == 0 {
			remap[id] = len(keep)
			keep = append(keep, id)
		}
	}

	out := make([][3]int, len(tris))
	for i, t := range tris {
		out[i] = [3]int{remap[t[0]], remap[t[1]], remap[t[2]]}
	}
	return keep, out
}

// Interpolate blends every merged vertex and normal linearly from start to
// end and the colors with round-to-nearest. Normals are not renormalized.
// ratio must lie in [0, 1].
func (m *Merger) Interpolate(ratio float64) (*Snapshot, error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRatio, ratio)
	}

	s := &Snapshot{
		Ratio:     ratio,
		positions: make([]r3.Vector, len(m.pairs)),
		normals:   make([]r3.Vector, len(m.pairs)),
		triangles: m.triangles,
		color:     m.colors[0].Lerp(m.colors[1], ratio),
	}
	for i, p := range m.pairs {
		s.positions[i] = mmath.Lerp(p.Start.Position, p.End.Position, ratio)
		s.normals[i] = mmath.Lerp(p.Start.Normal, p.End.Normal, ratio)
	}
	return s, nil
}

// Start returns the snapshot at ratio 0.
func (m *Merger) Start() *Snapshot {
	s, _ := m.Interpolate(0)
	return s
}

// End returns the snapshot at ratio 1.
func (m *Merger) End() *Snapshot {
	s, _ := m.Interpolate(1)
	return s
}

// VertexCount returns the number of merged vertices.
func (m *Merger) VertexCount() int {
	return len(m.pairs)
}

// TriangleCount returns the number of merged triangles.
func (m *Merger) TriangleCount() int {
	return len(m.triangles)
}

// Triangles returns the merged triangle list. Callers must not modify it.
func (m *Merger) Triangles() [][3]int {
	return m.triangles
}

// Pairs returns a copy of the per-vertex correspondence.
func (m *Merger) Pairs() []Pair {
	return slices.Clone(m.pairs)
}

// Colors returns the start and end colors.
func (m *Merger) Colors() (start, end mesh.Color) {
	return m.colors[0], m.colors[1]
}
