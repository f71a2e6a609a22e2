package geom

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"

	mmath "github.com/Faultbox/midgard-morph/pkg/math"
)

// ErrMalformedGraph is returned when the face walk meets a half-edge twice
// or cannot continue.
var ErrMalformedGraph = errors.New("malformed half-edge graph")

// Handle addresses a half-edge in a Graph's arena.
type Handle int

// NoHandle marks a missing link.
const NoHandle Handle = -1

// HalfEdge is one direction of an undirected graph edge. Next is the
// following half-edge around From in counter-clockwise order, seen from
// outside the sphere.
type HalfEdge struct {
	From, To int
	Opposite Handle
	Next     Handle
	Visited  bool
}

// Graph is a planar graph embedded on a sphere, stored as an arena of
// half-edges addressed by Handle.
type Graph struct {
	edges  []HalfEdge
	adj    [][]Handle
	remap  []int
	unique *EdgeSet
}

// NewGraph returns an empty graph over points. Points that are exactly equal
// share the index of their first occurrence.
func NewGraph(points []r3.Vector) *Graph {
	g := &Graph{
		adj:    make([][]Handle, len(points)),
		remap:  make([]int, len(points)),
		unique: NewEdgeSet(),
	}
	first := make(map[r3.Vector]int, len(points))
	for i, p := range points {
		id, ok := first[p]
		if !ok {
			id = i
			first[p] = i
		}
		g.remap[i] = id
	}
	return g
}

// Canonical returns the index that point i was merged onto.
func (g *Graph) Canonical(i int) int {
	return g.remap[i]
}

// AddPair adds the two half-edges of the undirected edge a-b. It reports
// false for a self-loop or an edge that is already present.
func (g *Graph) AddPair(a, b int) bool {
	a, b = g.remap[a], g.remap[b]
	if !g.unique.Add(a, b) {
		return false
	}
	h := Handle(len(g.edges))
	g.edges = append(g.edges,
		HalfEdge{From: a, To: b, Opposite: h + 1, Next: NoHandle},
		HalfEdge{From: b, To: a, Opposite: h, Next: NoHandle},
	)
	g.adj[a] = append(g.adj[a], h)
	g.adj[b] = append(g.adj[b], h+1)
	return true
}

// Len returns the number of half-edges.
func (g *Graph) Len() int {
	return len(g.edges)
}

// Edge returns the half-edge at h.
func (g *Graph) Edge(h Handle) HalfEdge {
	return g.edges[h]
}

// Outgoing returns the handles of the half-edges leaving vertex i.
func (g *Graph) Outgoing(i int) []Handle {
	return g.adj[i]
}

type rotEntry struct {
	angle s1.Angle
	to    int
	h     Handle
}

// LinkRotation orders the outgoing half-edges of every vertex by their angle
// around the vertex's radial direction and links each one's Next to its
// successor, cyclically. points must be the slice the graph was built from.
func (g *Graph) LinkRotation(points []r3.Vector, eps float64) {
	for v, out := range g.adj {
		if len(out) == 0 {
			continue
		}
		origin := points[v]
		ref := mmath.Tangent(origin, points[g.edges[out[0]].To])

		rot := make([]rotEntry, 0, len(out))
		for _, h := range out {
			to := g.edges[h].To
			dir := mmath.Tangent(origin, points[to])
			rot = append(rot, rotEntry{
				angle: turnAngle(origin, ref, dir, eps),
				to:    to,
				h:     h,
			})
		}
		slices.SortFunc(rot, func(a, b rotEntry) int {
			switch {
			case a.angle < b.angle:
				return -1
			case a.angle > b.angle:
				return 1
			}
			return a.to - b.to
		})

		for i, r := range rot {
			g.edges[r.h].Next = rot[(i+1)%len(rot)].h
		}
	}
}

// turnAngle returns the signed angle from ref to dir, both unit tangents at
// origin, positive when turning counter-clockwise seen from outside.
func turnAngle(origin, ref, dir r3.Vector, eps float64) s1.Angle {
	cos := ref.Dot(dir)
	var angle s1.Angle
	switch {
	case math.Abs(cos-1) < eps:
		angle = 0
	case math.Abs(cos+1) < eps:
		angle = math.Pi
	default:
		angle = s1.Angle(math.Acos(max(-1, min(1, cos))))
	}
	if origin.Dot(ref.Cross(dir)) < -eps {
		angle = -angle
	}
	return angle
}

// Faces walks every face of the graph by following Opposite then Next from
// each unvisited half-edge, in vertex order. Each face lists the target
// vertices of its half-edges. Walks of two or fewer half-edges are dropped.
// LinkRotation must have been called first.
func (g *Graph) Faces() ([][]int, error) {
	for i := range g.edges {
		g.edges[i].Visited = false
	}

	var faces [][]int
	for _, out := range g.adj {
		for _, start := range out {
			if g.edges[start].Visited {
				continue
			}
			face, err := g.walk(start)
			if err != nil {
				return nil, err
			}
			if len(face) > 2 {
				faces = append(faces, face)
			}
		}
	}

	for h, e := range g.edges {
		if !e.Visited {
			return nil, fmt.Errorf("%w: half-edge %d (%d->%d) never visited", ErrMalformedGraph, h, e.From, e.To)
		}
	}
	return faces, nil
}

func (g *Graph) walk(start Handle) ([]int, error) {
	var face []int
	for h := start; ; {
		e := &g.edges[h]
		if e.Visited {
			if h == start {
				return face, nil
			}
			return nil, fmt.Errorf("%w: half-edge %d (%d->%d) visited twice", ErrMalformedGraph, h, e.From, e.To)
		}
		e.Visited = true
		face = append(face, e.To)

		next := g.edges[e.Opposite].Next
		if next == NoHandle {
			return nil, fmt.Errorf("%w: vertex %d has no rotation", ErrMalformedGraph, e.To)
		}
		h = next
	}
}
