// Package geom implements the sphere-domain primitives used to merge two
// meshes: canonical edges, geodesic arcs and their intersection classifier,
// triangles, and a half-edge graph for face reconstruction.
package geom

import (
	"slices"
)

// DefaultEpsilon is the tolerance used by every classification in this
// package unless a caller passes another one.
const DefaultEpsilon = 1e-9

// Edge is an undirected edge between two vertex indices, stored with
// From < To.
type Edge struct {
	From, To int
}

// NewEdge returns the canonical edge between a and b. ok is false for a
// self-loop.
func NewEdge(a, b int) (e Edge, ok bool) {
	switch {
	case a < b:
		return Edge{From: a, To: b}, true
	case a > b:
		return Edge{From: b, To: a}, true
	default:
		return Edge{}, false
	}
}

func (e Edge) compare(o Edge) int {
	if e.From != o.From {
		return e.From - o.From
	}
	return e.To - o.To
}

// EdgeSet is a set of canonical edges. Edges iterates in (From, To) order so
// that merges are deterministic.
type EdgeSet struct {
	m map[Edge]struct{}
}

// NewEdgeSet returns an empty set.
func NewEdgeSet() *EdgeSet {
	return &EdgeSet{m: make(map[Edge]struct{})}
}

// Add inserts the edge between a and b. It reports whether the set changed.
func (s *EdgeSet) Add(a, b int) bool {
	e, ok := NewEdge(a, b)
	if !ok {
		return false
	}
	if _, dup := s.m[e]; dup {
		return false
	}
	s.m[e] = struct{}{}
	return true
}

// Insert adds e after canonicalizing it.
func (s *EdgeSet) Insert(e Edge) bool {
	return s.Add(e.From, e.To)
}

// Remove deletes e (in either orientation) and reports whether it was present.
func (s *EdgeSet) Remove(e Edge) bool {
	c, ok := NewEdge(e.From, e.To)
	if !ok {
		return false
	}
	if _, found := s.m[c]; !found {
		return false
	}
	delete(s.m, c)
	return true
}

// Contains reports whether the edge between a and b is in the set.
func (s *EdgeSet) Contains(a, b int) bool {
	e, ok := NewEdge(a, b)
	if !ok {
		return false
	}
	_, found := s.m[e]
	return found
}

// Len returns the number of edges.
func (s *EdgeSet) Len() int {
	return len(s.m)
}

// Edges returns a sorted copy of the members. Mutating the set afterwards
// does not affect the returned slice.
func (s *EdgeSet) Edges() []Edge {
	out := make([]Edge, 0, len(s.m))
	for e := range s.m {
		out = append(out, e)
	}
	slices.SortFunc(out, Edge.compare)
	return out
}

// Clone returns an independent copy of the set.
func (s *EdgeSet) Clone() *EdgeSet {
	c := &EdgeSet{m: make(map[Edge]struct{}, len(s.m))}
	for e := range s.m {
		c.m[e] = struct{}{}
	}
	return c
}
