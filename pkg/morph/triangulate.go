package morph

import (
	"fmt"
	"slices"

	"github.com/golang/geo/r3"

	"github.com/Faultbox/midgard-morph/pkg/geom"
	"github.com/Faultbox/midgard-morph/pkg/math"
)

// Triangulate splits each face into a fan from its first vertex. Fan
// triangles that repeat a vertex are skipped, a triangle produced twice (by
// faces sharing it, or by the same face) is kept once, and every triangle is
// wound counter-clockwise seen from outside the sphere.
func Triangulate(faces [][]int, points []r3.Vector) [][3]int {
	seen := make(map[[3]int]struct{})
	var out [][3]int

	add := func(a, b, c int) {
		if a == b || b == c || a == c {
			return
		}
		tri := [3]int{a, b, c}
		slices.Sort(tri[:])
		if _, dup := seen[tri]; dup {
			return
		}
		seen[tri] = struct{}{}
		out = append(out, orient(tri, points))
	}

	for _, f := range faces {
		for i := 1; i+1 < len(f); i++ {
			add(f[0], f[i], f[i+1])
		}
	}
	return out
}

// orient reverses tri when its points turn clockwise around the origin.
func orient(tri [3]int, points []r3.Vector) [3]int {
	if math.TripleProduct(points[tri[0]], points[tri[1]], points[tri[2]]) > 0 {
		return tri
	}
	return [3]int{tri[2], tri[1], tri[0]}
}

// checkClosed reports geom.ErrMalformedGraph unless every undirected edge of
// tris is shared by exactly two triangles.
func checkClosed(tris [][3]int) error {
	uses := make(map[geom.Edge]int, 3*len(tris)/2)
	for _, t := range tris {
		for i := range t {
			e, _ := geom.NewEdge(t[i], t[(i+1)%3])
			uses[e]++
		}
	}
	for _, t := range tris {
		for i := range t {
			e, _ := geom.NewEdge(t[i], t[(i+1)%3])
			if n := uses[e]; n != 2 {
				return fmt.Errorf("%w: edge %d-%d used by %d triangles",
					geom.ErrMalformedGraph, e.From, e.To, n)
			}
		}
	}
	return nil
}
