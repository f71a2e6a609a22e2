package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Triangle is a mesh face in model space.
type Triangle struct {
	A, B, C r3.Vector
}

// Normal returns the unnormalized face normal (B-A) × (C-A). Its length is
// twice the triangle's area.
func (t Triangle) Normal() r3.Vector {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A))
}

// Area returns the triangle's area.
func (t Triangle) Area() float64 {
	return t.Normal().Norm() / 2
}

// Degenerate reports whether the triangle has no usable plane.
func (t Triangle) Degenerate(eps float64) bool {
	return t.Normal().Norm() < eps
}

// subAreas returns twice the areas of PBC, APC and ABP.
func (t Triangle) subAreas(p r3.Vector) (wa, wb, wc float64) {
	a, b, c := t.A.Sub(p), t.B.Sub(p), t.C.Sub(p)
	return b.Cross(c).Norm(), c.Cross(a).Norm(), a.Cross(b).Norm()
}

// Contains reports whether p, assumed to lie on the triangle's plane, is
// inside the triangle or on its boundary. The three sub-triangles formed with
// p cover the triangle exactly when p is inside; the comparison is relative
// to the triangle's size.
func (t Triangle) Contains(p r3.Vector, eps float64) bool {
	area := t.Normal().Norm()
	wa, wb, wc := t.subAreas(p)
	return math.Abs(area-(wa+wb+wc)) <= eps*max(1, area)
}

// IntersectRay returns where the ray from origin through the point through
// meets the triangle. Hits behind origin (beyond eps) and rays parallel to
// the triangle's plane report false.
func (t Triangle) IntersectRay(origin, through r3.Vector, eps float64) (r3.Vector, bool) {
	n := t.Normal()
	dir := through.Sub(origin)
	div := dir.Dot(n)
	if math.Abs(div) < eps*n.Norm()*dir.Norm() {
		return r3.Vector{}, false
	}
	s := t.A.Sub(origin).Dot(n) / div
	if s <= -eps {
		return r3.Vector{}, false
	}
	hit := origin.Add(dir.Mul(s))
	if !t.Contains(hit, eps) {
		return r3.Vector{}, false
	}
	return hit, true
}

// Barycentric returns the weights of A, B and C for p, taken from the areas
// of the sub-triangles opposite each corner. A degenerate triangle yields
// equal weights.
func (t Triangle) Barycentric(p r3.Vector) [3]float64 {
	wa, wb, wc := t.subAreas(p)
	sum := wa + wb + wc
	if sum == 0 {
		return [3]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	}
	return [3]float64{wa / sum, wb / sum, wc / sum}
}

// BlendNormal interpolates the corner normals at p with barycentric weights.
// The result is not renormalized.
func (t Triangle) BlendNormal(p r3.Vector, normals [3]r3.Vector) r3.Vector {
	w := t.Barycentric(p)
	return normals[0].Mul(w[0]).Add(normals[1].Mul(w[1])).Add(normals[2].Mul(w[2]))
}
