// Package math provides vector and matrix helpers for mesh geometry.
//
// Points and directions are github.com/golang/geo/r3 vectors; this package
// adds the operations that r3 leaves out.
package math

import (
	"github.com/golang/geo/r3"
)

// Vec3 is a 3D point or direction.
type Vec3 = r3.Vector

// V returns the vector (x, y, z).
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Centroid returns the arithmetic mean of points, or the zero vector for an
// empty slice.
func Centroid(points []Vec3) Vec3 {
	var c Vec3
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(points)))
}

// ProjectToSphere casts the ray from center through p and returns the point
// where it meets the sphere of the given radius centered at the origin.
// The result is undefined when p == center.
func ProjectToSphere(p, center Vec3, radius float64) Vec3 {
	dir := p.Sub(center)
	return dir.Mul(radius / dir.Norm())
}

// TripleProduct returns a · (b × c).
func TripleProduct(a, b, c Vec3) float64 {
	return a.Dot(b.Cross(c))
}

// Lerp blends a and b by t without renormalizing.
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Tangent returns the unit component of p perpendicular to the radial
// direction of origin. Both vectors are taken relative to the sphere center.
func Tangent(origin, p Vec3) Vec3 {
	radial := origin.Normalize()
	return p.Sub(radial.Mul(radial.Dot(p))).Normalize()
}
