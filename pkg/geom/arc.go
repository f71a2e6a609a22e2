package geom

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

// Arc is a great-circle segment between two points of a sphere centered at
// the origin, tagged with the pool indices of its endpoints. Arcs are always
// the minor arc between their endpoints.
type Arc struct {
	A, B     r3.Vector
	AID, BID int
}

// NewArc returns the arc from a to b.
func NewArc(a, b r3.Vector, aID, bID int) Arc {
	return Arc{A: a, B: b, AID: aID, BID: bID}
}

// Length returns the angle subtended by the arc.
func (a Arc) Length() s1.Angle {
	return a.A.Angle(a.B)
}

// unitArc is an Arc reduced to unit directions so a single epsilon works
// regardless of the sphere radius.
type unitArc struct {
	src  Arc
	a, b r3.Vector
	n    r3.Vector // unit plane normal, a × b
	span s1.Angle
}

// newUnitArc reports false for a degenerate arc: zero length, or endpoints
// so close to antipodal that the plane is undefined.
func newUnitArc(arc Arc, eps float64) (unitArc, bool) {
	u := unitArc{src: arc, a: arc.A.Normalize(), b: arc.B.Normalize()}
	n := u.a.Cross(u.b)
	if n.Norm() < eps {
		return u, false
	}
	u.n = n.Normalize()
	u.span = u.a.Angle(u.b)
	return u, true
}

// inWedge reports whether the unit vector v lies strictly between the two
// half-planes bounding the arc, by more than eps on both sides.
func (u unitArc) inWedge(v r3.Vector, eps float64) bool {
	return u.n.Cross(u.a).Dot(v) > eps && u.b.Cross(u.n).Dot(v) > eps
}

// ratio returns the fraction of the arc's span subtended between its start
// and the unit vector v.
func (u unitArc) ratio(v r3.Vector) float64 {
	return float64(u.a.Angle(v) / u.span)
}

// contains returns the position of v along the arc when v lies on the arc's
// plane within eps and strictly inside its wedge.
func (u unitArc) contains(v r3.Vector, eps float64) (float64, bool) {
	v = v.Normalize()
	if math.Abs(v.Dot(u.n)) >= eps || !u.inWedge(v, eps) {
		return 0, false
	}
	return u.ratio(v), true
}

// signedAngle returns the angle from p to q around axis, in (-π, π].
func signedAngle(p, q, axis r3.Vector) s1.Angle {
	ang := p.Angle(q)
	if p.Cross(q).Dot(axis) < 0 {
		ang = -ang
	}
	return ang
}

// Intersect classifies how arc a meets arc b. Parametric positions reported
// by Overlap, TJunction1 and Cross are measured along b; TJunction2 reports
// its position along a.
func Intersect(a, b Arc, eps float64) Intersection {
	ua, okA := newUnitArc(a, eps)
	ub, okB := newUnitArc(b, eps)
	if !okA || !okB {
		return None{}
	}

	if ua.n.Cross(ub.n).Norm() < eps {
		return intersectCoplanar(ua, ub, eps)
	}

	switch {
	case a.A == b.A:
		return SharedEndpoint{AID: a.AID, BID: b.AID}
	case a.A == b.B:
		return SharedEndpoint{AID: a.AID, BID: b.BID}
	case a.B == b.A:
		return SharedEndpoint{AID: a.BID, BID: b.AID}
	case a.B == b.B:
		return SharedEndpoint{AID: a.BID, BID: b.BID}
	}

	if t, ok := ub.contains(ua.a, eps); ok {
		return TJunction1{ID: a.AID, T: t}
	}
	if t, ok := ub.contains(ua.b, eps); ok {
		return TJunction1{ID: a.BID, T: t}
	}
	if t, ok := ua.contains(ub.a, eps); ok {
		return TJunction2{ID: b.AID, T: t}
	}
	if t, ok := ua.contains(ub.b, eps); ok {
		return TJunction2{ID: b.BID, T: t}
	}

	d := ua.n.Cross(ub.n).Normalize()
	for _, c := range [2]r3.Vector{d, d.Mul(-1)} {
		if ua.inWedge(c, eps) && ub.inWedge(c, eps) {
			return Cross{Point: c.Mul(b.A.Norm()), T: ub.ratio(c)}
		}
	}
	return None{}
}

// intersectCoplanar resolves two arcs on the same great circle as intervals
// of b's parameter. The circle has period 2π/span in that parameter.
func intersectCoplanar(ua, ub unitArc, eps float64) Intersection {
	if math.Abs(ua.a.Dot(ub.n)) > eps || math.Abs(ua.b.Dot(ub.n)) > eps {
		return None{}
	}

	span := float64(ub.span)
	period := 2 * math.Pi / span

	t0 := float64(signedAngle(ub.a, ua.a, ub.n)) / span
	t1 := t0 + float64(signedAngle(ua.a, ua.b, ub.n))/span

	// Pick the copy of a's interval that reaches [0, 1], if any.
	lo, hi := min(t0, t1), max(t0, t1)
	for _, k := range [2]float64{-1, 1} {
		if hi < 0 || lo > 1 {
			if hi+k*period >= 0 && lo+k*period <= 1 {
				t0 += k * period
				t1 += k * period
				break
			}
		}
	}

	p0 := CutPoint{ID: ua.src.AID, T: snapEndpoint(ua.src.A, t0, ub.src, period)}
	p1 := CutPoint{ID: ua.src.BID, T: snapEndpoint(ua.src.B, t1, ub.src, period)}
	exact0 := isEndpointOf(ua.src.A, ub.src)
	exact1 := isEndpointOf(ua.src.B, ub.src)
	if p0.T > p1.T {
		p0, p1 = p1, p0
		exact0, exact1 = exact1, exact0
	}

	switch {
	case p1.T <= eps:
		if exact1 && p1.T == 0 {
			return SharedEndpoint{AID: p1.ID, BID: ub.src.AID}
		}
		return None{}
	case p0.T >= 1-eps:
		if exact0 && p0.T == 1 {
			return SharedEndpoint{AID: p0.ID, BID: ub.src.BID}
		}
		return None{}
	case exact0 && exact1 && p0.T == 0 && p1.T == 1:
		return Same{}
	}
	return Overlap{First: p0, Second: p1}
}

func isEndpointOf(p r3.Vector, b Arc) bool {
	return p == b.A || p == b.B
}

// snapEndpoint pins t to the exact parameter of b's endpoint when p
// coincides with it, choosing the representative nearest to t.
func snapEndpoint(p r3.Vector, t float64, b Arc, period float64) float64 {
	var exact float64
	switch p {
	case b.A:
		exact = 0
	case b.B:
		exact = 1
	default:
		return t
	}
	return exact + period*math.Round((t-exact)/period)
}
