package geom

import (
	"github.com/golang/geo/r3"
)

// Kind identifies an Intersection variant.
type Kind int

const (
	KindNone Kind = iota
	KindSame
	KindSharedEndpoint
	KindTJunction1
	KindTJunction2
	KindCross
	KindOverlap
)

var kindNames = [...]string{
	KindNone:           "none",
	KindSame:           "same",
	KindSharedEndpoint: "shared-endpoint",
	KindTJunction1:     "t-junction-1",
	KindTJunction2:     "t-junction-2",
	KindCross:          "cross",
	KindOverlap:        "overlap",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Intersection is the result of Intersect. It is exactly one of None, Same,
// SharedEndpoint, TJunction1, TJunction2, Cross or Overlap.
type Intersection interface {
	Kind() Kind
}

// CutPoint is a pooled vertex at parameter T along an arc.
type CutPoint struct {
	ID int
	T  float64
}

// None means the arcs do not meet, or one of them is degenerate.
type None struct{}

// Same means both arcs join the same two points.
type Same struct{}

// SharedEndpoint means the arcs meet only at an endpoint common to both.
type SharedEndpoint struct {
	AID, BID int
}

// TJunction1 means endpoint ID of the first arc lies inside the second arc,
// at parameter T along the second arc.
type TJunction1 struct {
	ID int
	T  float64
}

// TJunction2 means endpoint ID of the second arc lies inside the first arc,
// at parameter T along the first arc.
type TJunction2 struct {
	ID int
	T  float64
}

// Cross is a transversal crossing at Point, at parameter T along the second
// arc.
type Cross struct {
	Point r3.Vector
	T     float64
}

// Overlap means the arcs share a sub-segment of one great circle. First and
// Second are the endpoints of the first arc, ordered by their parameter along
// the second arc. A parameter below 0 or above 1 marks an endpoint outside
// the second arc.
type Overlap struct {
	First, Second CutPoint
}

func (None) Kind() Kind           { return KindNone }
func (Same) Kind() Kind           { return KindSame }
func (SharedEndpoint) Kind() Kind { return KindSharedEndpoint }
func (TJunction1) Kind() Kind     { return KindTJunction1 }
func (TJunction2) Kind() Kind     { return KindTJunction2 }
func (Cross) Kind() Kind          { return KindCross }
func (Overlap) Kind() Kind        { return KindOverlap }
