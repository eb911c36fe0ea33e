// Package geom provides the bounding volumes, planes and intersection
// tests the visibility system is built on.
package geom

import (
	"math"

	"github.com/taigrr/portalvis/pkg/math3d"
)

// PlaneType classifies a plane for the axial fast path.
type PlaneType uint8

// Plane types. The axial types mean the normal is (+/-)1 along that axis.
// The zero value takes the general path, so plane literals are always safe.
const (
	PlaneNonAxial PlaneType = iota
	PlaneAxisX
	PlaneAxisY
	PlaneAxisZ
)

// axis returns the axis index of an axial plane, or -1.
func (t PlaneType) axis() int {
	return int(t) - 1
}

// Side is a bitmask describing which side(s) of a plane a volume touches.
type Side uint8

// Side bits. SideBoth means the volume straddles the plane.
const (
	SideFront Side = 1 << iota
	SideBack
	SideBoth = SideFront | SideBack
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the negated distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
	Type   PlaneType
}

// NewPlane creates a plane from a normal and D and classifies it.
func NewPlane(normal math3d.Vec3, d float64) Plane {
	p := Plane{Normal: normal, D: d}
	p.Type = classifyNormal(normal)
	return p
}

// PlaneFromPointNormal creates the plane through point with the given normal.
func PlaneFromPointNormal(point, normal math3d.Vec3) Plane {
	n := normal.Normalize()
	return NewPlane(n, -n.Dot(point))
}

// PlaneFromPoints creates the plane through a, b and c. The normal follows
// the right-hand rule for the winding a -> b -> c.
func PlaneFromPoints(a, b, c math3d.Vec3) Plane {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return NewPlane(n, -n.Dot(a))
}

func classifyNormal(n math3d.Vec3) PlaneType {
	switch {
	case n.Y == 0 && n.Z == 0 && n.X != 0:
		return PlaneAxisX
	case n.X == 0 && n.Z == 0 && n.Y != 0:
		return PlaneAxisY
	case n.X == 0 && n.Y == 0 && n.Z != 0:
		return PlaneAxisZ
	default:
		return PlaneNonAxial
	}
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
	p.Type = classifyNormal(p.Normal)
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	if axis := p.Type.axis(); axis >= 0 {
		return p.Normal.Axis(axis)*point.Axis(axis) + p.D
	}
	return p.Normal.Dot(point) + p.D
}

// Flip returns the plane facing the opposite direction.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Negate(), D: -p.D, Type: p.Type}
}

// BoxSide reports which sides of the plane the box touches.
func (p Plane) BoxSide(box AABB) Side {
	if axis := p.Type.axis(); axis >= 0 {
		lo := p.Normal.Axis(axis)*box.Min.Axis(axis) + p.D
		hi := p.Normal.Axis(axis)*box.Max.Axis(axis) + p.D
		return sideOfRange(math.Min(lo, hi), math.Max(lo, hi))
	}

	// Distance of the center plus the projected half extents.
	c := p.DistanceToPoint(box.Center())
	e := box.HalfSize().Dot(p.Normal.Abs())
	return sideOfRange(c-e, c+e)
}

// SphereSide reports which sides of the plane the sphere touches.
func (p Plane) SphereSide(s Sphere) Side {
	d := p.DistanceToPoint(s.Center)
	return sideOfRange(d-s.Radius, d+s.Radius)
}

func sideOfRange(lo, hi float64) Side {
	var side Side
	if hi >= 0 {
		side |= SideFront
	}
	if lo < 0 {
		side |= SideBack
	}
	return side
}
