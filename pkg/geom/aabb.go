package geom

import (
	"math"

	"github.com/taigrr/portalvis/pkg/math3d"
)

// AABB is an axis-aligned box. Area bounds, primitive bounds and BSP node
// bounds all use it.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// AABBFromCenter builds a box from its center and half extents.
func AABBFromCenter(center, halfSize math3d.Vec3) AABB {
	return AABB{Min: center.Sub(halfSize), Max: center.Add(halfSize)}
}

// EmptyAABB returns an inverted box that any Extend or Union replaces.
func EmptyAABB() AABB {
	return AABB{
		Min: math3d.Splat3(math.Inf(1)),
		Max: math3d.Splat3(math.Inf(-1)),
	}
}

// IsEmpty reports whether the box is inverted on any axis.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// HalfSize is the extent from the center along each axis.
func (b AABB) HalfSize() math3d.Vec3 {
	return b.Size().Scale(0.5)
}

// Corners lists the eight corners. Bit 0 of the index selects Max.X, bit 1
// Max.Y and bit 2 Max.Z.
func (b AABB) Corners() [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Transform bounds the transformed corners, so rotated boxes grow.
func (b AABB) Transform(m math3d.Mat4) AABB {
	out := EmptyAABB()
	for _, c := range b.Corners() {
		out = out.Extend(m.MulVec3(c))
	}
	return out
}

// Extend returns the box grown to include p.
func (b AABB) Extend(p math3d.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Expand returns the box grown by d on every side.
func (b AABB) Expand(d float64) AABB {
	e := math3d.Splat3(d)
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

// ContainsPoint includes the faces.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Contains returns true if o lies entirely inside b.
func (b AABB) Contains(o AABB) bool {
	return o.Min.X >= b.Min.X && o.Max.X <= b.Max.X &&
		o.Min.Y >= b.Min.Y && o.Max.Y <= b.Max.Y &&
		o.Min.Z >= b.Min.Z && o.Max.Z <= b.Max.Z
}

// Overlaps returns true if the boxes intersect. Touching faces count.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// CoveredBy reports whether every point of b lies in at least one of boxes.
func (b AABB) CoveredBy(boxes []AABB) bool {
	rest := []AABB{b}
	extent := b.Size()
	for _, c := range boxes {
		var next []AABB
		for _, r := range rest {
			next = r.appendOutside(c, extent, next)
		}
		rest = next
		if len(rest) == 0 {
			return true
		}
	}
	return len(rest) == 0
}

// appendOutside appends the pieces of b that c leaves uncovered. Pieces
// flat along an axis where the original box has extent are dropped.
func (b AABB) appendOutside(c AABB, extent math3d.Vec3, dst []AABB) []AABB {
	if !b.Overlaps(c) {
		return append(dst, b)
	}
	keep := func(piece AABB) {
		size := piece.Size()
		for axis := range 3 {
			if size.Axis(axis) <= 0 && extent.Axis(axis) > 0 {
				return
			}
		}
		dst = append(dst, piece)
	}
	for axis := range 3 {
		if lo := c.Min.Axis(axis); lo > b.Min.Axis(axis) {
			keep(AABB{Min: b.Min, Max: b.Max.WithAxis(axis, lo)})
			b.Min = b.Min.WithAxis(axis, lo)
		}
		if hi := c.Max.Axis(axis); hi < b.Max.Axis(axis) {
			keep(AABB{Min: b.Min.WithAxis(axis, hi), Max: b.Max})
			b.Max = b.Max.WithAxis(axis, hi)
		}
	}
	return dst
}

// ClosestPoint returns the point in the box closest to p.
func (b AABB) ClosestPoint(p math3d.Vec3) math3d.Vec3 {
	return p.Max(b.Min).Min(b.Max)
}

// DistanceSqToPoint returns the squared distance from p to the box.
func (b AABB) DistanceSqToPoint(p math3d.Vec3) float64 {
	return b.ClosestPoint(p).Sub(p).LenSq()
}

// OverlapsSphere returns true if the sphere touches the box.
func (b AABB) OverlapsSphere(s Sphere) bool {
	return b.DistanceSqToPoint(s.Center) <= s.Radius*s.Radius
}
