package geom

import (
	"math"

	"github.com/taigrr/portalvis/pkg/math3d"
)

// Segment is a directed line segment. Parameters t along it are fractions:
// 0 at Start, 1 at End.
type Segment struct {
	Start math3d.Vec3
	End   math3d.Vec3
}

// Dir returns End - Start.
func (s Segment) Dir() math3d.Vec3 {
	return s.End.Sub(s.Start)
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.Dir().Len()
}

// PointAt returns the point at fraction t.
func (s Segment) PointAt(t float64) math3d.Vec3 {
	return s.Start.Lerp(s.End, t)
}

// Bounds returns the box enclosing the segment.
func (s Segment) Bounds() AABB {
	return AABB{Min: s.Start.Min(s.End), Max: s.Start.Max(s.End)}
}

// IntersectRayAABB intersects the ray origin + t*dir with a box using the
// slab method. tmin and tmax bound the overlap interval and may be negative
// when the origin is inside the box or the box is behind it.
func IntersectRayAABB(origin, dir math3d.Vec3, box AABB) (tmin, tmax float64, ok bool) {
	tmin, tmax = math.Inf(-1), math.Inf(1)

	for axis := range 3 {
		o := origin.Axis(axis)
		d := dir.Axis(axis)
		lo, hi := box.Min.Axis(axis), box.Max.Axis(axis)

		if d == 0 {
			// Parallel to the slab: either always inside it or never.
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}

		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, 0, false
		}
	}
	return tmin, tmax, true
}

// IntersectSegmentAABB clips a segment to a box and returns the entry and
// exit fractions, clamped to [0, 1].
func IntersectSegmentAABB(seg Segment, box AABB) (tmin, tmax float64, ok bool) {
	tmin, tmax, ok = IntersectRayAABB(seg.Start, seg.Dir(), box)
	if !ok || tmax < 0 || tmin > 1 {
		return 0, 0, false
	}
	return math.Max(tmin, 0), math.Min(tmax, 1), true
}

// IntersectRaySphere intersects the ray origin + t*dir with a sphere and
// returns both roots, t0 <= t1.
func IntersectRaySphere(origin, dir math3d.Vec3, s Sphere) (t0, t1 float64, ok bool) {
	oc := origin.Sub(s.Center)
	a := dir.LenSq()
	if a == 0 {
		return 0, 0, false
	}
	b := oc.Dot(dir)
	c := oc.LenSq() - s.Radius*s.Radius

	disc := b*b - a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	return (-b - sq) / a, (-b + sq) / a, true
}

// TriangleEpsilon rejects rays parallel to a triangle.
const TriangleEpsilon = 1e-9

// IntersectRayTriangle intersects the ray origin + t*dir with triangle
// (v0, v1, v2) using the Möller-Trumbore test. u and v are the barycentric
// weights of v1 and v2. When cullBack is set, triangles wound clockwise as
// seen from the origin are ignored.
func IntersectRayTriangle(origin, dir, v0, v1, v2 math3d.Vec3, cullBack bool) (t, u, v float64, ok bool) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	h := dir.Cross(edge2)
	a := edge1.Dot(h)

	if cullBack {
		if a < TriangleEpsilon {
			return 0, 0, 0, false
		}
	} else if a > -TriangleEpsilon && a < TriangleEpsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := origin.Sub(v0)
	u = f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = f * edge2.Dot(q)
	return t, u, v, true
}

// IntersectRayPlane returns the parameter where the ray meets the plane.
func IntersectRayPlane(origin, dir math3d.Vec3, p Plane) (t float64, ok bool) {
	denom := p.Normal.Dot(dir)
	if denom == 0 {
		return 0, false
	}
	return -p.DistanceToPoint(origin) / denom, true
}
