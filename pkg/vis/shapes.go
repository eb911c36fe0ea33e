package vis

import (
	"math"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// BoxRaycaster treats a primitive's Box as a solid: the ray hits the face
// it enters through and, unless back faces are culled, the face it leaves
// through.
type BoxRaycaster struct{}

// RaycastAll implements Raycaster.
func (BoxRaycaster) RaycastAll(p *Primitive, ray *Ray, hits []TriangleHit) []TriangleHit {
	tmin, tmax, ok := geom.IntersectRayAABB(ray.Start, ray.Dir, p.Box)
	if !ok {
		return hits
	}
	if tmin >= 0 && tmin <= ray.Length {
		hits = append(hits, boxSurfaceHit(p.Box, ray, tmin))
	}
	if !ray.CullBackFaces && tmax > tmin && tmax >= 0 && tmax <= ray.Length {
		hits = append(hits, boxSurfaceHit(p.Box, ray, tmax))
	}
	return hits
}

// RaycastClosest implements Raycaster.
func (BoxRaycaster) RaycastClosest(p *Primitive, ray *Ray) (TriangleHit, bool) {
	tmin, tmax, ok := geom.IntersectRayAABB(ray.Start, ray.Dir, p.Box)
	switch {
	case !ok:
		return TriangleHit{}, false
	case tmin >= 0 && tmin <= ray.Length:
		return boxSurfaceHit(p.Box, ray, tmin), true
	case !ray.CullBackFaces && tmin < 0 && tmax >= 0 && tmax <= ray.Length:
		return boxSurfaceHit(p.Box, ray, tmax), true
	default:
		return TriangleHit{}, false
	}
}

func boxSurfaceHit(box geom.AABB, ray *Ray, t float64) TriangleHit {
	loc := ray.PointAt(t)
	return TriangleHit{Location: loc, Normal: boxFaceNormal(box, loc), Distance: t}
}

// boxFaceNormal returns the outward normal of the face nearest to point.
func boxFaceNormal(box geom.AABB, point math3d.Vec3) math3d.Vec3 {
	best := math.Inf(1)
	var n math3d.Vec3
	for axis := range 3 {
		lo := math.Abs(point.Axis(axis) - box.Min.Axis(axis))
		hi := math.Abs(point.Axis(axis) - box.Max.Axis(axis))
		if lo < best {
			best, n = lo, axisVector(axis, -1)
		}
		if hi < best {
			best, n = hi, axisVector(axis, 1)
		}
	}
	return n
}

func axisVector(axis int, sign float64) math3d.Vec3 {
	switch axis {
	case 0:
		return math3d.V3(sign, 0, 0)
	case 1:
		return math3d.V3(0, sign, 0)
	default:
		return math3d.V3(0, 0, sign)
	}
}

// SphereRaycaster treats a primitive's Sphere as a solid.
type SphereRaycaster struct{}

// RaycastAll implements Raycaster.
func (SphereRaycaster) RaycastAll(p *Primitive, ray *Ray, hits []TriangleHit) []TriangleHit {
	t0, t1, ok := geom.IntersectRaySphere(ray.Start, ray.Dir, p.Sphere)
	if !ok {
		return hits
	}
	if t0 >= 0 && t0 <= ray.Length {
		hits = append(hits, sphereSurfaceHit(p.Sphere, ray, t0))
	}
	if !ray.CullBackFaces && t1 > t0 && t1 >= 0 && t1 <= ray.Length {
		hits = append(hits, sphereSurfaceHit(p.Sphere, ray, t1))
	}
	return hits
}

// RaycastClosest implements Raycaster.
func (SphereRaycaster) RaycastClosest(p *Primitive, ray *Ray) (TriangleHit, bool) {
	t0, t1, ok := geom.IntersectRaySphere(ray.Start, ray.Dir, p.Sphere)
	switch {
	case !ok:
		return TriangleHit{}, false
	case t0 >= 0 && t0 <= ray.Length:
		return sphereSurfaceHit(p.Sphere, ray, t0), true
	case !ray.CullBackFaces && t0 < 0 && t1 >= 0 && t1 <= ray.Length:
		return sphereSurfaceHit(p.Sphere, ray, t1), true
	default:
		return TriangleHit{}, false
	}
}

func sphereSurfaceHit(s geom.Sphere, ray *Ray, t float64) TriangleHit {
	loc := ray.PointAt(t)
	return TriangleHit{Location: loc, Normal: loc.Sub(s.Center).Normalize(), Distance: t}
}
