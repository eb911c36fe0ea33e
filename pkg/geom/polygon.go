package geom

import "github.com/taigrr/portalvis/pkg/math3d"

// ClipEpsilon is the distance under which a point counts as on the plane.
const ClipEpsilon = 1e-6

// ClipPolygon clips a convex polygon against a plane, keeping the part in
// front of it. The result is appended to dst[:0] and returned; dst must not
// alias points.
func ClipPolygon(points []math3d.Vec3, plane Plane, dst []math3d.Vec3) []math3d.Vec3 {
	dst = dst[:0]
	n := len(points)
	if n == 0 {
		return dst
	}

	prev := points[n-1]
	prevDist := plane.DistanceToPoint(prev)
	for _, cur := range points {
		curDist := plane.DistanceToPoint(cur)
		prevIn := prevDist >= -ClipEpsilon
		curIn := curDist >= -ClipEpsilon

		if prevIn != curIn {
			t := prevDist / (prevDist - curDist)
			dst = append(dst, prev.Lerp(cur, t))
		}
		if curIn {
			dst = append(dst, cur)
		}

		prev, prevDist = cur, curDist
	}
	return dst
}

// ClipPolygonFrustum clips a convex polygon against every plane of f,
// ping-ponging between the two scratch buffers. The returned slice aliases
// one of them.
func ClipPolygonFrustum(points []math3d.Vec3, f *Frustum, scratchA, scratchB []math3d.Vec3) []math3d.Vec3 {
	cur := append(scratchA[:0], points...)
	next := scratchB
	for i := range f.Count {
		next = ClipPolygon(cur, f.Planes[i], next)
		cur, next = next, cur
		if len(cur) < 3 {
			return cur[:0]
		}
	}
	return cur
}

// PolygonArea returns the area of a planar polygon.
func PolygonArea(points []math3d.Vec3) float64 {
	return PolygonNormal(points).Len() * 0.5
}

// PolygonNormal returns the Newell normal of a polygon, scaled by twice its
// area.
func PolygonNormal(points []math3d.Vec3) math3d.Vec3 {
	var n math3d.Vec3
	for i, cur := range points {
		next := points[(i+1)%len(points)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n
}

// PolygonCentroid returns the vertex average of a polygon.
func PolygonCentroid(points []math3d.Vec3) math3d.Vec3 {
	var c math3d.Vec3
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(points)))
}

// PolygonBounds returns the box enclosing the polygon.
func PolygonBounds(points []math3d.Vec3) AABB {
	b := EmptyAABB()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}
