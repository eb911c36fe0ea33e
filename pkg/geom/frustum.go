package geom

import "github.com/taigrr/portalvis/pkg/math3d"

// MaxFrustumPlanes is the capacity of a Frustum: the six view planes plus
// the planes added while clipping through portals.
const MaxFrustumPlanes = 12

// Frustum is a convex region bounded by inward-facing planes. Portal
// traversal starts from the six view planes and narrows the region by
// appending one plane per hull edge.
type Frustum struct {
	Planes [MaxFrustumPlanes]Plane
	Count  int
}

// Indices of the view planes within a frustum built from a matrix.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts the six view planes of a view-projection
// matrix. Each plane is the bottom row of the matrix plus or minus one of
// the other rows (Gribb and Hartmann), normalized so distances are in world
// units.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	// Row i of a column-major matrix.
	row := func(i int) Plane {
		return Plane{Normal: math3d.V3(m[i], m[i+4], m[i+8]), D: m[i+12]}
	}
	w := row(3)

	var f Frustum
	for axis := range 3 {
		r := row(axis)
		f.Add(Plane{Normal: w.Normal.Add(r.Normal), D: w.D + r.D})
		f.Add(Plane{Normal: w.Normal.Sub(r.Normal), D: w.D - r.D})
	}
	for i := range f.Count {
		f.Planes[i].Normalize()
	}
	return f
}

// NewFrustumFromPlanes builds a frustum from explicit planes. Planes beyond
// MaxFrustumPlanes are dropped.
func NewFrustumFromPlanes(planes ...Plane) Frustum {
	var f Frustum
	for _, p := range planes {
		if !f.Add(p) {
			break
		}
	}
	return f
}

// Add appends a plane. It returns false when the frustum is full.
func (f *Frustum) Add(p Plane) bool {
	if f.Count >= MaxFrustumPlanes {
		return false
	}
	f.Planes[f.Count] = p
	f.Count++
	return true
}

// Active returns the planes in use.
func (f *Frustum) Active() []Plane {
	return f.Planes[:f.Count]
}

// OverlapsBox is conservative: a box is rejected only when one plane has
// it entirely behind. Boxes outside near a frustum corner still pass.
func (f *Frustum) OverlapsBox(box AABB) bool {
	for _, p := range f.Active() {
		if p.BoxSide(box) == SideBack {
			return false
		}
	}
	return true
}

// OverlapsSphere is the sphere form of OverlapsBox.
func (f *Frustum) OverlapsSphere(s Sphere) bool {
	for _, p := range f.Active() {
		if p.SphereSide(s) == SideBack {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p is on the inner side of every plane.
// Points on a plane count as inside.
func (f *Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Active() {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// RejectsPolygon reports whether a single plane has every point behind it.
func (f *Frustum) RejectsPolygon(points []math3d.Vec3) bool {
	for _, plane := range f.Active() {
		if allBehind(plane, points) {
			return true
		}
	}
	return false
}

func allBehind(p Plane, points []math3d.Vec3) bool {
	for _, pt := range points {
		if p.DistanceToPoint(pt) >= 0 {
			return false
		}
	}
	return true
}
