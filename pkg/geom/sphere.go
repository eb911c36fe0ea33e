package geom

import "github.com/taigrr/portalvis/pkg/math3d"

// Sphere is a bounding sphere.
type Sphere struct {
	Center math3d.Vec3
	Radius float64
}

// Bounds returns the box enclosing the sphere.
func (s Sphere) Bounds() AABB {
	return AABBFromCenter(s.Center, math3d.Splat3(s.Radius))
}

// ContainsPoint returns true if p is inside the sphere.
func (s Sphere) ContainsPoint(p math3d.Vec3) bool {
	return p.Sub(s.Center).LenSq() <= s.Radius*s.Radius
}

// Overlaps returns true if the spheres intersect.
func (s Sphere) Overlaps(o Sphere) bool {
	r := s.Radius + o.Radius
	return s.Center.Sub(o.Center).LenSq() <= r*r
}
