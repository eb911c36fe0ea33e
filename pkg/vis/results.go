package vis

import (
	"cmp"
	"math"
	"slices"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// VisibleArea is an area reached by a visibility query together with the
// NDC scissor of the portal chain it was seen through.
type VisibleArea struct {
	Area    *Area
	Scissor geom.Rect
	Depth   int
}

// VisibleSet receives the result of QueryVisiblePrimitives. It is owned by
// the caller and reused across queries.
type VisibleSet struct {
	Primitives []*Primitive
	Areas      []VisibleArea
}

// Reset empties the set, keeping its storage.
func (v *VisibleSet) Reset() {
	clear(v.Primitives)
	v.Primitives = v.Primitives[:0]
	v.Areas = v.Areas[:0]
}

// Contains reports whether p is in the set.
func (v *VisibleSet) Contains(p *Primitive) bool {
	return slices.Contains(v.Primitives, p)
}

// ContainsArea reports whether a was reached.
func (v *VisibleSet) ContainsArea(a *Area) bool {
	for _, va := range v.Areas {
		if va.Area == a {
			return true
		}
	}
	return false
}

// SortByDistance orders the primitives nearest first.
func (v *VisibleSet) SortByDistance(eye math3d.Vec3) {
	slices.SortStableFunc(v.Primitives, func(a, b *Primitive) int {
		return cmp.Compare(a.DistanceSq(eye), b.DistanceSq(eye))
	})
}

// DistanceSq returns the squared distance from point to the primitive's
// shape, zero when point is inside.
func (p *Primitive) DistanceSq(point math3d.Vec3) float64 {
	if p.Kind == ShapeSphere {
		d := math.Max(point.Distance(p.Sphere.Center)-p.Sphere.Radius, 0)
		return d * d
	}
	return p.Box.DistanceSqToPoint(point)
}

// TriangleHit is one intersection reported by a Raycaster.
type TriangleHit struct {
	Primitive *Primitive
	Location  math3d.Vec3
	Normal    math3d.Vec3
	// Distance from the ray start in world units.
	Distance float64
	// Fraction of the segment, Distance / Length.
	Fraction float64
	// Barycentric weights of the second and third triangle vertex.
	Barycentric math3d.Vec2
	Triangle    int
}

// PrimitiveHits summarizes the hits of one primitive.
type PrimitiveHits struct {
	Primitive *Primitive
	NumHits   int
	Closest   TriangleHit
}

// RaycastResult receives the result of RaycastTriangles.
type RaycastResult struct {
	Hits       []TriangleHit
	Primitives []PrimitiveHits
}

// Reset empties the result, keeping its storage.
func (r *RaycastResult) Reset() {
	r.Hits = r.Hits[:0]
	r.Primitives = r.Primitives[:0]
}

// Sort orders hits and primitives nearest first.
func (r *RaycastResult) Sort() {
	slices.SortStableFunc(r.Hits, func(a, b TriangleHit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	slices.SortStableFunc(r.Primitives, func(a, b PrimitiveHits) int {
		return cmp.Compare(a.Closest.Distance, b.Closest.Distance)
	})
}

// ClosestResult receives the result of RaycastClosest. Vertices and UV are
// filled when the primitive's Raycaster implements HitEvaluator.
type ClosestResult struct {
	Primitive *Primitive
	Hit       TriangleHit
	Fraction  float64
	Vertices  [3]math3d.Vec3
	UV        math3d.Vec2
}

// BoxHit is a ray crossing a primitive's bounding volume.
type BoxHit struct {
	Primitive   *Primitive
	LocationMin math3d.Vec3
	LocationMax math3d.Vec3
	DistanceMin float64
	DistanceMax float64
}

func sortBoxHits(hits []BoxHit) {
	slices.SortStableFunc(hits, func(a, b BoxHit) int {
		return cmp.Compare(a.DistanceMin, b.DistanceMin)
	})
}
