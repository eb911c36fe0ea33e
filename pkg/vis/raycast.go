package vis

import (
	"cmp"
	"math"
	"slices"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// Ray is the segment handed to a Raycaster.
type Ray struct {
	Start math3d.Vec3
	End   math3d.Vec3
	// Dir is the unit direction from Start to End.
	Dir    math3d.Vec3
	Length float64
	// CullBackFaces asks the raycaster to ignore triangles facing away
	// from Start.
	CullBackFaces bool
}

// NewRay builds the ray from start to end.
func NewRay(start, end math3d.Vec3) Ray {
	d := end.Sub(start)
	l := d.Len()
	r := Ray{Start: start, End: end, Length: l}
	if l > 0 {
		r.Dir = d.Scale(1 / l)
	}
	return r
}

// PointAt returns the point dist units from Start.
func (r *Ray) PointAt(dist float64) math3d.Vec3 {
	return r.Start.Add(r.Dir.Scale(dist))
}

// Raycaster is the triangle-level intersection test of a primitive.
// Hits must have Distance in [0, ray.Length]; the engine fills Primitive
// and Fraction.
type Raycaster interface {
	// RaycastAll appends every hit along the ray to hits.
	RaycastAll(p *Primitive, ray *Ray, hits []TriangleHit) []TriangleHit
	// RaycastClosest returns the hit nearest to ray.Start.
	RaycastClosest(p *Primitive, ray *Ray) (TriangleHit, bool)
}

// HitEvaluator recovers surface data for a closest hit. A Raycaster that
// also implements it gets called once per RaycastClosest query.
type HitEvaluator interface {
	EvaluateHit(p *Primitive, hit *TriangleHit, result *ClosestResult)
}

type areaEntry struct {
	area        *Area
	enter, exit float64
}

// walkSegment visits, nearest first, every area the segment passes
// through along with the fraction at which it enters. Each area is visited
// once. visit returns false to stop the walk.
func (s *System) walkSegment(ctx *QueryContext, seg geom.Segment, visit func(a *Area, enter float64) bool) {
	if s.hasBSP {
		s.walkNode(ctx, s.root, seg.Start, seg.End, 0, 1, visit)
		return
	}

	ctx.entries = ctx.entries[:0]
	for i := range len(s.areas) - 1 {
		a := &s.areas[i]
		if t0, t1, ok := geom.IntersectSegmentAABB(seg, a.bounds); ok {
			ctx.entries = append(ctx.entries, areaEntry{area: a, enter: t0, exit: t1})
		}
	}
	byEnter := func(a, b areaEntry) int {
		return cmp.Compare(a.enter, b.enter)
	}
	slices.SortStableFunc(ctx.entries, byEnter)
	if enter, ok := outdoorEntry(ctx.entries); ok {
		ctx.entries = append(ctx.entries, areaEntry{area: s.outdoor, enter: enter, exit: 1})
		slices.SortStableFunc(ctx.entries, byEnter)
	}

	for _, e := range ctx.entries {
		ctx.markArea(e.area)
		ctx.Stats.AreasVisited++
		if !visit(e.area, e.enter) {
			return
		}
	}
}

// outdoorEntry returns the first fraction of the segment that none of the
// sorted indoor entries covers.
func outdoorEntry(entries []areaEntry) (float64, bool) {
	reach := 0.0
	for _, e := range entries {
		if e.enter > reach {
			break
		}
		reach = max(reach, e.exit)
	}
	return reach, reach < 1
}

// walkNode descends the BSP along the sub-segment [p0, p1] spanning
// fractions [f0, f1], near side first.
func (s *System) walkNode(ctx *QueryContext, c int32, p0, p1 math3d.Vec3, f0, f1 float64, visit func(*Area, float64) bool) bool {
	for c >= 0 {
		node := &s.nodes[c]
		d0 := node.plane.DistanceToPoint(p0)
		d1 := node.plane.DistanceToPoint(p1)

		switch {
		case d0 >= 0 && d1 >= 0:
			c = node.children[0]
			continue
		case d0 < 0 && d1 < 0:
			c = node.children[1]
			continue
		}

		near := 0
		if d0 < 0 {
			near = 1
		}
		frac := d0 / (d0 - d1)
		mid := p0.Lerp(p1, frac)
		fmid := f0 + (f1-f0)*frac

		if !s.walkNode(ctx, node.children[near], p0, mid, f0, fmid, visit) {
			return false
		}
		c, p0, f0 = node.children[1-near], mid, fmid
	}

	area := s.areaAt(s.leafs[-1-c].area)
	if ctx.areaVisited(area) {
		return true
	}
	ctx.markArea(area)
	ctx.Stats.AreasVisited++
	return visit(area, f0)
}

// boundsInterval clips seg to the primitive's bounding volume.
func boundsInterval(p *Primitive, seg geom.Segment) (t0, t1 float64, ok bool) {
	if p.Kind == ShapeSphere {
		t0, t1, ok = geom.IntersectRaySphere(seg.Start, seg.Dir(), p.Sphere)
		if !ok || t1 < 0 || t0 > 1 {
			return 0, 0, false
		}
		return math.Max(t0, 0), math.Min(t1, 1), true
	}
	return geom.IntersectSegmentAABB(seg, p.Box)
}

// candidate reports whether p should be tested by this ray query and marks
// it so other areas skip it.
func (ctx *QueryContext) candidate(p *Primitive, filter *Filter) bool {
	if ctx.primMarked(p) {
		return false
	}
	ctx.markPrim(p)
	if !filter.Accept(p) {
		return false
	}
	ctx.Stats.PrimitivesTested++
	return true
}

// RaycastTriangles collects every triangle hit along the segment from
// start to end into out, which is reset first. Primitives without a
// Raycaster are skipped. It reports whether anything was hit.
func (s *System) RaycastTriangles(ctx *QueryContext, start, end math3d.Vec3, filter *Filter, out *RaycastResult) bool {
	f := filterOrDefault(filter)
	ctx.begin(s)
	out.Reset()

	ray := NewRay(start, end)
	if ray.Length == 0 {
		return false
	}
	seg := geom.Segment{Start: start, End: end}

	s.walkSegment(ctx, seg, func(a *Area, _ float64) bool {
		for _, p := range a.prims {
			if p.Raycaster == nil || !ctx.candidate(p, f) {
				continue
			}
			if _, _, ok := boundsInterval(p, seg); !ok {
				ctx.Stats.PrimitivesCulled++
				continue
			}

			local := ray
			local.CullBackFaces = p.cullBackFaces()
			first := len(out.Hits)
			out.Hits = p.Raycaster.RaycastAll(p, &local, out.Hits)

			summary := PrimitiveHits{Primitive: p}
			kept := out.Hits[:first]
			for _, h := range out.Hits[first:] {
				if h.Distance < 0 || h.Distance > ray.Length {
					continue
				}
				h.Primitive = p
				h.Fraction = h.Distance / ray.Length
				if summary.NumHits == 0 || h.Distance < summary.Closest.Distance {
					summary.Closest = h
				}
				summary.NumHits++
				kept = append(kept, h)
			}
			out.Hits = kept
			if summary.NumHits > 0 {
				out.Primitives = append(out.Primitives, summary)
			}
		}
		return true
	})

	if f.SortByDistance {
		out.Sort()
	}
	return len(out.Hits) > 0
}

// RaycastClosest finds the triangle hit nearest to start along the segment
// to end. Areas are walked nearest first and the walk stops once the best
// hit lies before the next area's entry. It reports whether anything was
// hit; out is only written on a hit.
func (s *System) RaycastClosest(ctx *QueryContext, start, end math3d.Vec3, filter *Filter, out *ClosestResult) bool {
	f := filterOrDefault(filter)
	ctx.begin(s)

	ray := NewRay(start, end)
	if ray.Length == 0 {
		return false
	}
	seg := geom.Segment{Start: start, End: end}

	var best TriangleHit
	found := false

	s.walkSegment(ctx, seg, func(a *Area, enter float64) bool {
		if found && best.Fraction < enter {
			return false
		}
		for _, p := range a.prims {
			if p.Raycaster == nil || !ctx.candidate(p, f) {
				continue
			}
			t0, _, ok := boundsInterval(p, seg)
			if !ok || (found && t0 > best.Fraction) {
				ctx.Stats.PrimitivesCulled++
				continue
			}

			local := ray
			local.CullBackFaces = p.cullBackFaces()
			hit, ok := p.Raycaster.RaycastClosest(p, &local)
			if !ok || hit.Distance < 0 || hit.Distance > ray.Length {
				continue
			}
			hit.Primitive = p
			hit.Fraction = hit.Distance / ray.Length
			if !found || hit.Fraction < best.Fraction {
				best, found = hit, true
			}
		}
		return true
	})

	if !found {
		return false
	}
	*out = ClosestResult{Primitive: best.Primitive, Hit: best, Fraction: best.Fraction}
	if ev, ok := best.Primitive.Raycaster.(HitEvaluator); ok {
		ev.EvaluateHit(best.Primitive, &best, out)
	}
	return true
}

// RaycastBounds appends to dst every primitive whose bounding volume the
// segment crosses, without triangle tests.
func (s *System) RaycastBounds(ctx *QueryContext, start, end math3d.Vec3, filter *Filter, dst []BoxHit) []BoxHit {
	f := filterOrDefault(filter)
	ctx.begin(s)
	dst = dst[:0]

	seg := geom.Segment{Start: start, End: end}
	length := seg.Length()
	if length == 0 {
		return dst
	}

	s.walkSegment(ctx, seg, func(a *Area, _ float64) bool {
		for _, p := range a.prims {
			if !ctx.candidate(p, f) {
				continue
			}
			t0, t1, ok := boundsInterval(p, seg)
			if !ok {
				ctx.Stats.PrimitivesCulled++
				continue
			}
			dst = append(dst, boxHit(p, seg, length, t0, t1))
		}
		return true
	})

	if f.SortByDistance {
		sortBoxHits(dst)
	}
	return dst
}

// RaycastClosestBounds returns the primitive whose bounding volume the
// segment enters first.
func (s *System) RaycastClosestBounds(ctx *QueryContext, start, end math3d.Vec3, filter *Filter) (BoxHit, bool) {
	f := filterOrDefault(filter)
	ctx.begin(s)

	seg := geom.Segment{Start: start, End: end}
	length := seg.Length()
	if length == 0 {
		return BoxHit{}, false
	}

	var best BoxHit
	bestT := math.Inf(1)

	s.walkSegment(ctx, seg, func(a *Area, enter float64) bool {
		if bestT < enter {
			return false
		}
		for _, p := range a.prims {
			if !ctx.candidate(p, f) {
				continue
			}
			t0, t1, ok := boundsInterval(p, seg)
			if !ok || t0 >= bestT {
				ctx.Stats.PrimitivesCulled++
				continue
			}
			best, bestT = boxHit(p, seg, length, t0, t1), t0
		}
		return true
	})

	return best, !math.IsInf(bestT, 1)
}

func boxHit(p *Primitive, seg geom.Segment, length, t0, t1 float64) BoxHit {
	return BoxHit{
		Primitive:   p,
		LocationMin: seg.PointAt(t0),
		LocationMax: seg.PointAt(t1),
		DistanceMin: t0 * length,
		DistanceMax: t1 * length,
	}
}
