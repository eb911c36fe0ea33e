package vis

import (
	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// planeDistance is shared by the scalar and batched paths. The conversions
// stop the compiler from fusing multiply-adds differently in each path.
func planeDistance(n math3d.Vec3, d, x, y, z float64) float64 {
	return float64(n.X*x) + float64(n.Y*y) + float64(n.Z*z) + d
}

func boxOutside(p *geom.Plane, minX, minY, minZ, maxX, maxY, maxZ float64) bool {
	// Positive vertex: the corner furthest along the normal.
	x, y, z := minX, minY, minZ
	if p.Normal.X >= 0 {
		x = maxX
	}
	if p.Normal.Y >= 0 {
		y = maxY
	}
	if p.Normal.Z >= 0 {
		z = maxZ
	}
	return planeDistance(p.Normal, p.D, x, y, z) < 0
}

func sphereOutside(p *geom.Plane, cx, cy, cz, r float64) bool {
	return planeDistance(p.Normal, p.D, cx, cy, cz) < -r
}

// primitiveInFrustum is the scalar culling test.
func primitiveInFrustum(p *Primitive, f *geom.Frustum) bool {
	planes := f.Active()
	if p.Kind == ShapeSphere {
		c := p.Sphere.Center
		for i := range planes {
			if sphereOutside(&planes[i], c.X, c.Y, c.Z, p.Sphere.Radius) {
				return false
			}
		}
		return true
	}

	b := p.Box
	for i := range planes {
		if boxOutside(&planes[i], b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z) {
			return false
		}
	}
	return true
}

// cullBatch holds one area's candidates in structure-of-arrays form so the
// plane loop runs over contiguous floats.
type cullBatch struct {
	boxes                              []*Primitive
	minX, minY, minZ, maxX, maxY, maxZ []float64
	boxAlive                           []bool

	spheres       []*Primitive
	cx, cy, cz, r []float64
	sphereAlive   []bool
}

func (b *cullBatch) reset() {
	clear(b.boxes)
	clear(b.spheres)
	b.boxes = b.boxes[:0]
	b.minX, b.minY, b.minZ = b.minX[:0], b.minY[:0], b.minZ[:0]
	b.maxX, b.maxY, b.maxZ = b.maxX[:0], b.maxY[:0], b.maxZ[:0]
	b.boxAlive = b.boxAlive[:0]
	b.spheres = b.spheres[:0]
	b.cx, b.cy, b.cz, b.r = b.cx[:0], b.cy[:0], b.cz[:0], b.r[:0]
	b.sphereAlive = b.sphereAlive[:0]
}

func (b *cullBatch) add(p *Primitive) {
	if p.Kind == ShapeSphere {
		c := p.Sphere.Center
		b.spheres = append(b.spheres, p)
		b.cx = append(b.cx, c.X)
		b.cy = append(b.cy, c.Y)
		b.cz = append(b.cz, c.Z)
		b.r = append(b.r, p.Sphere.Radius)
		b.sphereAlive = append(b.sphereAlive, true)
		return
	}

	box := p.Box
	b.boxes = append(b.boxes, p)
	b.minX = append(b.minX, box.Min.X)
	b.minY = append(b.minY, box.Min.Y)
	b.minZ = append(b.minZ, box.Min.Z)
	b.maxX = append(b.maxX, box.Max.X)
	b.maxY = append(b.maxY, box.Max.Y)
	b.maxZ = append(b.maxZ, box.Max.Z)
	b.boxAlive = append(b.boxAlive, true)
}

func (b *cullBatch) len() int {
	return len(b.boxes) + len(b.spheres)
}

// cull clears the alive flag of every candidate some plane rejects.
func (b *cullBatch) cull(f *geom.Frustum) {
	planes := f.Active()
	for i := range planes {
		plane := &planes[i]
		for j, alive := range b.boxAlive {
			if alive && boxOutside(plane, b.minX[j], b.minY[j], b.minZ[j], b.maxX[j], b.maxY[j], b.maxZ[j]) {
				b.boxAlive[j] = false
			}
		}
		for j, alive := range b.sphereAlive {
			if alive && sphereOutside(plane, b.cx[j], b.cy[j], b.cz[j], b.r[j]) {
				b.sphereAlive[j] = false
			}
		}
	}
}

// cullArea appends the primitives of area that pass filter and frustum to
// out, each at most once per query.
func (s *System) cullArea(ctx *QueryContext, eye math3d.Vec3, area *Area, f *geom.Frustum, filter *Filter, out *VisibleSet) {
	batch := &ctx.batch
	batch.reset()

	for _, p := range area.prims {
		if ctx.primMarked(p) || !filter.Accept(p) {
			continue
		}
		ctx.Stats.PrimitivesTested++

		if !p.facing(eye) {
			ctx.Stats.PrimitivesCulled++
			continue
		}

		if s.opts.ScalarCulling {
			if primitiveInFrustum(p, f) {
				ctx.markPrim(p)
				out.Primitives = append(out.Primitives, p)
			} else {
				ctx.Stats.PrimitivesCulled++
			}
			continue
		}
		batch.add(p)
	}

	if batch.len() == 0 {
		return
	}
	batch.cull(f)
	emit := func(prims []*Primitive, alive []bool) {
		for j, p := range prims {
			if !alive[j] {
				ctx.Stats.PrimitivesCulled++
				continue
			}
			ctx.markPrim(p)
			out.Primitives = append(out.Primitives, p)
		}
	}
	emit(batch.boxes, batch.boxAlive)
	emit(batch.spheres, batch.sphereAlive)
}
