package vis

import (
	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// QueryStats counts the work done by the last query run with a context.
type QueryStats struct {
	AreasVisited     int
	PortalsTested    int
	PortalsPassed    int
	PrimitivesTested int
	PrimitivesCulled int
	DepthTruncations int
}

// QueryContext carries the mutable state of one query at a time: visit
// markers, the portal stack and scratch buffers. Create one per goroutine;
// reusing it across calls avoids allocations.
type QueryContext struct {
	Stats QueryStats

	epoch     uint32
	areaMarks []uint32
	primMarks []uint32

	stack   []portalFrame
	clipA   []math3d.Vec3
	clipB   []math3d.Vec3
	batch   cullBatch
	entries []areaEntry
}

// NewQueryContext returns an empty context usable with any System.
func NewQueryContext() *QueryContext {
	return &QueryContext{}
}

// begin starts a new query against s: it bumps the epoch and sizes the
// marker arrays. Markers from earlier queries compare unequal to the new
// epoch, so nothing needs clearing except on wrap-around.
func (ctx *QueryContext) begin(s *System) {
	ctx.Stats = QueryStats{}

	if n := len(s.areas); len(ctx.areaMarks) < n {
		ctx.areaMarks = append(ctx.areaMarks, make([]uint32, n-len(ctx.areaMarks))...)
	}
	if n := s.pool.capacity(); len(ctx.primMarks) < n {
		ctx.primMarks = append(ctx.primMarks, make([]uint32, n-len(ctx.primMarks))...)
	}

	ctx.epoch++
	if ctx.epoch == 0 {
		clear(ctx.areaMarks)
		clear(ctx.primMarks)
		ctx.epoch = 1
	}

	if cap(ctx.stack) < s.opts.MaxPortalDepth+1 {
		ctx.stack = make([]portalFrame, 0, s.opts.MaxPortalDepth+1)
	}
	ctx.stack = ctx.stack[:0]
}

func (ctx *QueryContext) areaVisited(a *Area) bool {
	return ctx.areaMarks[a.index] == ctx.epoch
}

func (ctx *QueryContext) markArea(a *Area) {
	ctx.areaMarks[a.index] = ctx.epoch
}

func (ctx *QueryContext) primMarked(p *Primitive) bool {
	return ctx.primMarks[p.id] == ctx.epoch
}

func (ctx *QueryContext) markPrim(p *Primitive) {
	ctx.primMarks[p.id] = ctx.epoch
}

// clip clips a polygon against f using the context's scratch buffers.
func (ctx *QueryContext) clip(points []math3d.Vec3, f *geom.Frustum) []math3d.Vec3 {
	out := geom.ClipPolygonFrustum(points, f, ctx.clipA, ctx.clipB)
	// Keep whichever buffers grew so later clips reuse them.
	if cap(out) > cap(ctx.clipA) && cap(out) > cap(ctx.clipB) {
		if cap(ctx.clipA) < cap(ctx.clipB) {
			ctx.clipA = out[:0]
		} else {
			ctx.clipB = out[:0]
		}
	}
	return out
}
