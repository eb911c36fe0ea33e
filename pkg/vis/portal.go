package vis

import (
	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// MaxCullPlanes is the number of portal-derived planes a frustum may carry
// on top of the view planes. Each portal adds its planes to the parent's
// until the cap is reached; deeper portals then reuse the parent's planes,
// which over-includes but never drops a visible primitive.
const MaxCullPlanes = 5

// View is the viewpoint of a visibility query.
type View struct {
	Eye            math3d.Vec3
	ViewProjection math3d.Mat4
	Frustum        geom.Frustum
}

// NewView builds a view from an eye position and the combined
// view-projection matrix.
func NewView(eye math3d.Vec3, viewProj math3d.Mat4) View {
	return View{
		Eye:            eye,
		ViewProjection: viewProj,
		Frustum:        geom.NewFrustumFromMatrix(viewProj),
	}
}

// portalFrame is one level of the traversal stack.
type portalFrame struct {
	area    *Area
	frustum geom.Frustum
	scissor geom.Rect
	next    int
}

// QueryVisiblePrimitives floods from the area containing the viewer through
// every portal the frustum can see, culling the primitives of each area it
// reaches. out is reset first. Each area is visited and each primitive
// reported at most once. A nil filter means DefaultFilter.
func (s *System) QueryVisiblePrimitives(ctx *QueryContext, view *View, filter *Filter, out *VisibleSet) {
	f := filterOrDefault(filter)
	ctx.begin(s)
	out.Reset()

	start := s.FindArea(view.Eye)
	ctx.stack = append(ctx.stack, portalFrame{
		area:    start,
		frustum: view.Frustum,
		scissor: geom.FullRect(),
	})
	s.enterArea(ctx, view, f, out)

	for len(ctx.stack) > 0 {
		top := &ctx.stack[len(ctx.stack)-1]
		if top.next >= len(top.area.portals) {
			ctx.stack = ctx.stack[:len(ctx.stack)-1]
			continue
		}
		link := &top.area.portals[top.next]
		top.next++

		child, ok := s.passPortal(ctx, view, top, link)
		if !ok {
			continue
		}
		if len(ctx.stack) > s.opts.MaxPortalDepth {
			ctx.Stats.DepthTruncations++
			continue
		}
		ctx.Stats.PortalsPassed++
		ctx.stack = append(ctx.stack, child)
		s.enterArea(ctx, view, f, out)
	}

	if f.SortByDistance {
		out.SortByDistance(view.Eye)
	}
}

// enterArea visits the area on top of the stack.
func (s *System) enterArea(ctx *QueryContext, view *View, filter *Filter, out *VisibleSet) {
	frame := &ctx.stack[len(ctx.stack)-1]
	ctx.markArea(frame.area)
	ctx.Stats.AreasVisited++

	out.Areas = append(out.Areas, VisibleArea{
		Area:    frame.area,
		Scissor: frame.scissor,
		Depth:   len(ctx.stack) - 1,
	})
	s.cullArea(ctx, view.Eye, frame.area, &frame.frustum, filter, out)
}

// passPortal decides whether the traversal continues through link and, if
// so, returns the frame for the area behind it.
func (s *System) passPortal(ctx *QueryContext, view *View, parent *portalFrame, link *PortalLink) (portalFrame, bool) {
	ctx.Stats.PortalsTested++

	if link.Portal.blocked || ctx.areaVisited(link.To) {
		return portalFrame{}, false
	}

	d := link.Plane.DistanceToPoint(view.Eye)
	if d > PortalPlaneEpsilon {
		// Seen from behind.
		return portalFrame{}, false
	}
	if d >= -PortalPlaneEpsilon {
		if !link.Portal.bounds.Expand(PortalPlaneEpsilon).ContainsPoint(view.Eye) {
			// In the plane but beside the opening: seen edge-on.
			return portalFrame{}, false
		}
		// Standing in the opening: the far side sees what this side sees.
		return portalFrame{area: link.To, frustum: parent.frustum, scissor: parent.scissor}, true
	}

	if parent.frustum.RejectsPolygon(link.Hull) {
		return portalFrame{}, false
	}
	clipped := ctx.clip(link.Hull, &parent.frustum)
	if len(clipped) < 3 || geom.PolygonArea(clipped) <= geom.ClipEpsilon*geom.ClipEpsilon {
		return portalFrame{}, false
	}

	scissor := projectScissor(clipped, view, parent.scissor)
	if scissor.IsEmpty() {
		return portalFrame{}, false
	}

	child := portalFrame{area: link.To, scissor: scissor}
	buildPortalFrustum(&child.frustum, view, &parent.frustum, link.Plane, clipped)
	return child, true
}

// buildPortalFrustum narrows the parent frustum to the clipped portal
// polygon: one plane through the eye per polygon edge, then the portal
// plane, as long as fewer than MaxCullPlanes portal planes are in use.
// The result always contains every parent plane.
func buildPortalFrustum(dst *geom.Frustum, view *View, parent *geom.Frustum, portalPlane geom.Plane, clipped []math3d.Vec3) {
	*dst = *parent
	limit := min(view.Frustum.Count+MaxCullPlanes, geom.MaxFrustumPlanes)

	eye := view.Eye
	centroid := geom.PolygonCentroid(clipped)
	for i, a := range clipped {
		if dst.Count >= limit {
			return
		}
		b := clipped[(i+1)%len(clipped)]
		n := a.Sub(eye).Cross(b.Sub(eye))
		if n.LenSq() < geom.ClipEpsilon*geom.ClipEpsilon {
			continue
		}
		edge := geom.PlaneFromPointNormal(eye, n)
		if edge.DistanceToPoint(centroid) < 0 {
			edge = edge.Flip()
		}
		dst.Add(edge)
	}

	if dst.Count < limit {
		dst.Add(portalPlane)
	}
}

// projectScissor returns the NDC bounding rectangle of the polygon,
// intersected with parent. Points at or behind the eye make the projection
// meaningless, so parent is returned unchanged.
func projectScissor(points []math3d.Vec3, view *View, parent geom.Rect) geom.Rect {
	r := geom.EmptyRect()
	for _, p := range points {
		clip := view.ViewProjection.MulVec4(math3d.Point4(p))
		if clip.W <= geom.ClipEpsilon {
			return parent
		}
		r = r.Extend(math3d.V2(clip.X/clip.W, clip.Y/clip.W))
	}
	return r.Intersect(parent)
}
