package render

import (
	"image/color"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// Wireframe draws 3D overlays through a camera into a framebuffer. It
// implements vis.DebugRenderer.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer

	viewProj math3d.Mat4
	near     geom.Plane
	scratchA []math3d.Vec3
	scratchB []math3d.Vec3
}

// NewWireframe creates a new wireframe renderer. Call Sync after moving
// the camera.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	w := &Wireframe{camera: camera, fb: fb}
	w.Sync()
	return w
}

// Sync picks up camera changes.
func (w *Wireframe) Sync() {
	w.viewProj = w.camera.ViewProjectionMatrix()
	f := geom.NewFrustumFromMatrix(w.viewProj)
	w.near = f.Planes[geom.FrustumNear]
}

// SetFramebuffer switches the target, e.g. after a resize.
func (w *Wireframe) SetFramebuffer(fb *Framebuffer) {
	w.fb = fb
}

// DrawLine3D draws a world-space line, clipped to the view volume.
func (w *Wireframe) DrawLine3D(a, b math3d.Vec3, c color.RGBA) {
	ca := w.viewProj.MulVec4(math3d.Point4(a))
	cb := w.viewProj.MulVec4(math3d.Point4(b))

	// Liang-Barsky in clip space.
	t0, t1 := 0.0, 1.0
	da, db := ca.ClipDistances(), cb.ClipDistances()
	for i := range da {
		switch {
		case da[i] < 0 && db[i] < 0:
			return
		case da[i] < 0:
			t0 = max(t0, da[i]/(da[i]-db[i]))
		case db[i] < 0:
			t1 = min(t1, da[i]/(da[i]-db[i]))
		}
	}
	if t0 > t1 {
		return
	}

	pa, pb := ca.Lerp(cb, t0).NDC(), ca.Lerp(cb, t1).NDC()
	x0, y0 := ndcToScreen(pa.X, pa.Y, w.fb.Width, w.fb.Height)
	x1, y1 := ndcToScreen(pb.X, pb.Y, w.fb.Width, w.fb.Height)
	w.fb.DrawLine(int(x0), int(y0), int(x1), int(y1), c)
}

// boxEdges joins corners of geom.AABB.Corners that differ in one axis.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // Z
}

// DrawBox draws the twelve edges of a box.
func (w *Wireframe) DrawBox(box geom.AABB, c color.RGBA) {
	corners := box.Corners()
	for _, e := range boxEdges {
		w.DrawLine3D(corners[e[0]], corners[e[1]], c)
	}
}

// DrawPolygon draws a convex polygon's outline and, if filled, blends its
// interior with c's alpha.
func (w *Wireframe) DrawPolygon(points []math3d.Vec3, c color.RGBA, filled bool) {
	if filled && len(points) >= 3 {
		w.fillPolygon(points, c)
	}
	for i, p := range points {
		w.DrawLine3D(p, points[(i+1)%len(points)], c)
	}
}

func (w *Wireframe) fillPolygon(points []math3d.Vec3, c color.RGBA) {
	// Only the part in front of the near plane projects sensibly.
	w.scratchA = geom.ClipPolygon(points, w.near, w.scratchA)
	if len(w.scratchA) < 3 {
		return
	}

	screen := w.scratchB[:0]
	for _, p := range w.scratchA {
		ndc := w.viewProj.MulVec3(p)
		x, y := ndcToScreen(ndc.X, ndc.Y, w.fb.Width, w.fb.Height)
		screen = append(screen, math3d.V3(x, y, 0))
	}
	w.scratchB = screen

	if c.A == 255 {
		c.A = 96
	}
	for i := 1; i+1 < len(screen); i++ {
		w.fb.FillTriangle(screen[0].X, screen[0].Y, screen[i].X, screen[i].Y, screen[i+1].X, screen[i+1].Y, c)
	}
}

// DrawScissor outlines an NDC rectangle, such as the scissor of an area
// reached through portals.
func (w *Wireframe) DrawScissor(r geom.Rect, c color.RGBA) {
	if r.IsEmpty() {
		return
	}
	x0, y0, x1, y1 := r.ToPixels(w.fb.Width, w.fb.Height)
	w.fb.DrawRectOutline(x0, y0, x1-x0, y1-y0, c)
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen)
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)
}

// DrawPoint draws a point as a small cross.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, size float64, c color.RGBA) {
	h := size / 2
	w.DrawLine3D(pos.Sub(math3d.V3(h, 0, 0)), pos.Add(math3d.V3(h, 0, 0)), c)
	w.DrawLine3D(pos.Sub(math3d.V3(0, h, 0)), pos.Add(math3d.V3(0, h, 0)), c)
	w.DrawLine3D(pos.Sub(math3d.V3(0, 0, h)), pos.Add(math3d.V3(0, 0, h)), c)
}
