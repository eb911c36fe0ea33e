package vis

import (
	"image/color"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
)

// DebugRenderer is the sink DrawDebug draws into.
type DebugRenderer interface {
	DrawLine3D(a, b math3d.Vec3, c color.RGBA)
	DrawBox(box geom.AABB, c color.RGBA)
	DrawPolygon(points []math3d.Vec3, c color.RGBA, filled bool)
}

// DebugOptions selects what DrawDebug draws and in which colors.
type DebugOptions struct {
	Areas        bool
	Portals      bool
	FillPortals  bool
	IndoorBounds bool
	Primitives   bool

	AreaColor          color.RGBA
	PortalColor        color.RGBA
	BlockedPortalColor color.RGBA
	IndoorColor        color.RGBA
	PrimitiveColor     color.RGBA
}

// DefaultDebugOptions draws areas and portals.
func DefaultDebugOptions() DebugOptions {
	return DebugOptions{
		Areas:              true,
		Portals:            true,
		AreaColor:          color.RGBA{0, 160, 255, 255},
		PortalColor:        color.RGBA{0, 255, 0, 255},
		BlockedPortalColor: color.RGBA{255, 0, 0, 255},
		IndoorColor:        color.RGBA{128, 128, 128, 255},
		PrimitiveColor:     color.RGBA{255, 255, 0, 255},
	}
}

// DrawDebug draws the level structure as overlays.
func (s *System) DrawDebug(r DebugRenderer, opts DebugOptions) {
	if opts.IndoorBounds && !s.indoorBounds.IsEmpty() {
		r.DrawBox(s.indoorBounds, opts.IndoorColor)
	}

	if opts.Areas {
		for i := range len(s.areas) - 1 {
			r.DrawBox(s.areas[i].bounds, opts.AreaColor)
		}
	}

	if opts.Portals {
		for _, p := range s.portals {
			if p == nil {
				continue
			}
			c := opts.PortalColor
			if p.blocked {
				c = opts.BlockedPortalColor
			}
			r.DrawPolygon(p.hull, c, opts.FillPortals)

			// Short tick along the normal shows which way the portal faces.
			center := geom.PolygonCentroid(p.hull)
			r.DrawLine3D(center, center.Add(p.plane.Normal.Scale(0.5)), c)
		}
	}

	if opts.Primitives {
		for _, p := range s.prims {
			r.DrawBox(p.Bounds(), opts.PrimitiveColor)
		}
	}
}
