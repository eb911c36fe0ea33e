package geom

import (
	"math"

	"github.com/taigrr/portalvis/pkg/math3d"
)

// Rect is a 2D axis-aligned rectangle in normalized device coordinates,
// used as a scissor for the areas seen through a portal.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// FullRect covers the whole viewport, [-1, 1] on both axes.
func FullRect() Rect {
	return Rect{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1}
}

// EmptyRect returns an inverted rectangle that any Extend replaces.
func EmptyRect() Rect {
	return Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Extend returns the rectangle grown to include p.
func (r Rect) Extend(p math3d.Vec2) Rect {
	return Rect{
		MinX: math.Min(r.MinX, p.X), MinY: math.Min(r.MinY, p.Y),
		MaxX: math.Max(r.MaxX, p.X), MaxY: math.Max(r.MaxY, p.Y),
	}
}

// Intersect returns the overlap of both rectangles. The result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		MinX: math.Max(r.MinX, o.MinX), MinY: math.Max(r.MinY, o.MinY),
		MaxX: math.Min(r.MaxX, o.MaxX), MaxY: math.Min(r.MaxY, o.MaxY),
	}
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX), MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX), MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Contains reports whether o lies inside r.
func (r Rect) Contains(o Rect) bool {
	return o.MinX >= r.MinX && o.MaxX <= r.MaxX && o.MinY >= r.MinY && o.MaxY <= r.MaxY
}

// ToPixels maps the rectangle to pixel coordinates of a width x height
// viewport with Y pointing down.
func (r Rect) ToPixels(width, height int) (x0, y0, x1, y1 int) {
	w, h := float64(width), float64(height)
	x0 = int(math.Floor((r.MinX + 1) * 0.5 * w))
	x1 = int(math.Ceil((r.MaxX + 1) * 0.5 * w))
	y0 = int(math.Floor((1 - r.MaxY) * 0.5 * h))
	y1 = int(math.Ceil((1 - r.MinY) * 0.5 * h))
	return max(x0, 0), max(y0, 0), min(x1, width), min(y1, height)
}
