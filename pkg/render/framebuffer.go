// Package render draws visibility debug overlays into a pixel buffer that
// can be shown in a terminal or saved as a PNG.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Framebuffer is an RGBA pixel grid. The terminal shows two pixel rows per
// cell, so a buffer for an N row terminal is 2N pixels high.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // row-major
}

func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{Width: width, Height: height, Pixels: make([]color.RGBA, width*height)}
}

// offset returns the index of (x, y) in Pixels, or false off the buffer.
func (fb *Framebuffer) offset(x, y int) (int, bool) {
	if uint(x) >= uint(fb.Width) || uint(y) >= uint(fb.Height) {
		return 0, false
	}
	return y*fb.Width + x, true
}

// Clear paints every pixel with c.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel overwrites a pixel. Writes off the buffer are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if i, ok := fb.offset(x, y); ok {
		fb.Pixels[i] = c
	}
}

// BlendPixel composites c over the pixel at (x, y) using c's alpha.
func (fb *Framebuffer) BlendPixel(x, y int, c color.RGBA) {
	i, ok := fb.offset(x, y)
	if !ok {
		return
	}
	if c.A == 255 {
		fb.Pixels[i] = c
		return
	}
	dst := &fb.Pixels[i]
	a := uint16(c.A)
	mix := func(s, d uint8) uint8 {
		return uint8((uint16(s)*a + uint16(d)*(255-a)) / 255)
	}
	dst.R, dst.G, dst.B = mix(c.R, dst.R), mix(c.G, dst.G), mix(c.B, dst.B)
	dst.A = max(dst.A, c.A)
}

// GetPixel returns transparent black off the buffer.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if i, ok := fb.offset(x, y); ok {
		return fb.Pixels[i]
	}
	return color.RGBA{}
}

// DrawLine rasterizes a pixel line with Bresenham's integer error term.
// Both endpoints are drawn.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx, sx := span(x0, x1)
	dy, sy := span(y0, y1)
	dy = -dy

	x, y := x0, y0
	acc := dx + dy
	for {
		fb.SetPixel(x, y, c)
		if x == x1 && y == y1 {
			return
		}
		twice := 2 * acc
		if twice >= dy {
			acc += dy
			x += sx
		}
		if twice <= dx {
			acc += dx
			y += sy
		}
	}
}

// span returns the distance from a to b and the unit step towards b.
func span(a, b int) (dist, step int) {
	if b < a {
		return a - b, -1
	}
	return b - a, 1
}

// DrawRectOutline outlines the w x h pixel rectangle whose top-left is
// (x, y).
func (fb *Framebuffer) DrawRectOutline(x, y, w, h int, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	right, bottom := x+w-1, y+h-1
	fb.DrawLine(x, y, right, y, c)
	fb.DrawLine(x, bottom, right, bottom, c)
	fb.DrawLine(x, y, x, bottom, c)
	fb.DrawLine(right, y, right, bottom, c)
}

// FillTriangle blends a screen-space triangle into the buffer. Pixels
// whose centres lie inside either winding are covered.
func (fb *Framebuffer) FillTriangle(x0, y0, x1, y1, x2, y2 float64, c color.RGBA) {
	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}

	minX := max(int(math.Floor(min(x0, x1, x2))), 0)
	maxX := min(int(math.Ceil(max(x0, x1, x2))), fb.Width-1)
	minY := max(int(math.Floor(min(y0, y1, y2))), 0)
	maxY := min(int(math.Ceil(max(y0, y1, y2))), fb.Height-1)

	for py := minY; py <= maxY; py++ {
		cy := float64(py) + 0.5
		for px := minX; px <= maxX; px++ {
			cx := float64(px) + 0.5
			w0 := edge(x1, y1, x2, y2, cx, cy)
			w1 := edge(x2, y2, x0, y0, cx, cy)
			w2 := edge(x0, y0, x1, y1, cx, cy)
			if area < 0 {
				w0, w1, w2 = -w0, -w1, -w2
			}
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				fb.BlendPixel(px, py, c)
			}
		}
	}
}

// edge is twice the signed area of (a, b, p).
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// ToImage copies the pixels into an image.RGBA, whose Pix layout matches.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.Pixels {
		px := img.Pix[i*4 : i*4+4 : i*4+4]
		px[0], px[1], px[2], px[3] = p.R, p.G, p.B, p.A
	}
	return img
}

// SavePNG writes the buffer to path, replacing any existing file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
