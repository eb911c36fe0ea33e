package render

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferBounds(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.SetPixel(-1, 0, ColorRed)
	fb.SetPixel(4, 0, ColorRed)
	fb.SetPixel(0, 3, ColorRed)
	for i, p := range fb.Pixels {
		if p != (color.RGBA{}) {
			t.Fatalf("pixel %d = %v, out of range writes must be ignored", i, p)
		}
	}

	fb.SetPixel(3, 2, ColorRed)
	if got := fb.GetPixel(3, 2); got != ColorRed {
		t.Errorf("GetPixel(3, 2) = %v, want %v", got, ColorRed)
	}
	if got := fb.GetPixel(9, 9); got != (color.RGBA{}) {
		t.Errorf("GetPixel out of range = %v, want zero", got)
	}
}

func TestBlendPixel(t *testing.T) {
	tests := []struct {
		name string
		src  color.RGBA
		want color.RGBA
	}{
		{"opaque", ColorRed, ColorRed},
		{"half", color.RGBA{255, 0, 0, 128}, color.RGBA{128, 0, 0, 255}},
		{"transparent", color.RGBA{255, 0, 0, 0}, ColorBlack},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(1, 1)
			fb.Clear(ColorBlack)
			fb.BlendPixel(0, 0, tc.src)
			if got := fb.GetPixel(0, 0); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDrawLine(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.DrawLine(0, 0, 9, 9, ColorWhite)
	for i := range 10 {
		if fb.GetPixel(i, i) != ColorWhite {
			t.Errorf("diagonal pixel (%d, %d) not set", i, i)
		}
	}
	if fb.GetPixel(9, 0) != (color.RGBA{}) {
		t.Error("pixel off the line was set")
	}
}

func TestFillTriangleWinding(t *testing.T) {
	tests := []struct {
		name                   string
		x0, y0, x1, y1, x2, y2 float64
	}{
		{"clockwise", 0, 0, 10, 0, 0, 10},
		{"counter clockwise", 0, 0, 0, 10, 10, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(10, 10)
			fb.FillTriangle(tc.x0, tc.y0, tc.x1, tc.y1, tc.x2, tc.y2, ColorGreen)
			if fb.GetPixel(2, 2) != ColorGreen {
				t.Error("interior pixel not covered")
			}
			if fb.GetPixel(8, 8) != (color.RGBA{}) {
				t.Error("exterior pixel covered")
			}
		})
	}
}

func TestFillTriangleDegenerate(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.FillTriangle(0, 0, 5, 5, 9, 9, ColorGreen)
	for i, p := range fb.Pixels {
		if p != (color.RGBA{}) {
			t.Fatalf("pixel %d covered by a zero-area triangle", i)
		}
	}
}

func TestSavePNG(t *testing.T) {
	fb := NewFramebuffer(8, 6)
	fb.Clear(ColorBlack)
	fb.SetPixel(2, 3, ColorYellow)

	path := filepath.Join(t.TempDir(), "out.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("bounds = %v, want 8x6", b)
	}
	r, g, b, _ := img.At(2, 3).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("pixel (2, 3) = %d %d %d, want yellow", r>>8, g>>8, b>>8)
	}
}

func TestSavePNGBadPath(t *testing.T) {
	fb := NewFramebuffer(1, 1)
	if err := fb.SavePNG(filepath.Join(t.TempDir(), "missing", "out.png")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestTerminalFramebufferSize(t *testing.T) {
	tests := []struct {
		name                  string
		cols, rows, status    int
		wantWidth, wantHeight int
	}{
		{"with status line", 80, 24, 1, 80, 46},
		{"no status line", 40, 10, 0, 40, 20},
		{"status fills terminal", 10, 1, 1, 10, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewTerminalRenderer(nil, tc.cols, tc.rows, tc.status)
			w, h := r.FramebufferSize()
			if w != tc.wantWidth || h != tc.wantHeight {
				t.Errorf("FramebufferSize() = %d, %d, want %d, %d", w, h, tc.wantWidth, tc.wantHeight)
			}
		})
	}
}

func TestDrawLineReversedAndRect(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.DrawLine(8, 2, 2, 2, ColorRed)
	for x := 2; x <= 8; x++ {
		if fb.GetPixel(x, 2) != ColorRed {
			t.Errorf("pixel (%d, 2) of right-to-left line not set", x)
		}
	}

	fb.Clear(color.RGBA{})
	fb.DrawRectOutline(1, 1, 4, 3, ColorCyan)
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{1, 1, ColorCyan},
		{4, 1, ColorCyan},
		{1, 3, ColorCyan},
		{4, 3, ColorCyan},
		{2, 2, color.RGBA{}},
		{5, 1, color.RGBA{}},
	}
	for _, tc := range tests {
		if got := fb.GetPixel(tc.x, tc.y); got != tc.want {
			t.Errorf("GetPixel(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}
