package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to half-block terminal cells inside area.
// Each cell shows two framebuffer rows: ▀ with the top pixel as foreground
// and the bottom pixel as background.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, topY+1)),
				},
			})
		}
	}
}

// rgbaToColor maps transparent pixels to the terminal default.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// TerminalRenderer shows framebuffers on a terminal, reserving rows at the
// bottom for a status line.
type TerminalRenderer struct {
	term          *uv.Terminal
	width, height int
	statusRows    int
}

// NewTerminalRenderer sizes a renderer for a width x height cell terminal.
func NewTerminalRenderer(term *uv.Terminal, width, height, statusRows int) *TerminalRenderer {
	return &TerminalRenderer{term: term, width: width, height: height, statusRows: statusRows}
}

// FramebufferSize returns the pixel size of a framebuffer that fills the
// drawable rows.
func (r *TerminalRenderer) FramebufferSize() (width, height int) {
	return r.width, max(r.height-r.statusRows, 1) * 2
}

// Render draws fb above the status rows.
func (r *TerminalRenderer) Render(fb *Framebuffer) {
	rows := max(r.height-r.statusRows, 1)
	fb.Draw(r.term, uv.Rectangle(image.Rect(0, 0, r.width, rows)))
}

// Status writes text on the first status row, padded to the full width.
func (r *TerminalRenderer) Status(text string) {
	if r.statusRows == 0 {
		return
	}
	row := r.height - r.statusRows
	col := 0
	for _, ch := range text {
		if col >= r.width {
			break
		}
		r.term.SetCell(col, row, &uv.Cell{Content: string(ch), Width: 1})
		col++
	}
	for ; col < r.width; col++ {
		r.term.SetCell(col, row, &uv.Cell{Content: " ", Width: 1})
	}
}

// Flush pushes pending cell changes to the terminal.
func (r *TerminalRenderer) Flush() error {
	return r.term.Display()
}

// Colors used by overlays.
var (
	ColorBlack  = color.RGBA{0, 0, 0, 255}
	ColorWhite  = color.RGBA{255, 255, 255, 255}
	ColorRed    = color.RGBA{255, 0, 0, 255}
	ColorGreen  = color.RGBA{0, 255, 0, 255}
	ColorBlue   = color.RGBA{0, 0, 255, 255}
	ColorYellow = color.RGBA{255, 255, 0, 255}
	ColorCyan   = color.RGBA{0, 255, 255, 255}
	ColorGray   = color.RGBA{128, 128, 128, 255}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
