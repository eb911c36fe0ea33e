package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/taigrr/portalvis/pkg/render"
	"github.com/taigrr/portalvis/pkg/vis"
)

var background = render.RGB(20, 20, 28)

// drawFrame renders the level overlay, the visible set and the portal
// scissors seen from cam into fb.
func drawFrame(w *world, cam *render.Camera, fb *render.Framebuffer, wire *render.Wireframe, qctx *vis.QueryContext, out *vis.VisibleSet, all bool) {
	fb.Clear(background)
	wire.Sync()

	opts := vis.DefaultDebugOptions()
	opts.FillPortals = true
	w.sys.DrawDebug(wire, opts)

	if all {
		for _, p := range w.sys.Primitives() {
			wire.DrawBox(p.Bounds(), render.ColorGray)
		}
	}

	view := cam.View()
	w.sys.QueryVisiblePrimitives(qctx, &view, nil, out)
	for _, p := range out.Primitives {
		wire.DrawBox(p.Bounds(), opts.PrimitiveColor)
	}
	for _, a := range out.Areas {
		if a.Depth > 0 {
			wire.DrawScissor(a.Scissor, render.ColorCyan)
		}
	}
}

// Debug writes a PNG of the level as seen from a viewpoint.
func Debug(ctx *cli.Context) error {
	w, err := loadWorld(ctx)
	if err != nil {
		return err
	}
	defer w.close()

	cam, err := w.camera(ctx)
	if err != nil {
		return err
	}
	fb := render.NewFramebuffer(w.cfg.View.Width, w.cfg.View.Height)
	wire := render.NewWireframe(cam, fb)

	qctx := vis.NewQueryContext()
	var out vis.VisibleSet
	drawFrame(w, cam, fb, wire, qctx, &out, ctx.Bool("all"))

	path := ctx.String("out")
	if err := fb.SavePNG(path); err != nil {
		return err
	}
	w.log.Info("debug image written",
		zap.String("path", path),
		zap.Int("visible", len(out.Primitives)),
		zap.Int("areas", len(out.Areas)),
	)
	fmt.Fprintln(os.Stdout, path)
	return nil
}
