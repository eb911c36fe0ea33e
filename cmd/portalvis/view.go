package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/urfave/cli"

	"github.com/taigrr/portalvis/pkg/render"
	"github.com/taigrr/portalvis/pkg/vis"
)

// Controls:
//
//	W/S         - Walk forward/back
//	A/D         - Strafe left/right
//	Space/C     - Rise/sink
//	Arrows      - Turn (yaw/pitch)
//	Mouse drag  - Look around
//	O           - Toggle drawing every primitive
//	R           - Reset to the start position
//	?           - Toggle HUD
//	Esc         - Quit

// motionAxis is one smoothed degree of freedom: input adds velocity and a
// critically damped spring brings it back to rest.
type motionAxis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

func newMotionAxis(fps int, frequency float64) motionAxis {
	return motionAxis{velSpring: harmonica.NewSpring(harmonica.FPS(fps), frequency, 1.0)}
}

// Step returns this frame's displacement and decays the velocity.
func (a *motionAxis) Step() float64 {
	d := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	return d
}

// cameraMotion smooths walking and turning.
type cameraMotion struct {
	Forward, Strafe, Rise motionAxis
	Yaw, Pitch            motionAxis
}

func newCameraMotion(fps int) *cameraMotion {
	return &cameraMotion{
		Forward: newMotionAxis(fps, 6),
		Strafe:  newMotionAxis(fps, 6),
		Rise:    newMotionAxis(fps, 6),
		Yaw:     newMotionAxis(fps, 4),
		Pitch:   newMotionAxis(fps, 4),
	}
}

func (m *cameraMotion) Apply(cam *render.Camera) {
	cam.Move(m.Forward.Step(), m.Strafe.Step(), m.Rise.Step())
	cam.Turn(m.Pitch.Step(), m.Yaw.Step())
}

// hud tracks frame rate and formats the status line.
type hud struct {
	show      bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func (h *hud) Tick() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func (h *hud) Line(w *world, cam *render.Camera, out *vis.VisibleSet, stats vis.QueryStats) string {
	if !h.show {
		return "? for help"
	}
	area := w.sys.FindArea(cam.Position)
	return fmt.Sprintf(" %3.0f fps | area %s | %s | visible %d in %d areas | portals %d/%d | culled %d",
		h.fps, areaName(w, area), formatVec(cam.Position),
		len(out.Primitives), len(out.Areas),
		stats.PortalsPassed, stats.PortalsTested, stats.PrimitivesCulled)
}

// View walks a camera through the level in the terminal, drawing the
// debug overlay of what the portal traversal reaches.
func View(ctx *cli.Context) error {
	w, err := loadWorld(ctx)
	if err != nil {
		return err
	}
	defer w.close()

	fps := max(ctx.Int("fps"), 1)
	cam, err := w.camera(ctx)
	if err != nil {
		return err
	}
	home := *cam

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1002h") // button-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1002l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	var (
		termRenderer *render.TerminalRenderer
		fb           *render.Framebuffer
		wire         *render.Wireframe
	)
	resize := func() {
		termRenderer = render.NewTerminalRenderer(term, width, height, 1)
		fbWidth, fbHeight := termRenderer.FramebufferSize()
		fb = render.NewFramebuffer(fbWidth, fbHeight)
		cam.Lens.Aspect = float64(fbWidth) / float64(fbHeight)
		wire = render.NewWireframe(cam, fb)
	}
	resize()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	motion := newCameraMotion(fps)
	status := &hud{show: true, fpsTime: time.Now()}
	qctx := vis.NewQueryContext()
	var out vis.VisibleSet
	var showAll, mouseDown bool
	var lastMouseX, lastMouseY int

	const (
		walkImpulse = 0.25
		turnImpulse = 0.02
		mouseLook   = 0.004
	)

	// handle applies one input event and reports whether to quit.
	handle := func(ev uv.Event) bool {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			resize()

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape", "ctrl+c"):
				return true
			case ev.MatchString("w"):
				motion.Forward.Velocity += walkImpulse
			case ev.MatchString("s"):
				motion.Forward.Velocity -= walkImpulse
			case ev.MatchString("d"):
				motion.Strafe.Velocity += walkImpulse
			case ev.MatchString("a"):
				motion.Strafe.Velocity -= walkImpulse
			case ev.MatchString("space"):
				motion.Rise.Velocity += walkImpulse
			case ev.MatchString("c"):
				motion.Rise.Velocity -= walkImpulse
			case ev.MatchString("left"):
				motion.Yaw.Velocity += turnImpulse
			case ev.MatchString("right"):
				motion.Yaw.Velocity -= turnImpulse
			case ev.MatchString("up"):
				motion.Pitch.Velocity += turnImpulse
			case ev.MatchString("down"):
				motion.Pitch.Velocity -= turnImpulse
			case ev.MatchString("o"):
				showAll = !showAll
			case ev.MatchString("r"):
				aspect := cam.Lens.Aspect
				*cam = home
				cam.Lens.Aspect = aspect
				motion = newCameraMotion(fps)
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				status.show = !status.show
			}

		case uv.MouseClickEvent:
			mouseDown = true
			lastMouseX, lastMouseY = ev.X, ev.Y

		case uv.MouseReleaseEvent:
			mouseDown = false

		case uv.MouseMotionEvent:
			if mouseDown {
				motion.Yaw.Velocity -= float64(ev.X-lastMouseX) * mouseLook
				motion.Pitch.Velocity -= float64(ev.Y-lastMouseY) * mouseLook
				lastMouseX, lastMouseY = ev.X, ev.Y
			}
		}
		return false
	}

	events := term.Events()
	frame := time.NewTicker(time.Second / time.Duration(fps))
	defer frame.Stop()

	for {
		select {
		case <-sigCtx.Done():
			return nil
		case ev := <-events:
			if handle(ev) {
				return nil
			}
			continue
		case <-frame.C:
		}

		motion.Apply(cam)
		drawFrame(w, cam, fb, wire, qctx, &out, showAll)

		termRenderer.Render(fb)
		termRenderer.Status(status.Line(w, cam, &out, qctx.Stats))
		if err := termRenderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
		status.Tick()
	}
}
