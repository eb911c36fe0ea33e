package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/taigrr/portalvis/pkg/config"
	"github.com/taigrr/portalvis/pkg/level"
	"github.com/taigrr/portalvis/pkg/math3d"
	"github.com/taigrr/portalvis/pkg/render"
	"github.com/taigrr/portalvis/pkg/vis"
)

// world is everything a command works on.
type world struct {
	cfg   *config.Config
	log   *zap.Logger
	file  *level.File
	sys   *vis.System
	scene *level.Scene
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.GlobalString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newLogger builds the zap logger from config; -v and -vv override the level.
func newLogger(ctx *cli.Context, cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	if ctx.GlobalBool("v") {
		level = zapcore.InfoLevel
	}
	if ctx.GlobalBool("vv") {
		level = zapcore.DebugLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// loadWorld reads the config, the level and the optional scene named by the
// command arguments.
func loadWorld(ctx *cli.Context) (*world, error) {
	if ctx.NArg() < 1 || ctx.NArg() > 2 {
		return nil, errors.New("expected a level file and an optional scene file")
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(ctx, cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	w := &world{cfg: cfg, log: log}
	levelPath := ctx.Args().Get(0)
	w.sys, w.file, err = level.Build(levelPath, cfg.Visibility.Options(log.Named("vis")))
	if err != nil {
		return nil, err
	}
	log.Info("level loaded",
		zap.String("path", levelPath),
		zap.Int("areas", w.sys.AreaCount()),
		zap.Int("portals", w.sys.PortalCount()),
		zap.Bool("bsp", w.sys.HasBSP()),
	)

	if ctx.NArg() == 2 {
		scenePath := ctx.Args().Get(1)
		if w.scene, err = level.LoadScene(scenePath, w.sys); err != nil {
			return nil, err
		}
		log.Info("scene loaded",
			zap.String("path", scenePath),
			zap.Int("primitives", w.sys.PrimitiveCount()),
		)
	}
	return w, nil
}

func (w *world) close() {
	_ = w.log.Sync()
}

// parseVec3 reads "x,y,z".
func parseVec3(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("vector %q: want x,y,z", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("vector %q: %w", s, err)
		}
		xyz[i] = f
	}
	return math3d.V3(xyz[0], xyz[1], xyz[2]), nil
}

// camera places a camera from the --eye and --target flags. The eye
// defaults to the centre of the first area.
func (w *world) camera(ctx *cli.Context) (*render.Camera, error) {
	cam := render.NewCamera()
	cam.Lens = render.Lens{
		FOV:    w.cfg.View.FOV(),
		Aspect: w.cfg.View.Aspect(),
		Near:   w.cfg.View.Near,
		Far:    w.cfg.View.Far,
	}

	if w.sys.AreaCount() > 0 {
		cam.Position = w.sys.Area(0).Bounds().Center()
	}
	if s := ctx.String("eye"); s != "" {
		eye, err := parseVec3(s)
		if err != nil {
			return nil, fmt.Errorf("--eye: %w", err)
		}
		cam.Position = eye
	}
	if s := ctx.String("target"); s != "" {
		target, err := parseVec3(s)
		if err != nil {
			return nil, fmt.Errorf("--target: %w", err)
		}
		if target == cam.Position {
			return nil, errors.New("--target equals --eye")
		}
		cam.LookAt(target)
	}
	return cam, nil
}

// name labels a primitive by its scene name, or its pool id.
func name(p *vis.Primitive) string {
	if s, ok := p.Owner.(string); ok && s != "" {
		return s
	}
	return fmt.Sprintf("#%d", p.ID())
}

func areaName(w *world, a *vis.Area) string {
	if a.Outdoor() {
		return "outdoor"
	}
	if i := a.Index(); i < len(w.file.Areas) && w.file.Areas[i].Name != "" {
		return fmt.Sprintf("%d %s", i, w.file.Areas[i].Name)
	}
	return strconv.Itoa(a.Index())
}

func formatVec(v math3d.Vec3) string {
	return fmt.Sprintf("%.2f, %.2f, %.2f", v.X, v.Y, v.Z)
}
