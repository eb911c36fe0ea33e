package main

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/portalvis/pkg/geom"
	"github.com/taigrr/portalvis/pkg/math3d"
	"github.com/taigrr/portalvis/pkg/render"
	"github.com/taigrr/portalvis/pkg/vis"
)

// benchResult is what one worker measured.
type benchResult struct {
	queries   int
	visible   int
	rays      int
	hits      int
	queryTime time.Duration
	rayTime   time.Duration
}

// Bench runs random visibility queries and closest-hit raycasts on several
// goroutines at once, each with its own query context.
func Bench(ctx *cli.Context) error {
	w, err := loadWorld(ctx)
	if err != nil {
		return err
	}
	defer w.close()

	workers := w.cfg.Bench.Workers
	if n := ctx.Int("workers"); n > 0 {
		workers = n
	}
	total := w.cfg.Bench.Rays
	if n := ctx.Int("rays"); n > 0 {
		total = n
	}

	region := w.sys.IndoorBounds()
	if region.IsEmpty() {
		region = geom.AABBFromCenter(math3d.Zero3(), math3d.Splat3(50))
	}
	reach := region.Size().Len()

	cam, err := w.camera(ctx)
	if err != nil {
		return err
	}

	w.log.Info("bench starting", zap.Int("workers", workers), zap.Int("operations", total))
	results := make([]benchResult, workers)
	g, gctx := errgroup.WithContext(context.Background())
	for i := range workers {
		n := total / workers
		if i < total%workers {
			n++
		}
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(w.cfg.Bench.Seed, uint64(i)))
			return benchWorker(gctx, w.sys, *cam, rng, region, reach, n, &results[i])
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Worker", "Queries", "Avg visible", "Query/s", "Rays", "Hit %", "Ray/s"})
	var sum benchResult
	for i, r := range results {
		table.Append(benchRow(fmt.Sprintf("%d", i), r))
		sum.queries += r.queries
		sum.visible += r.visible
		sum.rays += r.rays
		sum.hits += r.hits
		sum.queryTime = max(sum.queryTime, r.queryTime)
		sum.rayTime = max(sum.rayTime, r.rayTime)
	}
	table.SetFooter(benchRow("TOTAL", sum))
	table.Render()
	fmt.Fprintf(os.Stdout, "bench\n%s", buf.String())
	return nil
}

func benchRow(label string, r benchResult) []string {
	rate := func(n int, d time.Duration) string {
		if d <= 0 {
			return "-"
		}
		return fmt.Sprintf("%.0f", float64(n)/d.Seconds())
	}
	avg, hitPct := 0.0, 0.0
	if r.queries > 0 {
		avg = float64(r.visible) / float64(r.queries)
	}
	if r.rays > 0 {
		hitPct = 100 * float64(r.hits) / float64(r.rays)
	}
	return []string{
		label,
		fmt.Sprintf("%d", r.queries),
		fmt.Sprintf("%.1f", avg),
		rate(r.queries, r.queryTime),
		fmt.Sprintf("%d", r.rays),
		fmt.Sprintf("%.1f", hitPct),
		rate(r.rays, r.rayTime),
	}
}

func randomPoint(rng *rand.Rand, b geom.AABB) math3d.Vec3 {
	return math3d.V3(
		b.Min.X+rng.Float64()*(b.Max.X-b.Min.X),
		b.Min.Y+rng.Float64()*(b.Max.Y-b.Min.Y),
		b.Min.Z+rng.Float64()*(b.Max.Z-b.Min.Z),
	)
}

func randomDir(rng *rand.Rand) math3d.Vec3 {
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(1 - z*z)
	return math3d.V3(r*math.Cos(phi), r*math.Sin(phi), z)
}

func benchWorker(ctx context.Context, sys *vis.System, cam render.Camera, rng *rand.Rand, region geom.AABB, reach float64, n int, out *benchResult) error {
	qctx := vis.NewQueryContext()
	var visible vis.VisibleSet
	var hit vis.ClosestResult

	start := time.Now()
	for i := range n {
		if i%1024 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		cam.Position = randomPoint(rng, region)
		cam.SetRotation(rng.Float64()*math.Pi-math.Pi/2, rng.Float64()*2*math.Pi)
		view := cam.View()
		sys.QueryVisiblePrimitives(qctx, &view, nil, &visible)
		out.visible += len(visible.Primitives)
	}
	out.queries = n
	out.queryTime = time.Since(start)

	start = time.Now()
	for i := range n {
		if i%1024 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		from := randomPoint(rng, region)
		to := from.Add(randomDir(rng).Scale(reach))
		if sys.RaycastClosest(qctx, from, to, nil, &hit) {
			out.hits++
		}
	}
	out.rays = n
	out.rayTime = time.Since(start)
	return nil
}
