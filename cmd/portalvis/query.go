package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/taigrr/portalvis/pkg/vis"
)

// filterFromFlags builds a query filter from --visibility and --shadow.
func filterFromFlags(ctx *cli.Context) (vis.Filter, error) {
	f := vis.DefaultFilter()
	if ctx.Bool("shadow") {
		f.QueryMask = vis.QueryShadowCast
	}
	switch s := ctx.String("visibility"); s {
	case "", "all":
	default:
		mask, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return f, fmt.Errorf("--visibility: %w", err)
		}
		f.VisibilityMask = vis.VisibilityGroup(mask)
	}
	return f, nil
}

// Query prints what is visible from a viewpoint.
func Query(ctx *cli.Context) error {
	w, err := loadWorld(ctx)
	if err != nil {
		return err
	}
	defer w.close()

	cam, err := w.camera(ctx)
	if err != nil {
		return err
	}
	filter, err := filterFromFlags(ctx)
	if err != nil {
		return err
	}

	view := cam.View()
	qctx := vis.NewQueryContext()
	var out vis.VisibleSet
	w.sys.QueryVisiblePrimitives(qctx, &view, &filter, &out)
	w.log.Debug("query done",
		zap.Int("areas", len(out.Areas)),
		zap.Int("primitives", len(out.Primitives)),
	)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Primitive", "Shape", "Distance", "Areas"})
	for _, p := range out.Primitives {
		var areas []string
		for _, a := range p.Areas() {
			areas = append(areas, areaName(w, a))
		}
		table.Append([]string{
			name(p),
			p.Kind.String(),
			fmt.Sprintf("%.2f", math.Sqrt(p.DistanceSq(view.Eye))),
			strings.Join(areas, ", "),
		})
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "visible from %s\n%s", formatVec(view.Eye), buf.String())

	buf.Reset()
	table = tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Area", "Depth", "Scissor"})
	for _, va := range out.Areas {
		r := va.Scissor
		table.Append([]string{
			areaName(w, va.Area),
			strconv.Itoa(va.Depth),
			fmt.Sprintf("[%.2f, %.2f] x [%.2f, %.2f]", r.MinX, r.MaxX, r.MinY, r.MaxY),
		})
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "areas\n%s", buf.String())

	printStats(qctx.Stats)
	return nil
}

func printStats(s vis.QueryStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Areas", "Portals tested", "Portals passed", "Primitives tested", "Culled", "Truncated"})
	table.Append([]string{
		strconv.Itoa(s.AreasVisited),
		strconv.Itoa(s.PortalsTested),
		strconv.Itoa(s.PortalsPassed),
		strconv.Itoa(s.PrimitivesTested),
		strconv.Itoa(s.PrimitivesCulled),
		strconv.Itoa(s.DepthTruncations),
	})
	table.Render()
	fmt.Fprintf(os.Stdout, "query statistics\n%s", buf.String())
}
