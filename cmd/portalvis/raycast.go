package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/taigrr/portalvis/pkg/math3d"
	"github.com/taigrr/portalvis/pkg/vis"
)

// Raycast casts one segment and prints what it hits.
func Raycast(ctx *cli.Context) error {
	if ctx.String("from") == "" || ctx.String("to") == "" {
		return errors.New("--from and --to are required")
	}
	from, err := parseVec3(ctx.String("from"))
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parseVec3(ctx.String("to"))
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	w, err := loadWorld(ctx)
	if err != nil {
		return err
	}
	defer w.close()

	qctx := vis.NewQueryContext()
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	switch mode := ctx.String("mode"); mode {
	case "all":
		var res vis.RaycastResult
		w.sys.RaycastTriangles(qctx, from, to, nil, &res)
		table.SetHeader([]string{"Primitive", "Triangle", "Distance", "Fraction", "Location", "Normal"})
		for _, h := range res.Hits {
			table.Append([]string{
				name(h.Primitive),
				strconv.Itoa(h.Triangle),
				fmt.Sprintf("%.3f", h.Distance),
				fmt.Sprintf("%.3f", h.Fraction),
				formatVec(h.Location),
				formatVec(h.Normal),
			})
		}

	case "closest":
		var res vis.ClosestResult
		table.SetHeader([]string{"Primitive", "Distance", "Fraction", "Location", "Normal", "UV"})
		if w.sys.RaycastClosest(qctx, from, to, nil, &res) {
			table.Append([]string{
				name(res.Primitive),
				fmt.Sprintf("%.3f", res.Hit.Distance),
				fmt.Sprintf("%.3f", res.Fraction),
				formatVec(res.Hit.Location),
				formatVec(res.Hit.Normal),
				formatUV(res.UV),
			})
		}

	case "bounds":
		hits := w.sys.RaycastBounds(qctx, from, to, nil, nil)
		table.SetHeader([]string{"Primitive", "Enter", "Exit", "Entry point", "Exit point"})
		for _, h := range hits {
			table.Append([]string{
				name(h.Primitive),
				fmt.Sprintf("%.3f", h.DistanceMin),
				fmt.Sprintf("%.3f", h.DistanceMax),
				formatVec(h.LocationMin),
				formatVec(h.LocationMax),
			})
		}

	default:
		return fmt.Errorf("unknown raycast mode %q", mode)
	}

	table.Render()
	fmt.Fprintf(os.Stdout, "segment %s -> %s\n%s", formatVec(from), formatVec(to), buf.String())
	fmt.Fprintf(os.Stdout, "areas walked %d, primitives tested %d, rejected by bounds %d\n",
		qctx.Stats.AreasVisited, qctx.Stats.PrimitivesTested, qctx.Stats.PrimitivesCulled)
	return nil
}

func formatUV(uv math3d.Vec2) string {
	return fmt.Sprintf("%.3f, %.3f", uv.X, uv.Y)
}
