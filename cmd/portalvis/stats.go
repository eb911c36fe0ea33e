package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Stats prints the areas, portals and link counts of a level.
func Stats(ctx *cli.Context) error {
	w, err := loadWorld(ctx)
	if err != nil {
		return err
	}
	defer w.close()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Area", "Min", "Max", "Portals", "Primitives"})
	linked := 0
	for i := range w.sys.AreaCount() {
		a := w.sys.Area(i)
		b := a.Bounds()
		table.Append([]string{
			areaName(w, a),
			formatVec(b.Min),
			formatVec(b.Max),
			strconv.Itoa(len(a.Portals())),
			strconv.Itoa(len(a.Primitives())),
		})
		linked += len(a.Primitives())
	}
	out := w.sys.OutdoorArea()
	table.Append([]string{"outdoor", "-", "-", strconv.Itoa(len(out.Portals())), strconv.Itoa(len(out.Primitives()))})
	linked += len(out.Primitives())
	table.SetFooter([]string{"", "", "TOTAL", strconv.Itoa(w.sys.PortalCount()), strconv.Itoa(linked)})
	table.Render()
	fmt.Fprintf(os.Stdout, "areas\n%s", buf.String())

	buf.Reset()
	table = tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Portal", "From", "To", "Vertices", "Blocked"})
	for i := range len(w.file.Portals) {
		p := w.sys.Portal(i)
		if p == nil {
			continue
		}
		areas := p.Areas()
		table.Append([]string{
			strconv.Itoa(p.Index()),
			areaName(w, areas[0]),
			areaName(w, areas[1]),
			strconv.Itoa(len(p.Hull())),
			fmt.Sprintf("%t", p.Blocked()),
		})
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "portals\n%s", buf.String())

	indoor := w.sys.IndoorBounds()
	fmt.Fprintf(os.Stdout, "indoor bounds  %s .. %s\n", formatVec(indoor.Min), formatVec(indoor.Max))
	fmt.Fprintf(os.Stdout, "bsp            %t (%d leafs)\n", w.sys.HasBSP(), w.sys.LeafCount())
	fmt.Fprintf(os.Stdout, "primitives     %d registered, %d area links\n", w.sys.PrimitiveCount(), linked)
	return nil
}
